// Package storage defines the repository every flow reads and writes through.
// Two implementations exist: a map backed one for single process setups and
// one backed by gorm for sqlite and postgres
package storage

import (
	"context"
	"errors"
	"time"

	"gamedash/api/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByAddress(ctx context.Context, address string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error

	CreatePasscode(ctx context.Context, p *model.OneTimePasscode) error
	// FindActivePasscode returns the newest unused passcode for address and code
	// that is still valid at now
	FindActivePasscode(ctx context.Context, address, code string, now time.Time) (*model.OneTimePasscode, error)
	// MarkPasscodeUsed flips the used flag. Returns ErrNotFound if the passcode
	// doesn't exist or was already used
	MarkPasscodeUsed(ctx context.Context, id string, at time.Time) error

	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpired removes passcodes and sessions that expired before now and
	// returns how many rows were removed
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	GetPlayer(ctx context.Context, userID string, game model.GameID, playerID string) (*model.Player, error)
	// SavePlayerBundle stores a freshly fetched player together with its stats
	// and matches in one step. Matches already stored for the player are skipped
	SavePlayerBundle(ctx context.Context, p *model.Player, s *model.GameStats, m []model.Match) error
	UpdatePlayer(ctx context.Context, p *model.Player) error

	GetGameStats(ctx context.Context, playerID string) (*model.GameStats, error)
	UpdateGameStats(ctx context.Context, s *model.GameStats) error

	// ListMatches returns the matches of a player, newest first
	ListMatches(ctx context.Context, playerID string) ([]model.Match, error)
}
