package storage

import (
	"context"
	"errors"
	"time"

	"gamedash/api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm stores everything in a relational database through gorm
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates all tables used by the store
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		model.User{},
		model.OneTimePasscode{},
		model.Session{},
		model.Player{},
		model.GameStats{},
		model.Match{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}

// conflict maps unique index violations, reported when the db was opened
// with TranslateError, to ErrConflict
func conflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}

	return err
}

func (g *Gorm) CreateUser(ctx context.Context, u *model.User) error {
	u.ID = newID(u.ID)

	var n int64
	err := g.db.WithContext(ctx).
		Model(model.User{}).
		Where("address = ?", u.Address).
		Count(&n).
		Error
	if err != nil {
		return err
	}

	if n > 0 {
		return ErrConflict
	}

	return conflict(g.db.WithContext(ctx).Create(u).Error)
}

func (g *Gorm) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

func (g *Gorm) GetUserByAddress(ctx context.Context, address string) (*model.User, error) {
	var u model.User
	if err := g.db.WithContext(ctx).Where("address = ?", address).First(&u).Error; err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

func (g *Gorm) UpdateUser(ctx context.Context, u *model.User) error {
	r := g.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"address":       u.Address,
			"phone":         u.Phone,
			"verified":      u.Verified,
			"last_login_at": u.LastLoginAt,
		})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g *Gorm) CreatePasscode(ctx context.Context, p *model.OneTimePasscode) error {
	p.ID = newID(p.ID)
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *Gorm) FindActivePasscode(ctx context.Context, address, code string, now time.Time) (*model.OneTimePasscode, error) {
	var p model.OneTimePasscode

	err := g.db.WithContext(ctx).
		Where("address = ? AND code = ? AND used = ? AND expires_at > ?", address, code, false, now).
		Order("created_at desc").
		First(&p).
		Error
	if err != nil {
		return nil, notFound(err)
	}

	return &p, nil
}

func (g *Gorm) MarkPasscodeUsed(ctx context.Context, id string, at time.Time) error {
	r := g.db.WithContext(ctx).
		Model(&model.OneTimePasscode{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]any{
			"used":    true,
			"used_at": at,
		})
	if r.Error != nil {
		return r.Error
	}

	// Someone else consumed it between the lookup and now
	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g *Gorm) CreateSession(ctx context.Context, s *model.Session) error {
	s.ID = newID(s.ID)
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *Gorm) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, notFound(err)
	}

	return &s, nil
}

func (g *Gorm) DeleteSession(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error
}

func (g *Gorm) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := tx.Where("expires_at < ?", now).Delete(&model.OneTimePasscode{})
		if r.Error != nil {
			return r.Error
		}
		n += r.RowsAffected

		r = tx.Where("expires_at < ?", now).Delete(&model.Session{})
		if r.Error != nil {
			return r.Error
		}
		n += r.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (g *Gorm) GetPlayer(ctx context.Context, userID string, game model.GameID, playerID string) (*model.Player, error) {
	var p model.Player

	err := g.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ? AND player_id = ?", userID, game, playerID).
		First(&p).
		Error
	if err != nil {
		return nil, notFound(err)
	}

	return &p, nil
}

func (g *Gorm) SavePlayerBundle(ctx context.Context, p *model.Player, s *model.GameStats, matches []model.Match) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(model.Player{}).
			Where("user_id = ? AND game_id = ? AND player_id = ?", p.UserID, p.GameID, p.PlayerID).
			Count(&n).
			Error
		if err != nil {
			return err
		}

		if n > 0 {
			return ErrConflict
		}

		p.ID = newID(p.ID)
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		if s != nil {
			s.ID = newID(s.ID)
			s.PlayerID = &p.ID
			if err := tx.Create(s).Error; err != nil {
				return err
			}
		}

		if len(matches) == 0 {
			return nil
		}

		for i := range matches {
			matches[i].ID = newID(matches[i].ID)
			matches[i].PlayerID = &p.ID
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&matches).Error
	})

	return conflict(err)
}

func (g *Gorm) UpdatePlayer(ctx context.Context, p *model.Player) error {
	r := g.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", p.ID).Updates(map[string]any{
		"username":     p.Username,
		"region":       p.Region,
		"level":        p.Level,
		"rank":         p.Rank,
		"profile_data": p.ProfileData,
		"last_updated": p.LastUpdated,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g *Gorm) GetGameStats(ctx context.Context, playerID string) (*model.GameStats, error) {
	var s model.GameStats
	if err := g.db.WithContext(ctx).Where("player_id = ?", playerID).First(&s).Error; err != nil {
		return nil, notFound(err)
	}

	return &s, nil
}

func (g *Gorm) UpdateGameStats(ctx context.Context, s *model.GameStats) error {
	r := g.db.WithContext(ctx).Model(&model.GameStats{}).Where("id = ?", s.ID).Updates(map[string]any{
		"win_rate":       s.WinRate,
		"average_kda":    s.AverageKDA,
		"total_playtime": s.TotalPlaytime,
		"current_lp":     s.CurrentLP,
		"stats_data":     s.StatsData,
		"updated_at":     s.UpdatedAt,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g *Gorm) ListMatches(ctx context.Context, playerID string) ([]model.Match, error) {
	matches := []model.Match{}

	err := g.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("played_at desc").
		Find(&matches).
		Error
	if err != nil {
		return nil, err
	}

	return matches, nil
}
