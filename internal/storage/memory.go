package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"gamedash/api/internal/model"

	"github.com/google/uuid"
)

// Memory keeps every entity in maps keyed by ID. Reads are linear scans,
// which is fine for a single process with a small data set. Nothing survives
// a restart
type Memory struct {
	mu        sync.RWMutex
	users     map[string]model.User
	passcodes map[string]model.OneTimePasscode
	sessions  map[string]model.Session
	players   map[string]model.Player
	stats     map[string]model.GameStats
	matches   map[string]model.Match
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]model.User),
		passcodes: make(map[string]model.OneTimePasscode),
		sessions:  make(map[string]model.Session),
		players:   make(map[string]model.Player),
		stats:     make(map[string]model.GameStats),
		matches:   make(map[string]model.Match),
	}
}

func newID(id string) string {
	if id != "" {
		return id
	}

	return uuid.NewString()
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = newID(u.ID)
	if _, ok := m.users[u.ID]; ok {
		return ErrConflict
	}

	for _, existing := range m.users {
		if existing.Address == u.Address {
			return ErrConflict
		}
	}

	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (m *Memory) GetUserByAddress(_ context.Context, address string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Address == address {
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}

	m.users[u.ID] = *u
	return nil
}

func (m *Memory) CreatePasscode(_ context.Context, p *model.OneTimePasscode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = newID(p.ID)
	m.passcodes[p.ID] = *p
	return nil
}

func (m *Memory) FindActivePasscode(_ context.Context, address, code string, now time.Time) (*model.OneTimePasscode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *model.OneTimePasscode
	for _, p := range m.passcodes {
		if p.Address != address || p.Code != code || p.Used || !now.Before(p.ExpiresAt) {
			continue
		}

		if found == nil || p.CreatedAt.After(found.CreatedAt) {
			found = &p
		}
	}

	if found == nil {
		return nil, ErrNotFound
	}

	return found, nil
}

func (m *Memory) MarkPasscodeUsed(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.passcodes[id]
	if !ok || p.Used {
		return ErrNotFound
	}

	p.Used = true
	p.UsedAt = &at
	m.passcodes[id] = p
	return nil
}

func (m *Memory) CreateSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = newID(s.ID)
	if _, ok := m.sessions[s.ID]; ok {
		return ErrConflict
	}

	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &s, nil
}

func (m *Memory) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *Memory) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, p := range m.passcodes {
		if p.ExpiresAt.Before(now) {
			delete(m.passcodes, id)
			n++
		}
	}

	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			n++
		}
	}

	return n, nil
}

func (m *Memory) GetPlayer(_ context.Context, userID string, game model.GameID, playerID string) (*model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.players {
		if p.UserID == userID && p.GameID == game && p.PlayerID == playerID {
			return &p, nil
		}
	}

	return nil, ErrNotFound
}

func (m *Memory) SavePlayerBundle(_ context.Context, p *model.Player, s *model.GameStats, matches []model.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.players {
		if existing.UserID == p.UserID && existing.GameID == p.GameID && existing.PlayerID == p.PlayerID {
			return ErrConflict
		}
	}

	p.ID = newID(p.ID)
	m.players[p.ID] = *p
	owner := p.ID

	if s != nil {
		s.ID = newID(s.ID)
		s.PlayerID = &owner
		m.stats[s.ID] = *s
	}

	seen := make(map[string]bool, len(matches))
	for i := range matches {
		if seen[matches[i].MatchID] {
			continue
		}
		seen[matches[i].MatchID] = true

		matches[i].ID = newID(matches[i].ID)
		matches[i].PlayerID = &owner
		m.matches[matches[i].ID] = matches[i]
	}

	return nil
}

func (m *Memory) UpdatePlayer(_ context.Context, p *model.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.players[p.ID]; !ok {
		return ErrNotFound
	}

	m.players[p.ID] = *p
	return nil
}

func (m *Memory) GetGameStats(_ context.Context, playerID string) (*model.GameStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stats {
		if s.PlayerID != nil && *s.PlayerID == playerID {
			return &s, nil
		}
	}

	return nil, ErrNotFound
}

func (m *Memory) UpdateGameStats(_ context.Context, s *model.GameStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stats[s.ID]; !ok {
		return ErrNotFound
	}

	m.stats[s.ID] = *s
	return nil
}

func (m *Memory) ListMatches(_ context.Context, playerID string) ([]model.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Match{}
	for _, match := range m.matches {
		if match.PlayerID != nil && *match.PlayerID == playerID {
			out = append(out, match)
		}
	}

	slices.SortFunc(out, func(a, b model.Match) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})

	return out, nil
}
