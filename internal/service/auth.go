package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamedash/api/internal/model"
	"gamedash/api/internal/storage"
	"gamedash/api/pkg/metrics"
	"gamedash/api/pkg/security"
	"gamedash/api/pkg/validators"

	"github.com/jonboulle/clockwork"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	DefaultPasscodeTTL = 10 * time.Minute
	DefaultSessionTTL  = 7 * 24 * time.Hour
)

var (
	// ErrInvalidCode covers wrong, expired, used and never requested codes alike
	ErrInvalidCode     = errors.New("invalid or expired code")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// AuthService implements passcode sign in and session handling
type AuthService struct {
	store  storage.Store
	sender PasscodeSender
	clock  clockwork.Clock

	PasscodeTTL time.Duration
	SessionTTL  time.Duration
}

func NewAuthService(store storage.Store, sender PasscodeSender, clock clockwork.Clock) *AuthService {
	return &AuthService{
		store:       store,
		sender:      sender,
		clock:       clock,
		PasscodeTTL: DefaultPasscodeTTL,
		SessionTTL:  DefaultSessionTTL,
	}
}

// Login is the outcome of a successful passcode verification
type Login struct {
	User      *model.User
	Session   *model.Session
	IsNewUser bool
}

// RequestCode issues a new passcode for address and hands it to the sender.
// Earlier passcodes stay valid until they expire
func (s *AuthService) RequestCode(ctx context.Context, address string) (*model.OneTimePasscode, error) {
	address, err := validators.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	code, err := security.NewPasscode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate passcode, %w", err)
	}

	now := s.clock.Now().UTC()
	p := &model.OneTimePasscode{
		Address:   address,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.PasscodeTTL),
	}

	if err := s.store.CreatePasscode(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to store passcode, %w", err)
	}

	if err := s.sender.SendPasscode(ctx, address, code, p.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to deliver passcode, %w", err)
	}

	metrics.PasscodesIssuedTotal.Inc()
	return p, nil
}

func (s *AuthService) reject(address string, reason string) error {
	metrics.PasscodeRejectionsTotal.Inc()
	zap.L().Debug("Passcode rejected", zap.String("address", address), zap.String("reason", reason))
	return ErrInvalidCode
}

// VerifyCode consumes a passcode and signs the owner of address in, creating
// the user on first sign in
func (s *AuthService) VerifyCode(ctx context.Context, address, code string) (*Login, error) {
	address, err := validators.NormalizeAddress(address)
	if err != nil {
		return nil, s.reject(address, "bad address")
	}

	now := s.clock.Now().UTC()

	p, err := s.store.FindActivePasscode(ctx, address, code, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, s.reject(address, "no active passcode")
		}

		return nil, fmt.Errorf("failed to look up passcode, %w", err)
	}

	if err := s.store.MarkPasscodeUsed(ctx, p.ID, now); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, s.reject(address, "consumed concurrently")
		}

		return nil, fmt.Errorf("failed to consume passcode, %w", err)
	}

	user, isNew, err := s.upsertUser(ctx, address, now)
	if err != nil {
		return nil, err
	}

	sid, err := security.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID, %w", err)
	}

	session := &model.Session{
		ID:        sid,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.SessionTTL),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session, %w", err)
	}

	metrics.SessionsCreatedTotal.Inc()

	return &Login{
		User:      user,
		Session:   session,
		IsNewUser: isNew,
	}, nil
}

func (s *AuthService) upsertUser(ctx context.Context, address string, now time.Time) (*model.User, bool, error) {
	user, err := s.store.GetUserByAddress(ctx, address)
	if err == nil {
		user.Verified = true
		user.LastLoginAt = &now

		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to update user, %w", err)
		}

		return user, false, nil
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up user, %w", err)
	}

	userID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate user ID, %w", err)
	}

	user = &model.User{
		ID:          userID,
		Address:     address,
		Verified:    true,
		CreatedAt:   now,
		LastLoginAt: &now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// Two codes for the same address verified at once, the other one won
		if errors.Is(err, storage.ErrConflict) {
			return s.upsertUser(ctx, address, now)
		}

		return nil, false, fmt.Errorf("failed to create user, %w", err)
	}

	return user, true, nil
}

// ResolveSession returns the user owning a session. Expired sessions are
// deleted on the spot
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to look up session, %w", err)
	}

	if session.Expired(s.clock.Now()) {
		if err := s.store.DeleteSession(ctx, sessionID); err != nil {
			zap.L().Error("Failed to delete expired session", zap.String("sessionID", sessionID), zap.Error(err))
		}

		return nil, ErrSessionNotFound
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to look up session user, %w", err)
	}

	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// CompleteRegistration stores the optional profile fields asked for right
// after the first sign in
func (s *AuthService) CompleteRegistration(ctx context.Context, userID string, phone *string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if phone != nil && *phone != "" {
		p, err := validators.NormalizePhone(*phone)
		if err != nil {
			return nil, err
		}
		user.Phone = &p
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user, %w", err)
	}

	return user, nil
}

// Purge removes expired passcodes and sessions
func (s *AuthService) Purge(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.clock.Now().UTC())
	if err != nil {
		return 0, err
	}

	metrics.ExpiredRowsPurgedTotal.Add(float64(n))
	return n, nil
}
