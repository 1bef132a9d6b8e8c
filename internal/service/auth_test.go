package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamedash/api/internal/model"
	"gamedash/api/internal/storage"

	"github.com/jonboulle/clockwork"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentCode struct {
	address string
	code    string
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentCode
}

func (c *captureSender) SendPasscode(_ context.Context, address, code string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, sentCode{address: address, code: code})
	return nil
}

func (c *captureSender) last() sentCode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sent[len(c.sent)-1]
}

func newAuth(t *testing.T) (*AuthService, *captureSender, *clockwork.FakeClock, storage.Store) {
	t.Helper()

	store := storage.NewMemory()
	sender := &captureSender{}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	return NewAuthService(store, sender, clock), sender, clock, store
}

func TestRequestAndVerifyCode(t *testing.T) {
	auth, sender, _, _ := newAuth(t)
	ctx := context.Background()

	p, err := auth.RequestCode(ctx, "User@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", p.Address)
	assert.Len(t, p.Code, 6)
	assert.Equal(t, sentCode{address: "user@example.com", code: p.Code}, sender.last())

	login, err := auth.VerifyCode(ctx, "user@example.com", p.Code)
	require.NoError(t, err)
	assert.True(t, login.IsNewUser)
	assert.True(t, login.User.Verified)
	assert.Equal(t, login.User.ID, login.Session.UserID)
	assert.Equal(t, DefaultSessionTTL, login.Session.ExpiresAt.Sub(login.Session.CreatedAt))

	_, err = auth.VerifyCode(ctx, "user@example.com", p.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)

	// Second sign in reuses the account
	p, err = auth.RequestCode(ctx, "user@example.com")
	require.NoError(t, err)

	again, err := auth.VerifyCode(ctx, "user@example.com", p.Code)
	require.NoError(t, err)
	assert.False(t, again.IsNewUser)
	assert.Equal(t, login.User.ID, again.User.ID)
	assert.NotEqual(t, login.Session.ID, again.Session.ID)
}

func TestVerifyCodeRejections(t *testing.T) {
	auth, _, clock, _ := newAuth(t)
	ctx := context.Background()

	p, err := auth.RequestCode(ctx, "user@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if p.Code == wrong {
		wrong = "111111"
	}

	_, err = auth.VerifyCode(ctx, "user@example.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = auth.VerifyCode(ctx, "other@example.com", p.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = auth.VerifyCode(ctx, "", p.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)

	clock.Advance(DefaultPasscodeTTL)

	_, err = auth.VerifyCode(ctx, "user@example.com", p.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyCodeProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50

	properties := gopter.NewProperties(params)

	properties.Property("a code verifies exactly once within its window", prop.ForAll(
		func(local string, wait int) bool {
			auth, _, clock, _ := newAuth(t)
			ctx := context.Background()
			address := local + "@example.com"

			p, err := auth.RequestCode(ctx, address)
			if err != nil {
				return false
			}

			clock.Advance(time.Duration(wait) * time.Second)

			if _, err := auth.VerifyCode(ctx, address, p.Code); err != nil {
				return false
			}

			_, err = auth.VerifyCode(ctx, address, p.Code)
			return err == ErrInvalidCode
		},
		gen.Identifier(),
		gen.IntRange(0, int(DefaultPasscodeTTL/time.Second)-1),
	))

	properties.Property("a code never verifies after expiry", prop.ForAll(
		func(local string, late int) bool {
			auth, _, clock, _ := newAuth(t)
			ctx := context.Background()
			address := local + "@example.com"

			p, err := auth.RequestCode(ctx, address)
			if err != nil {
				return false
			}

			clock.Advance(DefaultPasscodeTTL + time.Duration(late)*time.Second)

			_, err = auth.VerifyCode(ctx, address, p.Code)
			return err == ErrInvalidCode
		},
		gen.Identifier(),
		gen.IntRange(0, 86400),
	))

	properties.TestingRun(t)
}

func TestResolveSession(t *testing.T) {
	auth, _, clock, store := newAuth(t)
	ctx := context.Background()

	p, err := auth.RequestCode(ctx, "user@example.com")
	require.NoError(t, err)

	login, err := auth.VerifyCode(ctx, "user@example.com", p.Code)
	require.NoError(t, err)

	user, err := auth.ResolveSession(ctx, login.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, user.ID)

	_, err = auth.ResolveSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	clock.Advance(DefaultSessionTTL)

	_, err = auth.ResolveSession(ctx, login.Session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.GetSession(ctx, login.Session.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogout(t *testing.T) {
	auth, _, _, _ := newAuth(t)
	ctx := context.Background()

	p, err := auth.RequestCode(ctx, "+1 555 010 9999")
	require.NoError(t, err)
	assert.Equal(t, "+15550109999", p.Address)

	login, err := auth.VerifyCode(ctx, "+15550109999", p.Code)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, login.Session.ID))

	_, err = auth.ResolveSession(ctx, login.Session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompleteRegistration(t *testing.T) {
	auth, _, _, store := newAuth(t)
	ctx := context.Background()

	u := &model.User{ID: "abc", Address: "user@example.com", Verified: true}
	require.NoError(t, store.CreateUser(ctx, u))

	got, err := auth.CompleteRegistration(ctx, "abc", nil)
	require.NoError(t, err)
	assert.Nil(t, got.Phone)

	phone := "+44 20 7946 0958"
	got, err = auth.CompleteRegistration(ctx, "abc", &phone)
	require.NoError(t, err)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+442079460958", *got.Phone)

	bad := "call me"
	_, err = auth.CompleteRegistration(ctx, "abc", &bad)
	assert.Error(t, err)
}

func TestPurge(t *testing.T) {
	auth, _, clock, _ := newAuth(t)
	ctx := context.Background()

	p, err := auth.RequestCode(ctx, "user@example.com")
	require.NoError(t, err)

	_, err = auth.VerifyCode(ctx, "user@example.com", p.Code)
	require.NoError(t, err)

	n, err := auth.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(DefaultSessionTTL + time.Minute)

	n, err = auth.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
