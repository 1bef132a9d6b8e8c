package security

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasscodeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passcodes are 6 digit numbers in range", prop.ForAll(
		func(_ int) bool {
			code, err := NewPasscode()
			if err != nil || len(code) != 6 {
				return false
			}

			n, err := strconv.Atoi(code)
			return err == nil && n >= 100000 && n <= 999999
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

const secret = "0123456789abcdef0123456789abcdef"

func TestSessionSigner(t *testing.T) {
	_, err := NewSessionSigner("short")
	assert.Error(t, err)

	s, err := NewSessionSigner(secret)
	require.NoError(t, err)

	sid, err := NewSessionID()
	require.NoError(t, err)
	assert.Len(t, sid, 32)

	token, err := s.Sign(sid)
	require.NoError(t, err)

	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sid, got)

	other, err := NewSessionSigner(strings.Repeat("x", 32))
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
