package validators

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  error
	}{
		{"User@Example.com", "user@example.com", nil},
		{"  user@example.com ", "user@example.com", nil},
		{"+1 (555) 010-9999", "+15550109999", nil},
		{"", "", ErrAddressEmpty},
		{"not-an-email@", "", ErrAddressInvalid},
		{"Bob <bob@example.com>", "", ErrAddressInvalid},
		{"12", "", ErrAddressInvalid},
	}

	for _, c := range cases {
		got, err := NormalizeAddress(c.in)
		if c.err != nil {
			assert.ErrorIs(t, err, c.err, c.in)
			continue
		}

		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got)
	}
}

func TestNormalizePhone(t *testing.T) {
	p, err := NormalizePhone("+44 20 7946 0958")
	require.NoError(t, err)
	assert.Equal(t, "+442079460958", p)

	_, err = NormalizePhone("call me")
	assert.ErrorIs(t, err, ErrPhoneInvalid)
}

type request struct {
	Address string `json:"address" binding:"required,address"`
	Phone   string `json:"phone" binding:"omitempty,phone"`
	Game    string `json:"game" binding:"required,game"`
	Code    string `json:"code" binding:"omitempty,len=6,numeric"`
}

func TestFieldErrors(t *testing.T) {
	require.NoError(t, RegisterBindings())
	// Registering twice is a no-op
	require.NoError(t, RegisterBindings())

	err := binding.Validator.ValidateStruct(&request{Address: "nope", Phone: "x", Game: "fortnite", Code: "12"})
	require.Error(t, err)

	fields := map[string]string{}
	for _, fe := range FieldErrors(err) {
		fields[fe.Field] = fe.Message
	}

	assert.Equal(t, ErrAddressInvalid.Error(), fields["address"])
	assert.Equal(t, ErrPhoneInvalid.Error(), fields["phone"])
	assert.Equal(t, "unsupported game", fields["game"])
	assert.Equal(t, "must be exactly 6 characters long", fields["code"])

	assert.NoError(t, binding.Validator.ValidateStruct(&request{Address: "a@b.co", Game: "lol", Code: "123456"}))
	assert.Nil(t, FieldErrors(assert.AnError))
}
