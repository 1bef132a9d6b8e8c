package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	v.Reset()
	t.Chdir(t.TempDir())

	require.NoError(t, load(nil))

	assert.Equal(t, 8080, v.GetInt("host.port"))
	assert.Equal(t, "memory", v.GetString("storage.type"))
	assert.Equal(t, 15*time.Second, v.GetDuration("upstream.timeout"))
	assert.Equal(t, 10*time.Minute, v.GetDuration("auth.passcode_ttl"))
	assert.Len(t, v.GetString("security.session_secret"), 64)
}

func TestLoadFileFlagsAndEnv(t *testing.T) {
	v.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")

	path := writeConfig(t, `
[storage]
type = "sqlite"
dsn = "test.db"

[auth]
echo_otp = true
`)

	require.NoError(t, load([]string{"--config", path, "--port", "9000"}))

	assert.Equal(t, 9000, v.GetInt("host.port"))
	assert.Equal(t, "sqlite", v.GetString("storage.type"))
	assert.True(t, v.GetBool("auth.echo_otp"))
	assert.Equal(t, "RGAPI-test", v.GetString("riot.api_key"))
	assert.Equal(t, 3*time.Second, v.GetDuration("upstream.timeout"))
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"storage":   "[storage]\ntype = \"mongo\"\n",
		"secret":    "[security]\nsession_secret = \"short\"\n",
		"echo":      "[app]\nenv = \"production\"\n[auth]\necho_otp = true\n",
		"turnstile": "[turnstile]\nenabled = true\n",
		"archive":   "[archive]\nenabled = true\n",
		"cache":     "[cache]\ntype = \"memcached\"\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			v.Reset()
			t.Chdir(t.TempDir())

			assert.Error(t, load([]string{"--config", writeConfig(t, body)}))
		})
	}
}
