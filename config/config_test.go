// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, defaultsUsed, err := Load(filepath.Join(t.TempDir(), "missing.toml"), true)
	require.NoError(t, err)
	require.True(t, defaultsUsed)

	require.Equal(t, 4, cfg.Moderation.KickThreshold)
	require.Equal(t, 8, cfg.Moderation.BanThreshold)
	require.Equal(t, 10*time.Second, cfg.Moderation.WarnTTL)
	require.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	require.True(t, cfg.Audit.Enabled)
}

func TestLoad_MissingFileWithoutDefaults(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[moderation]
kick_threshold = 3
ban_threshold = 6
warn_ttl = "5s"

[[moderation.terms]]
guild = "g1"
term = "spam"
level = 2

[audit]
enabled = false

[metrics]
addr = ":9102"
`)

	cfg, defaultsUsed, err := Load(path, false)
	require.NoError(t, err)
	require.False(t, defaultsUsed)

	require.Equal(t, DebugLevel, cfg.Log.Level)
	require.Equal(t, 3, cfg.Moderation.KickThreshold)
	require.Equal(t, 6, cfg.Moderation.BanThreshold)
	require.Equal(t, 5*time.Second, cfg.Moderation.WarnTTL)
	require.False(t, cfg.Audit.Enabled)
	require.Equal(t, ":9102", cfg.Metrics.Addr)

	require.Len(t, cfg.Moderation.Terms, 1)
	require.Equal(t, "g1", cfg.Moderation.Terms[0].Guild)
	require.Equal(t, 2, cfg.Moderation.Terms[0].Level)
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{
			name: "ban threshold not above kick threshold",
			text: "[moderation]\nkick_threshold = 4\nban_threshold = 4\n",
		},
		{
			name: "kick threshold too low",
			text: "[moderation]\nkick_threshold = 1\nban_threshold = 8\n",
		},
		{
			name: "preloaded term without guild",
			text: "[[moderation.terms]]\nterm = \"spam\"\nlevel = 2\n",
		},
		{
			name: "preloaded term with bad level",
			text: "[[moderation.terms]]\nguild = \"g1\"\nterm = \"spam\"\nlevel = 9\n",
		},
		{
			name: "blank preloaded term",
			text: "[[moderation.terms]]\nguild = \"g1\"\nterm = \"  \"\nlevel = 1\n",
		},
		{
			name: "audit enabled without path",
			text: "[audit]\nenabled = true\npath = \"\"\n",
		},
		{
			name: "invalid log level",
			text: "[log]\nlevel = \"verbose\"\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tc.text), false)
			require.Error(t, err)
		})
	}
}

func TestLogLevel_ToSlogLevel(t *testing.T) {
	require.Equal(t, "debug", DebugLevel.String())
	require.Equal(t, int(DebugLevel.ToSlogLevel()), -4)
	require.Equal(t, int(InfoLevel.ToSlogLevel()), 0)
	require.Equal(t, int(WarnLevel.ToSlogLevel()), 4)
	require.Equal(t, int(ErrorLevel.ToSlogLevel()), 8)
}
