package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/data"},
		AI:     AIConfig{EmbedDim: 1536},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty environment", func(c *Config) { c.App.Environment = "" }},
		{"bogus environment", func(c *Config) { c.App.Environment = "qa" }},
		{"bogus log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"zero embed dim", func(c *Config) { c.AI.EmbedDim = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("UMLF_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "UMLF_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "UMLF_TEST_KEY", "default"))
	// Default when nothing set.
	assert.Equal(t, "default", getConfigValue("", "UMLF_TEST_UNSET", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("UMLF_TEST_INT", "42")
	assert.Equal(t, 42, getIntConfigValue("", "UMLF_TEST_INT", 7))

	t.Setenv("UMLF_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getIntConfigValue("", "UMLF_TEST_INT", 7))

	assert.Equal(t, 7, getIntConfigValue("", "UMLF_TEST_INT_UNSET", 7))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("", "UMLF_TEST_DUR_UNSET", "30s")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	t.Setenv("UMLF_TEST_DUR", "5m")
	d, err = parseDurationValue("", "UMLF_TEST_DUR", "30s")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	t.Setenv("UMLF_TEST_DUR", "soon")
	_, err = parseDurationValue("", "UMLF_TEST_DUR", "30s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nUMLF_FILE_KEY=file-value\nUMLF_QUOTED=\"quoted\"\n\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("UMLF_FILE_KEY", "")
	os.Unsetenv("UMLF_FILE_KEY")
	t.Cleanup(func() {
		os.Unsetenv("UMLF_FILE_KEY")
		os.Unsetenv("UMLF_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "file-value", os.Getenv("UMLF_FILE_KEY"))
	assert.Equal(t, "quoted", os.Getenv("UMLF_QUOTED"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/already/abs", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/abs", got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = expandPath("~/data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), got)
}
