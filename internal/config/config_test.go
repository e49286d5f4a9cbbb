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
		Data:   DataConfig{BasePath: "/tmp/paginoid"},
	}
	assert.NoError(t, valid.Validate())

	bad := *valid
	bad.App.Environment = "testing"
	assert.Error(t, bad.Validate())

	bad = *valid
	bad.Logger.Level = "verbose"
	assert.Error(t, bad.Validate())

	bad = *valid
	bad.Data.BasePath = ""
	assert.Error(t, bad.Validate())
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("PAGINOID_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "PAGINOID_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "PAGINOID_TEST_KEY", "default"))
	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "PAGINOID_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("PAGINOID_TEST_BOOL", "yes")
	assert.True(t, getBoolConfigValue("", "PAGINOID_TEST_BOOL", false))

	t.Setenv("PAGINOID_TEST_BOOL", "no")
	assert.False(t, getBoolConfigValue("", "PAGINOID_TEST_BOOL", true))

	assert.True(t, getBoolConfigValue("", "PAGINOID_TEST_BOOL_MISSING", true))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"*"}, splitOrigins(" , "))
}

func TestParseTimeout(t *testing.T) {
	d, err := parseTimeout("", "PAGINOID_TEST_TIMEOUT_MISSING", "15s")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	t.Setenv("PAGINOID_TEST_TIMEOUT", "not-a-duration")
	_, err = parseTimeout("", "PAGINOID_TEST_TIMEOUT", "15s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nPAGINOID_ENVFILE_KEY=hello\nQUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("PAGINOID_ENVFILE_KEY", "") // ensure cleanup
	os.Unsetenv("PAGINOID_ENVFILE_KEY")
	os.Unsetenv("QUOTED")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("PAGINOID_ENVFILE_KEY"))
	assert.Equal(t, "world", os.Getenv("QUOTED"))

	assert.Error(t, loadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestExpandPath(t *testing.T) {
	p, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", p)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	p, err = expandPath("~/paginoid", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "paginoid"), p)
}
