package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092 , ,b:9092"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("MART_TEST_STR", "value")
	t.Setenv("MART_TEST_INT", "42")
	t.Setenv("MART_TEST_BAD_INT", "forty")
	t.Setenv("MART_TEST_DUR", "1500ms")

	assert.Equal(t, "value", EnvDefault("MART_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("MART_TEST_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("MART_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("MART_TEST_BAD_INT", 1))
	assert.Equal(t, 1500*time.Millisecond, EnvDurationDefault("MART_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("MART_TEST_MISSING", time.Second))
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MART_DOTENV_A=from_file\nMART_DOTENV_B=from_file\n"), 0o600))

	t.Setenv("MART_DOTENV_A", "from_env")
	os.Unsetenv("MART_DOTENV_B")
	t.Cleanup(func() { os.Unsetenv("MART_DOTENV_B") })

	LoadDotEnv(path)

	assert.Equal(t, "from_env", os.Getenv("MART_DOTENV_A"))
	assert.Equal(t, "from_file", os.Getenv("MART_DOTENV_B"))
}

func TestLoadDotEnv_MissingFileIsNotFatal(t *testing.T) {
	LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"))
}
