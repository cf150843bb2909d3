package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Catalog: CatalogConfig{DatabasePath: "/var/lib/chapterforge/catalog.db"},
		Generate: GenerateConfig{
			GapSeconds:     10,
			MaxParallelism: 2,
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_InvalidEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "testing"
	assert.Error(t, cfg.Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyCatalogPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.DatabasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_NegativeGapSeconds(t *testing.T) {
	cfg := validConfig()
	cfg.Generate.GapSeconds = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_ZeroParallelism(t *testing.T) {
	cfg := validConfig()
	cfg.Generate.MaxParallelism = 0
	assert.Error(t, cfg.Validate())
}

func TestSynthesisConfig(t *testing.T) {
	gen := GenerateConfig{
		GapSeconds:    3,
		IntroLabel:    "Opening",
		PrologueLabel: "Prologue",
		MainLabel:     "Main",
		EpilogueLabel: "Epilogue",
	}

	sc := gen.SynthesisConfig()

	assert.Equal(t, int64(30_000_000), sc.MaxGapTicks)
	assert.Equal(t, "Opening", sc.IntroLabel)
	assert.Equal(t, "Epilogue", sc.EpilogueLabel)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("CF_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "CF_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "CF_TEST_KEY", "default"))
	// Default when nothing set.
	assert.Equal(t, "default", getConfigValue("", "CF_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("true", "CF_UNSET", false))
	assert.True(t, getBoolConfigValue("1", "CF_UNSET", false))
	assert.True(t, getBoolConfigValue("YES", "CF_UNSET", false))
	assert.False(t, getBoolConfigValue("no", "CF_UNSET", true))
	assert.True(t, getBoolConfigValue("", "CF_UNSET", true))
}

func TestGetIntConfigValue(t *testing.T) {
	assert.Equal(t, 4, getIntConfigValue("4", "CF_UNSET", 2))
	assert.Equal(t, 2, getIntConfigValue("", "CF_UNSET", 2))
	assert.Equal(t, 2, getIntConfigValue("not-a-number", "CF_UNSET", 2))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nCF_ENVFILE_KEY=hello\nCF_ENVFILE_QUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o644))

	t.Setenv("CF_ENVFILE_KEY", "")
	os.Unsetenv("CF_ENVFILE_KEY")
	t.Setenv("CF_ENVFILE_QUOTED", "")
	os.Unsetenv("CF_ENVFILE_QUOTED")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("CF_ENVFILE_KEY"))
	assert.Equal(t, "world", os.Getenv("CF_ENVFILE_QUOTED"))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/already/abs", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/abs", got)
}
