package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Engine.MaxQueries)
	assert.Equal(t, []string{"official_website", "linkedin", "facebook", "twitter", "instagram"}, cfg.Engine.Tiers)
	assert.Equal(t, []string{"email", "phone"}, cfg.Engine.GoalFields)
	assert.Equal(t, 3, cfg.Engine.Concurrency)
	assert.Equal(t, 15, cfg.Engine.PerSourceTimeout)
	assert.Equal(t, "https://api.tavily.com", cfg.Tavily.BaseURL)
	assert.InDelta(t, 5, cfg.Tavily.RatePerSec, 0.001)
	assert.Equal(t, "https://r.jina.ai", cfg.Jina.BaseURL)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, "outreach.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
engine:
  max_queries: 40
  tiers: [official_website, linkedin]
  goal_fields: [email]
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Engine.MaxQueries)
	assert.Equal(t, []string{"official_website", "linkedin"}, cfg.Engine.Tiers)
	assert.Equal(t, []string{"email"}, cfg.Engine.GoalFields)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 3, cfg.Engine.Concurrency)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
engine:
  max_queries: 40
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("OUTREACH_ENGINE_MAX_QUERIES", "200")
	t.Setenv("OUTREACH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, 200, cfg.Engine.MaxQueries)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("OUTREACH_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadEnvSecrets(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	// Keys whose default is the empty string must still be reachable
	// from the environment; secrets are only ever passed this way.
	t.Setenv("OUTREACH_TAVILY_KEY", "tvly-secret")
	t.Setenv("OUTREACH_JINA_KEY", "jina-secret")
	t.Setenv("OUTREACH_MAIL_SENDER", "bot@example.com")
	t.Setenv("OUTREACH_MAIL_PASSWORD", "app-password")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tvly-secret", cfg.Tavily.Key)
	assert.Equal(t, "jina-secret", cfg.Jina.Key)
	assert.Equal(t, "bot@example.com", cfg.Mail.Sender)
	assert.Equal(t, "app-password", cfg.Mail.Password)
}

func validDefaults() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxQueries:       100,
			Tiers:            []string{"official_website", "linkedin"},
			GoalFields:       []string{"email", "phone"},
			Concurrency:      3,
			PerSourceTimeout: 15,
		},
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidateZeroMaxQueries(t *testing.T) {
	cfg := validDefaults()
	cfg.Engine.MaxQueries = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_queries must be > 0")
}

func TestValidateNegativeMaxQueries(t *testing.T) {
	cfg := validDefaults()
	cfg.Engine.MaxQueries = -5

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_queries must be > 0")
}

func TestValidateEmptyTiers(t *testing.T) {
	cfg := validDefaults()
	cfg.Engine.Tiers = nil

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tiers must not be empty")
}

func TestValidateEmptyGoalFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Engine.GoalFields = nil

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "goal_fields must not be empty")
}

func TestValidateUnknownGoalField(t *testing.T) {
	cfg := validDefaults()
	cfg.Engine.GoalFields = []string{"email", "fax"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `unknown goal field "fax"`)
}

func TestValidateZeroTimeout(t *testing.T) {
	cfg := validDefaults()
	cfg.Engine.PerSourceTimeout = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "per_source_timeout_secs must be > 0")
}

func TestEngineAccessors(t *testing.T) {
	e := EngineConfig{
		Tiers:            []string{"official_website", "linkedin"},
		GoalFields:       []string{"email"},
		PerSourceTimeout: 20,
	}

	assert.Equal(t, []model.SourceTier{model.TierOfficialWebsite, model.TierLinkedIn}, e.TierOrder())
	assert.Equal(t, []model.FieldKind{model.FieldEmail}, e.Goal())
	assert.Equal(t, 20*time.Second, e.Timeout())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
