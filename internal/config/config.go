// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Tavily TavilyConfig `yaml:"tavily" mapstructure:"tavily"`
	Jina   JinaConfig   `yaml:"jina" mapstructure:"jina"`
	Mail   MailConfig   `yaml:"mail" mapstructure:"mail"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// EngineConfig configures the contact-resolution engine.
type EngineConfig struct {
	MaxQueries       int      `yaml:"max_queries" mapstructure:"max_queries"`
	Tiers            []string `yaml:"tiers" mapstructure:"tiers"`
	GoalFields       []string `yaml:"goal_fields" mapstructure:"goal_fields"`
	Concurrency      int      `yaml:"concurrency" mapstructure:"concurrency"`
	PerSourceTimeout int      `yaml:"per_source_timeout_secs" mapstructure:"per_source_timeout_secs"`
}

// TierOrder returns the configured tier order as typed tiers.
func (e EngineConfig) TierOrder() []model.SourceTier {
	out := make([]model.SourceTier, 0, len(e.Tiers))
	for _, t := range e.Tiers {
		out = append(out, model.SourceTier(t))
	}
	return out
}

// Goal returns the configured goal fields as typed field kinds.
func (e EngineConfig) Goal() []model.FieldKind {
	out := make([]model.FieldKind, 0, len(e.GoalFields))
	for _, f := range e.GoalFields {
		out = append(out, model.FieldKind(f))
	}
	return out
}

// Timeout returns the per-source timeout as a duration.
func (e EngineConfig) Timeout() time.Duration {
	return time.Duration(e.PerSourceTimeout) * time.Second
}

// TavilyConfig holds Tavily search API settings.
type TavilyConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// MailConfig holds SMTP outreach settings.
type MailConfig struct {
	Host            string `yaml:"host" mapstructure:"host"`
	Port            int    `yaml:"port" mapstructure:"port"`
	Sender          string `yaml:"sender" mapstructure:"sender"`
	Password        string `yaml:"password" mapstructure:"password"`
	SubjectTemplate string `yaml:"subject_template" mapstructure:"subject_template"`
	BodyTemplate    string `yaml:"body_template" mapstructure:"body_template"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// StoreConfig configures run-history persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the status API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("engine.max_queries", 100)
	v.SetDefault("engine.tiers", tierStrings(model.DefaultTierOrder()))
	v.SetDefault("engine.goal_fields", []string{string(model.FieldEmail), string(model.FieldPhone)})
	v.SetDefault("engine.concurrency", 3)
	v.SetDefault("engine.per_source_timeout_secs", 15)
	v.SetDefault("tavily.key", "")
	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.rate_per_sec", 5)
	v.SetDefault("jina.key", "")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 465)
	// Empty defaults so AutomaticEnv sees these keys; without them the
	// env-only secrets never reach Unmarshal.
	v.SetDefault("mail.sender", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.subject_template", "")
	v.SetDefault("mail.body_template", "")
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("store.path", "outreach.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the engine configuration. Malformed configuration is
// the only run-level fatal condition; it fails before any target is
// processed.
func (c *Config) Validate() error {
	if c.Engine.MaxQueries <= 0 {
		return eris.Errorf("config: engine.max_queries must be > 0, got %d", c.Engine.MaxQueries)
	}
	if len(c.Engine.Tiers) == 0 {
		return eris.New("config: engine.tiers must not be empty")
	}
	if len(c.Engine.GoalFields) == 0 {
		return eris.New("config: engine.goal_fields must not be empty")
	}
	for _, f := range c.Engine.GoalFields {
		if f != string(model.FieldEmail) && f != string(model.FieldPhone) {
			return eris.Errorf("config: unknown goal field %q (want email or phone)", f)
		}
	}
	if c.Engine.PerSourceTimeout <= 0 {
		return eris.Errorf("config: engine.per_source_timeout_secs must be > 0, got %d", c.Engine.PerSourceTimeout)
	}
	return nil
}

func tierStrings(tiers []model.SourceTier) []string {
	out := make([]string, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, string(t))
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
