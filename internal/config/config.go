package config

import (
	"errors"
	"io/fs"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset" mapstructure:"dataset"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Assessment AssessmentConfig `yaml:"assessment" mapstructure:"assessment"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
}

// DatasetConfig locates the role sheet.
type DatasetConfig struct {
	// Path is a local file or an http(s):// or ftp:// URL.
	Path        string `yaml:"path" mapstructure:"path"`
	Format      string `yaml:"format" mapstructure:"format"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	Table       string `yaml:"table" mapstructure:"table"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CatalogConfig selects where questions come from.
type CatalogConfig struct {
	Source string `yaml:"source" mapstructure:"source"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// NotionConfig holds Notion API credentials and database IDs.
type NotionConfig struct {
	Token      string  `yaml:"token" mapstructure:"token"`
	QuestionDB string  `yaml:"question_db" mapstructure:"question_db"`
	ResultDB   string  `yaml:"result_db" mapstructure:"result_db"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AssessmentConfig tunes scoring.
type AssessmentConfig struct {
	Scope          string `yaml:"scope" mapstructure:"scope"`
	ResultCount    int    `yaml:"result_count" mapstructure:"result_count"`
	StudentDefault bool   `yaml:"student_default" mapstructure:"student_default"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// StoreConfig configures the audit log backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FetchConfig configures remote dataset and catalog downloads.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Catalog sources.
const (
	CatalogBuiltin = "builtin"
	CatalogFile    = "file"
	CatalogNotion  = "notion"
)

var (
	datasetFormats = []string{"auto", "csv", "xlsx", "postgres"}
	catalogSources = []string{CatalogBuiltin, CatalogFile, CatalogNotion}
	scopes         = []string{"all", "active"}
	storeDrivers   = []string{"sqlite", "postgres", "none"}
	logFormats     = []string{"json", "console"}
)

// Load reads configuration from file and environment. A .env file in the
// working directory is loaded first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "roles.csv")
	v.SetDefault("dataset.format", "auto")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.table", "roles")
	v.SetDefault("dataset.database_url", "")
	v.SetDefault("catalog.source", CatalogBuiltin)
	v.SetDefault("catalog.path", "")
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.question_db", "")
	v.SetDefault("notion.result_db", "")
	v.SetDefault("notion.rate_limit", 3.0)
	v.SetDefault("assessment.scope", "all")
	v.SetDefault("assessment.result_count", 3)
	v.SetDefault("assessment.student_default", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "file::memory:?cache=shared")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("fetch.timeout_secs", 30)

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

// Modes passed to Validate.
const (
	ModeServe  = "serve"
	ModeAssess = "assess"
	ModeRoles  = "roles"
)

// Validate rejects unknown enum values and settings that cannot work
// together for the given command mode.
func (c *Config) Validate(mode string) error {
	switch mode {
	case ModeServe:
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return eris.Errorf("config: server.port must be > 0 and <= 65535, got %d", c.Server.Port)
		}
	case ModeAssess, ModeRoles:
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{"dataset.format", c.Dataset.Format, datasetFormats},
		{"catalog.source", c.Catalog.Source, catalogSources},
		{"assessment.scope", c.Assessment.Scope, scopes},
		{"store.driver", c.Store.Driver, storeDrivers},
		{"log.format", c.Log.Format, logFormats},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.allowed, strings.ToLower(chk.value)) {
			return eris.Errorf("config: %s %q is not one of %s", chk.key, chk.value, strings.Join(chk.allowed, ", "))
		}
	}

	if c.Assessment.ResultCount < 1 {
		return eris.Errorf("config: assessment.result_count must be positive, got %d", c.Assessment.ResultCount)
	}
	switch strings.ToLower(c.Catalog.Source) {
	case CatalogFile:
		if c.Catalog.Path == "" {
			return eris.New("config: catalog.path is required for a file catalog")
		}
	case CatalogNotion:
		if c.Notion.Token == "" || c.Notion.QuestionDB == "" {
			return eris.New("config: notion.token and notion.question_db are required for a notion catalog")
		}
	}
	if c.Notion.ResultDB != "" && c.Notion.Token == "" {
		return eris.New("config: notion.token is required to publish results")
	}
	if strings.EqualFold(c.Dataset.Format, "postgres") && c.Dataset.DatabaseURL == "" {
		return eris.New("config: dataset.database_url is required for a postgres dataset")
	}
	if strings.EqualFold(c.Store.Driver, "postgres") && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required for the postgres store")
	}
	return nil
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
