package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Quality   QualityConfig   `yaml:"quality" mapstructure:"quality"`
	Remediate RemediateConfig `yaml:"remediate" mapstructure:"remediate"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// QualityConfig configures scoring behavior.
type QualityConfig struct {
	LowScoreThreshold float64 `yaml:"low_score_threshold" mapstructure:"low_score_threshold"`
}

// RemediateConfig configures the remediation loop.
type RemediateConfig struct {
	MaxEpochs            int      `yaml:"max_epochs" mapstructure:"max_epochs"`
	ImprovementThreshold float64  `yaml:"improvement_threshold" mapstructure:"improvement_threshold"`
	KnowledgeFile        string   `yaml:"knowledge_file" mapstructure:"knowledge_file"`
	HistoryFile          string   `yaml:"history_file" mapstructure:"history_file"`
	IncludeFields        []string `yaml:"include_fields" mapstructure:"include_fields"`
	ExcludeFields        []string `yaml:"exclude_fields" mapstructure:"exclude_fields"`
	Workers              int      `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("DATAQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "quality.db")
	v.SetDefault("quality.low_score_threshold", 90.0)
	v.SetDefault("remediate.max_epochs", 5)
	v.SetDefault("remediate.improvement_threshold", 0.5)
	v.SetDefault("remediate.knowledge_file", "remediation_knowledge.json")
	v.SetDefault("remediate.history_file", "iteration_history.json")
	v.SetDefault("remediate.workers", 4)
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
