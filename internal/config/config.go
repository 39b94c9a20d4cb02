// Package config loads the matcher's settings from config.yaml, .env and
// GNAF_ environment variables and builds the process logger.
package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/al-ius/aus-address-matcher/internal/dispatch"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/match"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFixture  = "fixture"
)

// EnvPrefix prefixes every environment override, e.g. GNAF_STORE_PATH.
const EnvPrefix = "GNAF"

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Match   MatchConfig   `yaml:"match" mapstructure:"match"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
}

// StoreConfig selects the gazetteer backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Fixture     string `yaml:"fixture" mapstructure:"fixture"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string   `yaml:"level" mapstructure:"level"`
	Format      string   `yaml:"format" mapstructure:"format"`
	OutputPaths []string `yaml:"output_paths" mapstructure:"output_paths"`
}

// BatchConfig sizes the worker pool.
type BatchConfig struct {
	MaxWorkers         int    `yaml:"max_workers" mapstructure:"max_workers"`
	AddressesPerWorker int    `yaml:"addresses_per_worker" mapstructure:"addresses_per_worker"`
	SampleFile         string `yaml:"sample_file" mapstructure:"sample_file"`
}

// MatchConfig tunes the street search.
type MatchConfig struct {
	StreetLimit  int     `yaml:"street_limit" mapstructure:"street_limit"`
	MaxEditRatio float64 `yaml:"max_edit_ratio" mapstructure:"max_edit_ratio"`
	Libpostal    bool    `yaml:"libpostal" mapstructure:"libpostal"`
}

// ScoringConfig holds the candidate scoring weights.
type ScoringConfig struct {
	SimilarityWeight  float64 `yaml:"similarity_weight" mapstructure:"similarity_weight"`
	StreetNameBonus   float64 `yaml:"street_name_bonus" mapstructure:"street_name_bonus"`
	PositionFactor    float64 `yaml:"position_factor" mapstructure:"position_factor"`
	NonMatchPenalty   float64 `yaml:"non_match_penalty" mapstructure:"non_match_penalty"`
	ContainmentWeight float64 `yaml:"containment_weight" mapstructure:"containment_weight"`
}

// ServerConfig configures the HTTP lookup API.
type ServerConfig struct {
	Host   string `yaml:"host" mapstructure:"host"`
	Port   int    `yaml:"port" mapstructure:"port"`
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	weights := match.DefaultWeights()

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "gnaf.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.fixture", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("batch.max_workers", dispatch.DefaultMaxWorkers)
	v.SetDefault("batch.addresses_per_worker", dispatch.DefaultAddressesPerWorker)
	v.SetDefault("batch.sample_file", "data/sample_addresses.txt")
	v.SetDefault("match.street_limit", gazetteer.DefaultStreetLimit)
	v.SetDefault("match.max_edit_ratio", gazetteer.DefaultMaxEditRatio)
	v.SetDefault("match.libpostal", false)
	v.SetDefault("scoring.similarity_weight", weights.SimilarityWeight)
	v.SetDefault("scoring.street_name_bonus", weights.StreetNameBonus)
	v.SetDefault("scoring.position_factor", weights.PositionFactor)
	v.SetDefault("scoring.non_match_penalty", weights.NonMatchPenalty)
	v.SetDefault("scoring.containment_weight", gazetteer.DefaultContainmentWeight)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.api_key", "")
}

// Load reads configuration from file and environment. An empty path looks
// for an optional config.yaml in the working directory; a named file must
// exist. The nearest .env is loaded first.
func Load(path string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate rejects settings the matcher cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return eris.New("config: store.path is required for the sqlite driver")
		}
	case DriverPostgres:
	case DriverFixture:
		if c.Store.Fixture == "" {
			return eris.New("config: store.fixture is required for the fixture driver")
		}
	default:
		return eris.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	if c.Batch.MaxWorkers <= 0 {
		return eris.Errorf("config: batch.max_workers must be positive, got %d", c.Batch.MaxWorkers)
	}
	if c.Batch.AddressesPerWorker <= 0 {
		return eris.Errorf("config: batch.addresses_per_worker must be positive, got %d", c.Batch.AddressesPerWorker)
	}
	if c.Match.StreetLimit <= 0 {
		return eris.Errorf("config: match.street_limit must be positive, got %d", c.Match.StreetLimit)
	}
	if c.Match.MaxEditRatio < 0 {
		return eris.Errorf("config: match.max_edit_ratio must not be negative, got %g", c.Match.MaxEditRatio)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// SearchOptions returns the street search settings.
func (c *Config) SearchOptions() gazetteer.SearchOptions {
	return gazetteer.SearchOptions{
		Limit:             c.Match.StreetLimit,
		ContainmentWeight: c.Scoring.ContainmentWeight,
		MaxEditRatio:      c.Match.MaxEditRatio,
	}
}

// Weights returns the candidate scoring weights.
func (c *Config) Weights() *match.Weights {
	return &match.Weights{
		SimilarityWeight: c.Scoring.SimilarityWeight,
		StreetNameBonus:  c.Scoring.StreetNameBonus,
		PositionFactor:   c.Scoring.PositionFactor,
		NonMatchPenalty:  c.Scoring.NonMatchPenalty,
	}
}

// Dispatch returns the worker pool settings. The caller sets the
// preprocessor.
func (c *Config) Dispatch() dispatch.Config {
	return dispatch.Config{
		MaxWorkers:         c.Batch.MaxWorkers,
		AddressesPerWorker: c.Batch.AddressesPerWorker,
		Weights:            c.Weights(),
	}
}

// InitLogger builds the process logger and installs it as the zap global.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
