// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package config loads pipeline configuration via Koanf v2 with layered
// sources (highest priority wins): environment variables, optional YAML
// config file, built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"featurelens.yaml",
	"featurelens.yml",
	"/etc/featurelens/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "FEATURELENS_CONFIG"

// envPrefix is stripped from environment variables before mapping them to
// config paths: FEATURELENS_SPLIT_SEED -> split.seed.
const envPrefix = "FEATURELENS_"

// Config is the root pipeline configuration.
type Config struct {
	Data    DataConfig    `koanf:"data"`
	Split   SplitConfig   `koanf:"split"`
	Model   ModelConfig   `koanf:"model"`
	Output  OutputConfig  `koanf:"output"`
	Logging LoggingConfig `koanf:"logging"`
}

// DataConfig locates the raw sources for both pipeline paths.
type DataConfig struct {
	// Format selects the primary-source loader: csv or duckdb.
	Format string `koanf:"format" validate:"oneof=csv duckdb"`

	// Primary sources (training path).
	MoviesPath  string `koanf:"movies_path"`
	RatingsPath string `koanf:"ratings_path"`
	TagsPath    string `koanf:"tags_path"`
	LinksPath   string `koanf:"links_path"`

	// DatabasePath is the DuckDB file holding the primary sources when
	// Format is duckdb.
	DatabasePath string `koanf:"database_path"`

	// Holdout sources (scoring path), always in the ::-delimited format.
	HoldoutRatingsPath string `koanf:"holdout_ratings_path" validate:"required"`
	HoldoutMoviesPath  string `koanf:"holdout_movies_path" validate:"required"`

	// NATokens are the string tokens recognized as missing values when
	// parsing delimited sources.
	NATokens []string `koanf:"na_tokens"`
}

// SplitConfig controls the train/test partition of the primary ratings.
type SplitConfig struct {
	// TestFraction of rows is held out for evaluation.
	TestFraction float64 `koanf:"test_fraction" validate:"gte=0,lt=1"`

	// Seed fixes the permutation; a run is reproducible per seed.
	Seed int64 `koanf:"seed"`
}

// ModelConfig selects and tunes the regressor.
type ModelConfig struct {
	// Name is the regressor to fit: baseline is the closed-form linear
	// model.
	Name string `koanf:"name" validate:"oneof=baseline"`

	// Ridge is the baseline's regularization strength; zero selects the
	// built-in default.
	Ridge float64 `koanf:"ridge" validate:"gte=0"`
}

// OutputConfig locates persisted outputs.
type OutputConfig struct {
	// CleanDir receives the cleaned entity tables as CSV.
	CleanDir string `koanf:"clean_dir" validate:"required"`

	// ArtifactDir receives the fitted model and feature-table blobs.
	ArtifactDir string `koanf:"artifact_dir" validate:"required"`

	// ReportPath receives the JSON run report.
	ReportPath string `koanf:"report_path" validate:"required"`
}

// LoggingConfig mirrors the logging package's options.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns the built-in defaults, overridden by file and env.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Format:             "csv",
			MoviesPath:         "data/movies.csv",
			RatingsPath:        "data/ratings.csv",
			TagsPath:           "data/tags.csv",
			LinksPath:          "data/links.csv",
			HoldoutRatingsPath: "data/holdout/ratings.dat",
			HoldoutMoviesPath:  "data/holdout/movies.dat",
			NATokens:           []string{"", "NA"},
		},
		Split: SplitConfig{
			TestFraction: 0.2,
			Seed:         42,
		},
		Model: ModelConfig{
			Name: "baseline",
		},
		Output: OutputConfig{
			CleanDir:    "out/clean",
			ArtifactDir: "out/artifacts",
			ReportPath:  "out/report.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config path, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps FEATURELENS_SPLIT_TEST_FRACTION to split.test_fraction:
// the first underscore after the prefix separates section from key.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate applies struct-tag validation plus cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}

	switch c.Data.Format {
	case "csv":
		for name, path := range map[string]string{
			"data.movies_path":  c.Data.MoviesPath,
			"data.ratings_path": c.Data.RatingsPath,
			"data.tags_path":    c.Data.TagsPath,
			"data.links_path":   c.Data.LinksPath,
		} {
			if path == "" {
				return fmt.Errorf("%s is required when data.format is csv", name)
			}
		}
	case "duckdb":
		if c.Data.DatabasePath == "" {
			return fmt.Errorf("data.database_path is required when data.format is duckdb")
		}
	}
	return nil
}
