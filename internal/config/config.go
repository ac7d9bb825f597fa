// Package config loads the application configuration from an optional YAML
// file with environment variable overrides, and validates it before any
// analysis work starts.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"wcscli/internal/errors"
	"wcscli/internal/wcs"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Batch    BatchConfig    `yaml:"batch" envconfig:"BATCH"`
}

// AnalysisConfig contains the WCS engine parameters
type AnalysisConfig struct {
	SamplingRate   int       `yaml:"sampling_rate" envconfig:"SAMPLING_RATE" default:"10" validate:"gt=0"`
	EpochDurations []float64 `yaml:"epoch_durations" envconfig:"EPOCH_DURATIONS" default:"1,2,5" validate:"min=1,dive,gt=0"`
	TH1Min         float64   `yaml:"th1_min" envconfig:"TH1_MIN" default:"5" validate:"gte=0"`
	TH1Max         float64   `yaml:"th1_max" envconfig:"TH1_MAX" default:"100" validate:"gtfield=TH1Min"`
	ThresholdKind  string    `yaml:"threshold_kind" envconfig:"THRESHOLD_KIND" default:"none" validate:"oneof=none velocity acceleration"`
	ThresholdValue float64   `yaml:"threshold_value" envconfig:"THRESHOLD_VALUE" default:"0" validate:"gte=0"`
}

// ExportConfig contains report output configuration
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output" validate:"required"`
	Format    string `yaml:"format" envconfig:"FORMAT" default:"csv" validate:"oneof=csv xlsx json"`
	BaseName  string `yaml:"base_name" envconfig:"BASE_NAME" default:"wcs_report" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wcs.log"`
}

// BatchConfig contains batch processing configuration
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" envconfig:"CONCURRENCY" default:"4" validate:"gt=0"`
}

// Load reads configuration in precedence order: struct defaults, then the
// YAML file (if path is non-empty), then WCS_* environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	// envconfig applies the default tags even when no variables are set
	if err := envconfig.Process("WCS", &cfg); err != nil {
		return nil, errors.NewConfigError("process environment", err)
	}

	if path != "" {
		fileCfg, keys, err := loadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = mergeConfigs(*fileCfg, keys, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile parses the YAML file twice: once into the typed struct and
// once into a key map, so the merge can tell an explicit zero value in the
// file from an absent key.
func loadFromFile(path string) (*Config, map[string]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.NewConfigError(fmt.Sprintf("read config file %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, errors.NewConfigError(fmt.Sprintf("parse config file %s", path), err)
	}
	var keys map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, nil, errors.NewConfigError(fmt.Sprintf("parse config file %s", path), err)
	}

	return &cfg, keys, nil
}

// mergeConfigs merges file config with env config (env takes precedence):
// a key the file provides replaces the envconfig value unless the matching
// WCS_* variable is set in the environment.
func mergeConfigs(fileCfg Config, keys map[string]map[string]interface{}, envCfg Config) Config {
	merged := envCfg

	fromFile := func(section, key, envVar string) bool {
		if _, ok := os.LookupEnv(envVar); ok {
			return false
		}
		_, ok := keys[section][key]
		return ok
	}

	if fromFile("analysis", "sampling_rate", "WCS_ANALYSIS_SAMPLING_RATE") {
		merged.Analysis.SamplingRate = fileCfg.Analysis.SamplingRate
	}
	if fromFile("analysis", "epoch_durations", "WCS_ANALYSIS_EPOCH_DURATIONS") {
		merged.Analysis.EpochDurations = fileCfg.Analysis.EpochDurations
	}
	if fromFile("analysis", "th1_min", "WCS_ANALYSIS_TH1_MIN") {
		merged.Analysis.TH1Min = fileCfg.Analysis.TH1Min
	}
	if fromFile("analysis", "th1_max", "WCS_ANALYSIS_TH1_MAX") {
		merged.Analysis.TH1Max = fileCfg.Analysis.TH1Max
	}
	if fromFile("analysis", "threshold_kind", "WCS_ANALYSIS_THRESHOLD_KIND") {
		merged.Analysis.ThresholdKind = fileCfg.Analysis.ThresholdKind
	}
	if fromFile("analysis", "threshold_value", "WCS_ANALYSIS_THRESHOLD_VALUE") {
		merged.Analysis.ThresholdValue = fileCfg.Analysis.ThresholdValue
	}

	if fromFile("export", "output_dir", "WCS_EXPORT_OUTPUT_DIR") {
		merged.Export.OutputDir = fileCfg.Export.OutputDir
	}
	if fromFile("export", "format", "WCS_EXPORT_FORMAT") {
		merged.Export.Format = fileCfg.Export.Format
	}
	if fromFile("export", "base_name", "WCS_EXPORT_BASE_NAME") {
		merged.Export.BaseName = fileCfg.Export.BaseName
	}

	if fromFile("logging", "level", "WCS_LOGGING_LEVEL") {
		merged.Logging.Level = fileCfg.Logging.Level
	}
	if fromFile("logging", "format", "WCS_LOGGING_FORMAT") {
		merged.Logging.Format = fileCfg.Logging.Format
	}
	if fromFile("logging", "output", "WCS_LOGGING_OUTPUT") {
		merged.Logging.Output = fileCfg.Logging.Output
	}
	if fromFile("logging", "file_path", "WCS_LOGGING_FILE_PATH") {
		merged.Logging.FilePath = fileCfg.Logging.FilePath
	}

	if fromFile("batch", "concurrency", "WCS_BATCH_CONCURRENCY") {
		merged.Batch.Concurrency = fileCfg.Batch.Concurrency
	}

	return merged
}

// Validate checks the configuration with struct tags plus the cross-field
// rules the tags cannot express
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.NewConfigError("invalid configuration", err)
	}
	return nil
}

// AnalysisParams converts the configuration block into the engine's
// parameter struct
func (c *Config) AnalysisParams() wcs.Params {
	return wcs.Params{
		SamplingRate:   c.Analysis.SamplingRate,
		EpochDurations: c.Analysis.EpochDurations,
		TH1:            wcs.Band{Min: c.Analysis.TH1Min, Max: c.Analysis.TH1Max},
		Thresholding: wcs.ThresholdSpec{
			Kind:  wcs.ThresholdKind(c.Analysis.ThresholdKind),
			Value: c.Analysis.ThresholdValue,
		},
	}
}
