/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TABLE_INSIGHTS"

// Config holds all configuration for the application
type Config struct {
	Source       SourceConfig    `mapstructure:"source"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Profiling    ProfilingConfig `mapstructure:"profiling"`
	Output       OutputConfig    `mapstructure:"output"`
	GeminiAPIKey string          `mapstructure:"gemini_api_key"`
	Model        string          `mapstructure:"model"`
	Log          LogConfig       `mapstructure:"log"`
}

// SourceConfig selects a file based table source.
type SourceConfig struct {
	File      string `mapstructure:"file"`
	Format    string `mapstructure:"format"`
	Delimiter string `mapstructure:"delimiter"`
	Limit     int    `mapstructure:"limit"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Dialect                        string `mapstructure:"dialect"`
	Host                           string `mapstructure:"host"`
	Port                           int    `mapstructure:"port"`
	User                           string `mapstructure:"username"`
	Password                       string `mapstructure:"password"`
	DBName                         string `mapstructure:"name"`
	SSLMode                        string `mapstructure:"sslmode"`
	CloudSQLInstanceConnectionName string `mapstructure:"cloudsql_instance_connection_name"`
	UsePrivateIP                   bool   `mapstructure:"cloudsql_use_private_ip"`
}

// ProfilingConfig tunes type inference.
type ProfilingConfig struct {
	SampleLimit    int     `mapstructure:"sample_limit"`
	EvidenceCap    int     `mapstructure:"evidence_cap"`
	DateFraction   float64 `mapstructure:"date_fraction"`
	NumberFraction float64 `mapstructure:"number_fraction"`
	Strict         bool    `mapstructure:"strict"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	globalConfig *Config
	mu           sync.RWMutex
)

// GetConfig returns a default configuration. Configuration will be set by flags in root.go
func GetConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Format:    "auto",
			Delimiter: ",",
		},
		Database: DatabaseConfig{
			Dialect: "postgres",
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Profiling: ProfilingConfig{
			SampleLimit:    200,
			EvidenceCap:    10,
			DateFraction:   0.2,
			NumberFraction: 0.4,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Model: "gemini-1.5-flash-latest",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SetDefaults registers the values of GetConfig as viper defaults. Every key
// needs a default so that Unmarshal sees its environment override.
func SetDefaults(v *viper.Viper) {
	d := GetConfig()
	v.SetDefault("source.file", d.Source.File)
	v.SetDefault("source.format", d.Source.Format)
	v.SetDefault("source.delimiter", d.Source.Delimiter)
	v.SetDefault("source.limit", d.Source.Limit)
	v.SetDefault("database.dialect", d.Database.Dialect)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.username", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.name", d.Database.DBName)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("database.cloudsql_instance_connection_name", d.Database.CloudSQLInstanceConnectionName)
	v.SetDefault("database.cloudsql_use_private_ip", d.Database.UsePrivateIP)
	v.SetDefault("profiling.sample_limit", d.Profiling.SampleLimit)
	v.SetDefault("profiling.evidence_cap", d.Profiling.EvidenceCap)
	v.SetDefault("profiling.date_fraction", d.Profiling.DateFraction)
	v.SetDefault("profiling.number_fraction", d.Profiling.NumberFraction)
	v.SetDefault("profiling.strict", d.Profiling.Strict)
	v.SetDefault("output.file", d.Output.File)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("gemini_api_key", d.GeminiAPIKey)
	v.SetDefault("model", d.Model)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load builds a Config from v. Environment variables named
// TABLE_INSIGHTS_<KEY> (dots replaced by underscores) override defaults and
// any config file; GEMINI_API_KEY is honored for the API key.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini_api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

// UsesDatabase reports whether the configuration selects a database source
// rather than a file.
func (c *Config) UsesDatabase() bool {
	return c.Source.File == ""
}

// Validate checks that the configuration selects a usable source.
func (c *Config) Validate() error {
	var errs []error
	if c.UsesDatabase() {
		if c.Database.DBName == "" {
			errs = append(errs, errors.New("either --file or --database must be set"))
		}
		if strings.HasPrefix(c.Database.Dialect, "cloudsql") && c.Database.CloudSQLInstanceConnectionName == "" {
			errs = append(errs, fmt.Errorf("dialect %s requires --cloudsql-instance-connection-name", c.Database.Dialect))
		}
	}
	if c.Source.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit must not be negative, got %d", c.Source.Limit))
	}
	if c.Profiling.DateFraction < 0 || c.Profiling.DateFraction > 1 {
		errs = append(errs, fmt.Errorf("date fraction must be within [0,1], got %g", c.Profiling.DateFraction))
	}
	if c.Profiling.NumberFraction < 0 || c.Profiling.NumberFraction > 1 {
		errs = append(errs, fmt.Errorf("number fraction must be within [0,1], got %g", c.Profiling.NumberFraction))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported output format %q (want text or json)", c.Output.Format))
	}
	return errors.Join(errs...)
}

// SetConfig sets the global configuration.
func SetConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = cfg
}

// Current returns the global configuration, or the defaults if none was set.
func Current() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if globalConfig == nil {
		return GetConfig()
	}
	return globalConfig
}
