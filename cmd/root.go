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
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	v       = viper.New()
	cfgFile string
	tables  string
)

// supportedDialects lists the values accepted by --dialect.
var supportedDialects = []string{"postgres", "cloudsqlpostgres", "mysql", "cloudsqlmysql", "sqlserver", "cloudsqlsqlserver", "sqlite"}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"file":                              "source.file",
	"format-in":                         "source.format",
	"delimiter":                         "source.delimiter",
	"limit":                             "source.limit",
	"dialect":                           "database.dialect",
	"host":                              "database.host",
	"port":                              "database.port",
	"username":                          "database.username",
	"password":                          "database.password",
	"database":                          "database.name",
	"sslmode":                           "database.sslmode",
	"cloudsql-instance-connection-name": "database.cloudsql_instance_connection_name",
	"cloudsql-use-private-ip":           "database.cloudsql_use_private_ip",
	"sample-limit":                      "profiling.sample_limit",
	"evidence-cap":                      "profiling.evidence_cap",
	"date-fraction":                     "profiling.date_fraction",
	"number-fraction":                   "profiling.number_fraction",
	"strict":                            "profiling.strict",
	"output":                            "output.format",
	"out_file":                          "output.file",
	"gemini-api-key":                    "gemini_api_key",
	"model":                             "model",
	"log-level":                         "log.level",
	"log-format":                        "log.format",
}

var rootCmd = &cobra.Command{
	Use:   "table_insights",
	Short: "Profile tabular data and recommend charts",
	Long: `table_insights reads tables from files (CSV, TSV, JSON, XLSX, HTML) or
databases, infers the semantic type of every column, summarizes it and
recommends charts that fit the detected schema.`,
	PersistentPreRunE: initFlagsAndConfig,
	SilenceUsage:      true,
}

// initFlagsAndConfig loads the configuration from flags, environment and an
// optional config file, and installs the process logger.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	if cfg.UsesDatabase() {
		if err := validateDialect(cfg.Database.Dialect); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetConfig(cfg)
	return nil
}

func validateDialect(dialect string) error {
	for _, supported := range supportedDialects {
		if dialect == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported dialect: %s (only %s are supported)", dialect, strings.Join(supportedDialects, ", "))
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer func() { _ = zap.L().Sync() }()
	return rootCmd.ExecuteContext(ctx)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func init() {
	d := config.GetConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "Config file (YAML, JSON or TOML)")
	flags.StringVar(&tables, "tables", "", "Comma-separated list of tables and columns to include (e.g., 'table1[col1,col2],table2')")

	// Source flags
	flags.String("file", "", "File to read tables from; when empty the database flags are used")
	flags.String("format-in", d.Source.Format, "Input format (auto, csv, tsv, json, xlsx, html)")
	flags.String("delimiter", d.Source.Delimiter, "Field delimiter for csv input ('tab' or '\\t' for tabs)")
	flags.Int("limit", d.Source.Limit, "Maximum number of rows read per table (0 reads all)")

	// Database connection flags
	flags.String("dialect", d.Database.Dialect, fmt.Sprintf("Database dialect (%s)", strings.Join(supportedDialects, ", ")))
	flags.String("host", d.Database.Host, "Database host")
	flags.Int("port", d.Database.Port, "Database port")
	flags.String("username", "", "Database username")
	flags.String("password", "", "Database password")
	flags.String("database", "", "Database name (file path for sqlite)")
	flags.String("sslmode", d.Database.SSLMode, "SSL mode for postgres connections")
	flags.String("cloudsql-instance-connection-name", "", "Cloud SQL instance connection name (for Cloud SQL dialects)")
	flags.Bool("cloudsql-use-private-ip", false, "Use private IP for Cloud SQL connection (Cloud SQL)")

	// Profiling flags
	flags.Int("sample-limit", d.Profiling.SampleLimit, "Number of leading values inspected for date and number detection")
	flags.Int("evidence-cap", d.Profiling.EvidenceCap, "Maximum number of matches a type heuristic needs")
	flags.Float64("date-fraction", d.Profiling.DateFraction, "Share of a column that must parse as dates")
	flags.Float64("number-fraction", d.Profiling.NumberFraction, "Share of a column that must parse as numbers")
	flags.Bool("strict", false, "Fail tables whose later rows carry columns missing from the first row")

	// Output flags
	flags.String("output", d.Output.Format, "Report format (text or json)")
	flags.StringP("out_file", "o", "", "File path to write the report to, or a directory for <source>_<command>.<ext> (defaults to stdout)")

	// Gemini flags
	flags.String("gemini-api-key", "", "Gemini API key (can also be set via GEMINI_API_KEY environment variable)")
	flags.String("model", d.Model, "Gemini model used for captions")

	// Logging flags
	flags.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log-format", d.Log.Format, "Log format (console or json)")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}

	// Add subcommands
	rootCmd.AddCommand(listTablesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(recommendCmd)
}
