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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/database"
	_ "github.com/GoogleCloudPlatform/table-insights/internal/database/mysql"
	_ "github.com/GoogleCloudPlatform/table-insights/internal/database/postgres"
	_ "github.com/GoogleCloudPlatform/table-insights/internal/database/sqlite"
	_ "github.com/GoogleCloudPlatform/table-insights/internal/database/sqlserver"
	"github.com/GoogleCloudPlatform/table-insights/internal/genai"
	"github.com/GoogleCloudPlatform/table-insights/internal/insights"
	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/GoogleCloudPlatform/table-insights/internal/source"
	"github.com/GoogleCloudPlatform/table-insights/internal/utils"
	"go.uber.org/zap"
)

// openSource opens the file or database selected by cfg. The returned name
// identifies the source in reports.
func openSource(ctx context.Context, cfg *config.Config) (source.Source, string, error) {
	if !cfg.UsesDatabase() {
		src, err := source.Open(cfg.Source)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", cfg.Source.File, err)
		}
		return src, cfg.Source.File, nil
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		zap.L().Error("failed to connect to database",
			zap.String("dialect", cfg.Database.Dialect), zap.Error(err))
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}
	return source.NewDatabase(db), cfg.Database.DBName, nil
}

func thresholds(p config.ProfilingConfig) profile.Thresholds {
	return profile.Thresholds{
		SampleLimit:    p.SampleLimit,
		EvidenceCap:    p.EvidenceCap,
		DateFraction:   p.DateFraction,
		NumberFraction: p.NumberFraction,
	}
}

// newLLMClient returns a validated Gemini client.
func newLLMClient(ctx context.Context, cfg *config.Config) (genai.LLMClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("captions are requested (--describe), but Gemini API key is not configured. Please set the GEMINI_API_KEY environment variable")
	}
	client, err := genai.NewClient(ctx, genai.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.Model})
	if err != nil {
		return nil, err
	}
	if err := client.IsAPIKeyValid(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("Gemini API key is invalid. Please provide a valid api key: %w", err)
	}
	return client, nil
}

// analysis describes one profile or recommend run.
type analysis struct {
	command string
	params  insights.AnalyzeParams
	vegaDir string
}

func runAnalysis(ctx context.Context, cfg *config.Config, a analysis) error {
	tableFilters, err := utils.ParseTablesFlag(tables)
	if err != nil {
		return err
	}
	a.params.TableFilters = tableFilters
	a.params.Limit = cfg.Source.Limit
	a.params.Strict = cfg.Profiling.Strict

	zap.L().Info("starting "+a.command+" operation",
		zap.String("file", cfg.Source.File),
		zap.String("dialect", cfg.Database.Dialect),
		zap.String("database", cfg.Database.DBName))

	src, sourceName, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	var llm genai.LLMClient
	if a.params.Describe {
		if llm, err = newLLMClient(ctx, cfg); err != nil {
			return err
		}
		defer llm.Close()
	}

	svc := insights.NewService(src, llm, insights.Config{Thresholds: thresholds(cfg.Profiling)})
	results, analyzeErr := svc.Analyze(ctx, a.params)
	if results == nil {
		return fmt.Errorf("%s failed: %w", a.command, analyzeErr)
	}

	if err := writeReport(cfg, a.command, sourceName, results); err != nil {
		return err
	}
	if a.vegaDir != "" {
		if err := writeVegaLite(a.vegaDir, results); err != nil {
			return err
		}
	}
	if analyzeErr != nil {
		return fmt.Errorf("%s completed with errors: %w", a.command, analyzeErr)
	}

	zap.L().Info(a.command+" operation completed", zap.Int("tables", len(results)))
	return nil
}

func writeReport(cfg *config.Config, command, sourceName string, results []*insights.TableInsight) error {
	var buf bytes.Buffer
	switch cfg.Output.Format {
	case "json":
		if err := insights.WriteJSON(&buf, insights.Report{Source: sourceName, Tables: results}); err != nil {
			return err
		}
	default:
		buf.WriteString(insights.FormatInsightsAsText(results))
	}

	outputFile := reportPath(cfg.Output.File, sourceName, command, cfg.Output.Format)
	if err := utils.WriteOutput(outputFile, buf.Bytes()); err != nil {
		return err
	}
	if outputFile != "" {
		zap.L().Info("report written", zap.String("path", outputFile))
	}
	return nil
}

// reportPath resolves --out_file. A directory, or a path ending in a
// separator, receives a file named after the source and command.
func reportPath(outFile, sourceName, command, format string) string {
	if outFile == "" {
		return ""
	}
	info, err := os.Stat(outFile)
	isDir := err == nil && info.IsDir()
	if isDir || strings.HasSuffix(outFile, string(os.PathSeparator)) {
		return filepath.Join(outFile, utils.GetDefaultOutputFilePath(sourceName, command, format))
	}
	return outFile
}

// writeVegaLite writes one Vega-Lite document per recommendation. Documents
// embed the coerced rows when they were kept, and otherwise reference a data
// source named after the table.
func writeVegaLite(dir string, results []*insights.TableInsight) error {
	written := 0
	for _, in := range results {
		for i, rec := range in.Recommendations {
			doc := rec.VegaLite(in.Table)
			if in.Rows != nil {
				doc["data"] = map[string]any{"values": in.Rows}
			}
			content, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode chart %q: %w", rec.Title, err)
			}
			name := fmt.Sprintf("%s_%d_%s.vl.json", utils.SafeFileName(in.Table), i+1, rec.Kind)
			if err := utils.WriteOutput(filepath.Join(dir, name), content); err != nil {
				return err
			}
			written++
		}
	}
	zap.L().Info("Vega-Lite charts written", zap.String("dir", dir), zap.Int("charts", written))
	return nil
}
