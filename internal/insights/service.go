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
package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/table-insights/internal/genai"
	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/GoogleCloudPlatform/table-insights/internal/recommend"
	"github.com/GoogleCloudPlatform/table-insights/internal/source"
	"go.uber.org/zap"
)

// AnalysisError collects the per-table failures of a run.
type AnalysisError struct {
	Errors []error
}

func (e *AnalysisError) Error() string {
	errorMessages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("encountered %d error(s) during table analysis:\n- %s",
		len(e.Errors), strings.Join(errorMessages, "\n- "))
}

func (e *AnalysisError) Unwrap() []error { return e.Errors }

// Service profiles the tables of a source and recommends charts for them.
type Service struct {
	source     source.Source
	llm        genai.LLMClient
	retry      RetryOptions
	thresholds profile.Thresholds
	logger     *zap.Logger
}

// Config tunes a Service. Zero fields take defaults.
type Config struct {
	Retry      RetryOptions
	Thresholds profile.Thresholds
	Logger     *zap.Logger
}

// NewService returns a Service reading from src. llm may be nil, in which
// case captions are never generated.
func NewService(src source.Source, llm genai.LLMClient, cfg Config) *Service {
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryOptions
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}
	return &Service{
		source:     src,
		llm:        llm,
		retry:      cfg.Retry,
		thresholds: cfg.Thresholds,
		logger:     cfg.Logger,
	}
}

// AnalyzeParams selects what Analyze reads and computes.
type AnalyzeParams struct {
	// TableFilters maps table names to the columns to keep. An empty map
	// selects every table; a nil column list keeps every column.
	TableFilters map[string][]string

	// Limit bounds the rows read per table when > 0.
	Limit int

	// Strict fails a table whose later rows carry columns the first row
	// does not.
	Strict bool

	Recommend   bool
	Describe    bool
	IncludeRows bool

	// AdditionalContext is passed to the caption model.
	AdditionalContext string
}

// ListTables returns the names of the source tables matching filters.
func (s *Service) ListTables(ctx context.Context, filters map[string][]string) ([]string, error) {
	tables, err := withRetry(ctx, s.retry, s.logger, func(ctx context.Context) ([]string, error) {
		names, err := s.source.ListTables(ctx)
		return names, classifySourceError("list tables", err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return s.filterTables(tables, filters), nil
}

// Analyze profiles every selected table concurrently. Results are sorted by
// table name. When some tables fail, the others are still returned together
// with an error describing every failure.
func (s *Service) Analyze(ctx context.Context, params AnalyzeParams) ([]*TableInsight, error) {
	startTime := time.Now()
	s.logger.Info("starting table analysis")

	tables, err := s.ListTables(ctx, params.TableFilters)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		s.logger.Info("no tables match the provided filters (--tables)")
		return []*TableInsight{}, nil
	}

	var (
		results      []*TableInsight
		wg           sync.WaitGroup
		mu           sync.Mutex
		errorChannel = make(chan error, len(tables))
	)

	s.logger.Info("processing tables", zap.Int("count", len(tables)))
	for _, tableName := range tables {
		wg.Add(1)
		go func(table string) {
			defer wg.Done()
			insight, err := s.analyzeTable(ctx, table, params)
			if err != nil {
				s.logger.Error("failed to analyze table", zap.String("table", table), zap.Error(err))
				errorChannel <- fmt.Errorf("Table[%s]: %w", table, err)
				return
			}
			mu.Lock()
			results = append(results, insight)
			mu.Unlock()
		}(tableName)
	}

	wg.Wait()
	close(errorChannel)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Table < results[j].Table
	})

	var allErrors []error
	for err := range errorChannel {
		allErrors = append(allErrors, err)
	}
	if len(allErrors) > 0 {
		sort.Slice(allErrors, func(i, j int) bool {
			return allErrors[i].Error() < allErrors[j].Error()
		})
		return results, &AnalysisError{Errors: allErrors}
	}

	s.logger.Info("table analysis completed",
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Int("tables", len(results)))
	return results, nil
}

func (s *Service) analyzeTable(ctx context.Context, table string, params AnalyzeParams) (*TableInsight, error) {
	logger := s.logger.With(zap.String("table", table))

	rows, err := withRetry(ctx, s.retry, logger, func(ctx context.Context) (profile.Table, error) {
		t, err := s.source.LoadTable(ctx, table, params.Limit)
		return t, classifySourceError("load table "+table, err)
	})
	if err != nil {
		return nil, err
	}
	rows = rows.Project(params.TableFilters[table])

	if params.Strict {
		if err := profile.CheckSchema(rows); err != nil {
			return nil, classifySourceError("strict schema check", err)
		}
	}

	res := profile.ProfileInPlace(rows,
		profile.WithThresholds(s.thresholds),
		profile.WithLogger(logger))
	insight := &TableInsight{
		Table:   table,
		Profile: res.Profile,
		Dropped: res.Dropped,
	}
	if params.IncludeRows {
		insight.Rows = res.Table
	}
	if params.Recommend {
		insight.Recommendations = recommend.Recommend(res.Profile)
		if params.Describe {
			s.describe(ctx, logger, insight, params.AdditionalContext)
		}
	}
	logger.Debug("table analyzed",
		zap.Int("rows", res.Profile.RowCount),
		zap.Int("recommendations", len(insight.Recommendations)))
	return insight, nil
}

// describe adds LLM captions to the recommendations of insight. Failures are
// logged and leave the caption empty.
func (s *Service) describe(ctx context.Context, logger *zap.Logger, insight *TableInsight, additionalContext string) {
	if s.llm == nil {
		return
	}
	for i := range insight.Recommendations {
		rec := &insight.Recommendations[i]
		caption, err := s.llm.GenerateCaption(ctx, captionRequest(insight, rec, additionalContext))
		if err != nil {
			logger.Warn("failed to generate caption via LLM",
				zap.String("chart", rec.Title), zap.Error(err))
			continue
		}
		rec.Caption = caption
	}
}

func captionRequest(insight *TableInsight, rec *recommend.Recommendation, additionalContext string) genai.CaptionRequest {
	req := genai.CaptionRequest{
		Table:     insight.Table,
		Title:     rec.Title,
		Kind:      rec.Kind.String(),
		Rationale: rec.Rationale,
		Context:   additionalContext,
	}
	for _, col := range rec.Binding.Columns() {
		summary, ok := insight.Profile.Summaries[col]
		if !ok {
			continue
		}
		req.Columns = append(req.Columns, genai.ColumnFact{
			Name:    col,
			Type:    summary.Type.String(),
			Summary: describeSummary(summary),
		})
	}
	return req
}

func (s *Service) filterTables(allTables []string, tableFilters map[string][]string) []string {
	if len(tableFilters) == 0 {
		return allTables
	}
	available := make(map[string]bool, len(allTables))
	filtered := make([]string, 0, len(tableFilters))
	for _, table := range allTables {
		available[table] = true
		if _, ok := tableFilters[table]; ok {
			filtered = append(filtered, table)
		}
	}
	for table := range tableFilters {
		if !available[table] {
			s.logger.Warn("table named in --tables not found in source", zap.String("table", table))
		}
	}
	sort.Strings(filtered)
	return filtered
}
