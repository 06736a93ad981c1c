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
package profile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Result is the outcome of profiling a table.
type Result struct {
	Profile *Profile `json:"profile"`

	// Table holds the coerced rows.
	Table Table `json:"-"`

	// Dropped lists columns that appear only after the first row and were
	// therefore not profiled, in first-seen order.
	Dropped []string `json:"dropped,omitempty"`
}

// SchemaMismatchError reports columns that are missing from the first row.
type SchemaMismatchError struct {
	Columns []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("columns not present in the first row: %s", strings.Join(e.Columns, ", "))
}

type options struct {
	thresholds Thresholds
	logger     *zap.Logger
}

// Option configures a profiling call.
type Option func(*options)

// WithThresholds overrides the type inference thresholds.
func WithThresholds(t Thresholds) Option {
	return func(o *options) {
		o.thresholds = t
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{thresholds: DefaultThresholds(), logger: zap.L()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProfileTable infers column types, coerces a copy of t and summarizes it.
// The caller's table is left unchanged.
func ProfileTable(t Table, opts ...Option) *Result {
	return ProfileInPlace(t.Clone(), opts...)
}

// ProfileInPlace is like ProfileTable but rewrites the cells of t with their
// coerced values. Result.Table is t.
func ProfileInPlace(t Table, opts ...Option) *Result {
	o := newOptions(opts)
	p := NewProfile()
	res := &Result{Profile: p, Table: t}
	if len(t) == 0 {
		return res
	}

	classifier := NewClassifier(o.thresholds)
	columns := t.Columns()
	p.RowCount = len(t)
	p.ColumnCount = len(columns)
	p.Columns = columns

	res.Dropped = laterColumns(t)
	if len(res.Dropped) > 0 {
		o.logger.Warn("columns missing from the first row were not profiled",
			zap.Strings("columns", res.Dropped))
	}

	for _, name := range columns {
		raw := t.Column(name)
		typ := classifier.Classify(raw)
		coerced := Coerce(raw, typ)
		for i, r := range t {
			if _, ok := r.Get(name); ok {
				r.Set(name, coerced[i])
			}
		}
		summary := Summarize(coerced, typ)
		p.Summaries[name] = summary
		o.logger.Debug("classified column",
			zap.String("column", name),
			zap.Stringer("type", typ),
			zap.Int("missing", summary.Missing))
	}
	return res
}

// CheckSchema returns a *SchemaMismatchError if any row after the first
// carries a column the first row does not.
func CheckSchema(t Table) error {
	if dropped := laterColumns(t); len(dropped) > 0 {
		return &SchemaMismatchError{Columns: dropped}
	}
	return nil
}

func laterColumns(t Table) []string {
	if len(t) < 2 {
		return nil
	}
	known := make(map[string]bool)
	for _, k := range t[0].Keys() {
		known[k] = true
	}
	var extra []string
	for _, r := range t[1:] {
		for _, k := range r.Keys() {
			if !known[k] {
				known[k] = true
				extra = append(extra, k)
			}
		}
	}
	return extra
}
