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

import "math"

const (
	// DefaultSampleLimit is how many leading values the date and number
	// heuristics inspect.
	DefaultSampleLimit = 200

	// DefaultEvidenceCap caps the number of matches a heuristic needs.
	DefaultEvidenceCap = 10

	// DefaultDateFraction is the share of the column that must parse as
	// dates, below the cap.
	DefaultDateFraction = 0.2

	// DefaultNumberFraction is the share of the column that must parse as
	// numbers, below the cap.
	DefaultNumberFraction = 0.4
)

// Thresholds tunes type inference. A heuristic fires when its match count
// over the first SampleLimit values exceeds min(EvidenceCap, ceil(fraction*n)),
// where n is the column length.
type Thresholds struct {
	SampleLimit    int     `json:"sample_limit"`
	EvidenceCap    int     `json:"evidence_cap"`
	DateFraction   float64 `json:"date_fraction"`
	NumberFraction float64 `json:"number_fraction"`
}

// DefaultThresholds returns the standard inference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SampleLimit:    DefaultSampleLimit,
		EvidenceCap:    DefaultEvidenceCap,
		DateFraction:   DefaultDateFraction,
		NumberFraction: DefaultNumberFraction,
	}
}

// withDefaults fills unset fields from DefaultThresholds.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.SampleLimit <= 0 {
		t.SampleLimit = d.SampleLimit
	}
	if t.EvidenceCap <= 0 {
		t.EvidenceCap = d.EvidenceCap
	}
	if t.DateFraction <= 0 {
		t.DateFraction = d.DateFraction
	}
	if t.NumberFraction <= 0 {
		t.NumberFraction = d.NumberFraction
	}
	return t
}

// required returns the count a heuristic must exceed for a column of n values.
func (t Thresholds) required(fraction float64, n int) int {
	scaled := int(math.Ceil(fraction * float64(n)))
	if t.EvidenceCap < scaled {
		return t.EvidenceCap
	}
	return scaled
}

// Classifier infers the semantic type of a column.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier returns a classifier using t; zero fields take defaults.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t.withDefaults()}
}

// Classify returns the semantic type of values. Checks run in order
// Boolean, Date, Number and the first match wins; String is the fallback.
func (c *Classifier) Classify(values []any) SemanticType {
	if isBooleanColumn(values) {
		return Boolean
	}

	sample := values
	if len(sample) > c.thresholds.SampleLimit {
		sample = sample[:c.thresholds.SampleLimit]
	}

	dates := 0
	for _, v := range sample {
		if _, ok := ParseDate(v); ok {
			dates++
		}
	}
	if dates > c.thresholds.required(c.thresholds.DateFraction, len(values)) {
		return Date
	}

	numbers := 0
	for _, v := range sample {
		if _, ok := ParseNumber(v); ok {
			numbers++
		}
	}
	if numbers > c.thresholds.required(c.thresholds.NumberFraction, len(values)) {
		return Number
	}

	return String
}

// isBooleanColumn checks the whole column: every non-blank value must be a
// boolean token and at least one must be present.
func isBooleanColumn(values []any) bool {
	seen := false
	for _, v := range values {
		if isBlank(v) {
			continue
		}
		if _, ok := ParseBool(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}
