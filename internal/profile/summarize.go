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
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TopValues is the number of most frequent values kept for categorical columns.
const TopValues = 3

// Summarize computes the summary of an already coerced column.
func Summarize(values []any, t SemanticType) ColumnSummary {
	clean := make([]any, 0, len(values))
	for _, v := range values {
		if v != nil {
			clean = append(clean, v)
		}
	}

	s := ColumnSummary{
		Type:    t,
		Count:   len(values),
		Missing: len(values) - len(clean),
	}
	if len(clean) == 0 {
		return s
	}

	switch t {
	case Number:
		s.Number = numberStats(clean)
	case Date:
		s.Dates = dateRange(clean)
	default:
		s.Top = topFrequencies(clean, TopValues)
	}
	return s
}

func numberStats(clean []any) *NumberStats {
	var (
		stats *NumberStats
		sum   = decimal.Zero
		n     int64
	)
	for _, v := range clean {
		f, ok := ParseNumber(v)
		if !ok {
			continue
		}
		if stats == nil {
			stats = &NumberStats{Min: f, Max: f}
		}
		if f < stats.Min {
			stats.Min = f
		}
		if f > stats.Max {
			stats.Max = f
		}
		sum = sum.Add(decimal.NewFromFloat(f))
		n++
	}
	if stats == nil {
		return nil
	}
	stats.Mean = sum.Div(decimal.NewFromInt(n)).InexactFloat64()
	return stats
}

func dateRange(clean []any) *DateRange {
	var lo, hi time.Time
	found := false
	for _, v := range clean {
		d, ok := ParseDate(v)
		if !ok {
			continue
		}
		if !found || d.Before(lo) {
			lo = d
		}
		if !found || d.After(hi) {
			hi = d
		}
		found = true
	}
	if !found {
		return nil
	}
	return &DateRange{Min: FormatInstant(lo), Max: FormatInstant(hi)}
}

// topFrequencies counts values in first-seen order and returns the k most
// frequent. Equal counts keep first-seen order.
func topFrequencies(clean []any, k int) []Frequency {
	index := make(map[any]int)
	var freqs []Frequency
	for _, v := range clean {
		key := frequencyKey(v)
		if i, ok := index[key]; ok {
			freqs[i].Count++
			continue
		}
		index[key] = len(freqs)
		freqs = append(freqs, Frequency{Value: v, Count: 1})
	}
	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})
	if len(freqs) > k {
		freqs = freqs[:k]
	}
	return freqs
}

// frequencyKey returns a comparable key for v. Coerced categorical values
// are strings or bools; anything else is keyed by its string form.
func frequencyKey(v any) any {
	switch v.(type) {
	case string, bool:
		return v
	}
	return coerceString(v)
}
