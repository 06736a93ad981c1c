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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/spf13/cast"
)

// Absent is printed for values that do not exist.
const Absent = "—"

// PrettyNumber formats a number with a K, M or B suffix and one decimal once
// it reaches a thousand. nil, NaN and non-numeric values print as Absent.
func PrettyNumber(v any) string {
	if v == nil {
		return Absent
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) {
		return Absent
	}
	abs := math.Abs(n)
	switch {
	case abs >= 1e9:
		return strconv.FormatFloat(n/1e9, 'f', 1, 64) + "B"
	case abs >= 1e6:
		return strconv.FormatFloat(n/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(n/1e3, 'f', 1, 64) + "K"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// describeSummary renders the statistics of a column on one line.
func describeSummary(s profile.ColumnSummary) string {
	parts := []string{fmt.Sprintf("missing %s of %s", PrettyNumber(s.Missing), PrettyNumber(s.Count))}
	switch {
	case s.Number != nil:
		parts = append(parts, fmt.Sprintf("min %s, max %s, mean %s",
			PrettyNumber(s.Number.Min), PrettyNumber(s.Number.Max), PrettyNumber(s.Number.Mean)))
	case s.Dates != nil:
		parts = append(parts, fmt.Sprintf("from %s to %s", s.Dates.Min, s.Dates.Max))
	case len(s.Top) > 0:
		top := make([]string, len(s.Top))
		for i, f := range s.Top {
			top[i] = fmt.Sprintf("%v (%d)", f.Value, f.Count)
		}
		parts = append(parts, "top "+strings.Join(top, ", "))
	}
	return strings.Join(parts, "; ")
}

// FormatInsightsAsText renders insights as a human readable report.
func FormatInsightsAsText(insights []*TableInsight) string {
	if len(insights) == 0 {
		return "No tables found.\n"
	}
	var buffer bytes.Buffer
	for i, in := range insights {
		if i > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(fmt.Sprintf("--- Table: %s ---\n", in.Table))
		p := in.Profile
		if p == nil {
			p = profile.NewProfile()
		}
		buffer.WriteString(fmt.Sprintf("  Rows: %s  Columns: %s\n", PrettyNumber(p.RowCount), PrettyNumber(p.ColumnCount)))
		for _, name := range p.Columns {
			s := p.Summaries[name]
			buffer.WriteString(fmt.Sprintf("  Column: %s (%s)\n", name, s.Type))
			buffer.WriteString(fmt.Sprintf("    %s\n", describeSummary(s)))
		}
		if len(in.Dropped) > 0 {
			buffer.WriteString(fmt.Sprintf("  [Not profiled]: %s\n", strings.Join(in.Dropped, ", ")))
		}
		if in.Recommendations == nil {
			continue
		}
		if len(in.Recommendations) == 0 {
			buffer.WriteString("  No chart recommendations.\n")
			continue
		}
		buffer.WriteString("  Recommendations:\n")
		for j, rec := range in.Recommendations {
			buffer.WriteString(fmt.Sprintf("    %d. [%s] %s\n", j+1, rec.Kind, rec.Title))
			buffer.WriteString(fmt.Sprintf("       %s\n", rec.Rationale))
			if rec.Caption != "" {
				buffer.WriteString(fmt.Sprintf("       %s\n", strings.TrimSpace(rec.Caption)))
			}
		}
	}
	return buffer.String()
}

// WriteJSON writes report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	if report.Tables == nil {
		report.Tables = []*TableInsight{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
