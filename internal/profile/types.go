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
	"encoding/json"
	"fmt"
	"strings"
)

// SemanticType is the inferred logical type of a column.
type SemanticType uint8

const (
	String SemanticType = iota
	Boolean
	Date
	Number
)

func (t SemanticType) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Number:
		return "number"
	default:
		return "string"
	}
}

// Is reports whether o is t. The method value t.Is can be passed to
// Profile.ColumnsOfType.
func (t SemanticType) Is(o SemanticType) bool {
	return t == o
}

// IsCategorical reports whether values of this type are discrete labels.
func (t SemanticType) IsCategorical() bool {
	return t == String || t == Boolean
}

func (t SemanticType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *SemanticType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseSemanticType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseSemanticType converts the text form of a type back into a SemanticType.
func ParseSemanticType(s string) (SemanticType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return String, nil
	case "boolean":
		return Boolean, nil
	case "date":
		return Date, nil
	case "number":
		return Number, nil
	}
	return String, fmt.Errorf("unknown semantic type: %q", s)
}

// NumberStats holds descriptive statistics of a numeric column.
type NumberStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// DateRange holds the earliest and latest instants of a date column.
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Frequency is one entry of a column's most common values.
type Frequency struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// ColumnSummary describes one column after coercion.
type ColumnSummary struct {
	Type    SemanticType `json:"type"`
	Count   int          `json:"count"`
	Missing int          `json:"missing"`

	// Set for Number columns with at least one value.
	Number *NumberStats `json:"number,omitempty"`

	// Set for String and Boolean columns with at least one value.
	Top []Frequency `json:"top,omitempty"`

	// Set for Date columns with at least one value.
	Dates *DateRange `json:"dates,omitempty"`
}

// Profile is the aggregate summary of a table.
type Profile struct {
	RowCount    int `json:"row_count"`
	ColumnCount int `json:"column_count"`

	// Columns lists column names in table order.
	Columns []string `json:"columns"`

	Summaries map[string]ColumnSummary `json:"summaries"`
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{
		Columns:   []string{},
		Summaries: make(map[string]ColumnSummary),
	}
}

// ColumnsOfType returns the names of columns whose type satisfies match, in
// table order.
func (p *Profile) ColumnsOfType(match func(SemanticType) bool) []string {
	if p == nil {
		return nil
	}
	var names []string
	for _, name := range p.Columns {
		if s, ok := p.Summaries[name]; ok && match(s.Type) {
			names = append(names, name)
		}
	}
	return names
}
