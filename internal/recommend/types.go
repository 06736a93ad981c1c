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
package recommend

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a chart family.
type Kind uint8

const (
	TimeSeries Kind = iota
	Bar
	Histogram
	Scatter
)

// Kinds lists every chart family in rule priority order.
var Kinds = []Kind{TimeSeries, Bar, Histogram, Scatter}

func (k Kind) String() string {
	switch k {
	case TimeSeries:
		return "timeseries"
	case Bar:
		return "bar"
	case Histogram:
		return "histogram"
	case Scatter:
		return "scatter"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Role is the encoding role of a channel.
type Role string

const (
	Temporal     Role = "temporal"
	Quantitative Role = "quantitative"
	Nominal      Role = "nominal"
)

// Aggregate is the aggregation applied to a channel.
type Aggregate string

const (
	NoAggregate Aggregate = ""
	Sum         Aggregate = "sum"
	Count       Aggregate = "count"
)

// Channel describes one positional axis of a chart.
type Channel struct {
	Field     string    `json:"field,omitempty"`
	Role      Role      `json:"role"`
	Aggregate Aggregate `json:"aggregate,omitempty"`
	Bin       bool      `json:"bin,omitempty"`
	Sort      string    `json:"sort,omitempty"`
	Title     string    `json:"title,omitempty"`
}

// ChartSpec is a renderer-agnostic chart description.
type ChartSpec struct {
	Mark        string  `json:"mark"`
	Interpolate string  `json:"interpolate,omitempty"`
	X           Channel `json:"x"`
	Y           Channel `json:"y"`
}

// Binding records which columns a recommendation uses. Exactly one of the
// types in this package implements it per Kind.
type Binding interface {
	Kind() Kind
	Columns() []string
	chart() ChartSpec
}

// TimeSeriesBinding plots a metric over a date column.
type TimeSeriesBinding struct {
	Date   string `json:"date"`
	Metric string `json:"metric"`
}

func (TimeSeriesBinding) Kind() Kind { return TimeSeries }

func (b TimeSeriesBinding) Columns() []string { return []string{b.Date, b.Metric} }

func (b TimeSeriesBinding) chart() ChartSpec {
	return ChartSpec{
		Mark:        "line",
		Interpolate: "monotone",
		X:           Channel{Field: b.Date, Role: Temporal},
		Y:           Channel{Field: b.Metric, Role: Quantitative},
	}
}

// BarBinding sums a metric per category.
type BarBinding struct {
	Category string `json:"category"`
	Metric   string `json:"metric"`
}

func (BarBinding) Kind() Kind { return Bar }

func (b BarBinding) Columns() []string { return []string{b.Category, b.Metric} }

func (b BarBinding) chart() ChartSpec {
	return ChartSpec{
		Mark: "bar",
		X:    Channel{Field: b.Category, Role: Nominal, Sort: "-y"},
		Y:    Channel{Field: b.Metric, Role: Quantitative, Aggregate: Sum, Title: "Sum of " + b.Metric},
	}
}

// HistogramBinding bins a single metric.
type HistogramBinding struct {
	Metric string `json:"metric"`
}

func (HistogramBinding) Kind() Kind { return Histogram }

func (b HistogramBinding) Columns() []string { return []string{b.Metric} }

func (b HistogramBinding) chart() ChartSpec {
	return ChartSpec{
		Mark: "bar",
		X:    Channel{Field: b.Metric, Role: Quantitative, Bin: true},
		Y:    Channel{Role: Quantitative, Aggregate: Count, Title: "Count"},
	}
}

// ScatterBinding relates two metrics.
type ScatterBinding struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func (ScatterBinding) Kind() Kind { return Scatter }

func (b ScatterBinding) Columns() []string { return []string{b.X, b.Y} }

func (b ScatterBinding) chart() ChartSpec {
	return ChartSpec{
		Mark: "point",
		X:    Channel{Field: b.X, Role: Quantitative},
		Y:    Channel{Field: b.Y, Role: Quantitative},
	}
}

// Recommendation is a suggested chart for a profiled table.
type Recommendation struct {
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Rationale string    `json:"rationale"`
	Binding   Binding   `json:"binding"`
	Chart     ChartSpec `json:"chart"`

	// Caption is an optional natural language description.
	Caption string `json:"caption,omitempty"`
}

func newRecommendation(b Binding, title, rationale string) Recommendation {
	return Recommendation{
		Kind:      b.Kind(),
		Title:     title,
		Rationale: rationale,
		Binding:   b,
		Chart:     b.chart(),
	}
}
