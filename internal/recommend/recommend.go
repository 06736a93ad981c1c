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
	"fmt"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
)

// MaxRecommendations caps the length of Recommend's result.
const MaxRecommendations = 6

// schema groups a profile's columns by role, each in table order.
type schema struct {
	dates       []string
	numbers     []string
	categorical []string
}

func newSchema(p *profile.Profile) schema {
	return schema{
		dates:       p.ColumnsOfType(profile.Date.Is),
		numbers:     p.ColumnsOfType(profile.Number.Is),
		categorical: p.ColumnsOfType(profile.SemanticType.IsCategorical),
	}
}

type rule struct {
	kind  Kind
	apply func(s schema) (Recommendation, bool)
}

// rules are evaluated in order; each contributes at most one recommendation.
var rules = []rule{
	{TimeSeries, func(s schema) (Recommendation, bool) {
		if len(s.dates) == 0 || len(s.numbers) == 0 {
			return Recommendation{}, false
		}
		d, n := s.dates[0], s.numbers[0]
		return newRecommendation(TimeSeriesBinding{Date: d, Metric: n},
			fmt.Sprintf("%s over time", n),
			fmt.Sprintf("Auto: detected date (%s) + metric (%s).", d, n)), true
	}},
	{Bar, func(s schema) (Recommendation, bool) {
		if len(s.categorical) == 0 || len(s.numbers) == 0 {
			return Recommendation{}, false
		}
		c, n := s.categorical[0], s.numbers[0]
		return newRecommendation(BarBinding{Category: c, Metric: n},
			fmt.Sprintf("%s by %s", n, c),
			fmt.Sprintf("Auto: detected category (%s) + metric (%s).", c, n)), true
	}},
	{Histogram, func(s schema) (Recommendation, bool) {
		if len(s.numbers) == 0 {
			return Recommendation{}, false
		}
		n := s.numbers[0]
		return newRecommendation(HistogramBinding{Metric: n},
			fmt.Sprintf("Distribution of %s", n),
			fmt.Sprintf("Auto: numeric distribution of %s.", n)), true
	}},
	{Scatter, func(s schema) (Recommendation, bool) {
		if len(s.numbers) < 2 {
			return Recommendation{}, false
		}
		x, y := s.numbers[0], s.numbers[1]
		return newRecommendation(ScatterBinding{X: x, Y: y},
			fmt.Sprintf("%s vs %s", y, x),
			fmt.Sprintf("Auto: relationship between two metrics (%s, %s).", x, y)), true
	}},
}

// Recommend returns chart recommendations for p in rule priority order.
// The result is never nil and holds at most MaxRecommendations entries.
func Recommend(p *profile.Profile) []Recommendation {
	out := []Recommendation{}
	if p == nil {
		return out
	}
	s := newSchema(p)
	for _, r := range rules {
		if len(out) == MaxRecommendations {
			break
		}
		if rec, ok := r.apply(s); ok {
			out = append(out, rec)
		}
	}
	return out
}
