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

const (
	VegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"
	chartHeight    = 260
)

// VegaLite renders the chart as a Vega-Lite document bound to the named
// data source.
func (c ChartSpec) VegaLite(dataName string) map[string]any {
	var mark any = c.Mark
	if c.Interpolate != "" {
		mark = map[string]any{"type": c.Mark, "interpolate": c.Interpolate}
	}
	return map[string]any{
		"$schema": VegaLiteSchema,
		"width":   "container",
		"height":  chartHeight,
		"data":    map[string]any{"name": dataName},
		"mark":    mark,
		"encoding": map[string]any{
			"x": c.X.vegaLite(),
			"y": c.Y.vegaLite(),
		},
	}
}

func (ch Channel) vegaLite() map[string]any {
	enc := map[string]any{"type": string(ch.Role)}
	if ch.Field != "" {
		enc["field"] = ch.Field
	}
	if ch.Aggregate != NoAggregate {
		enc["aggregate"] = string(ch.Aggregate)
	}
	if ch.Bin {
		enc["bin"] = true
	}
	if ch.Sort != "" {
		enc["sort"] = ch.Sort
	}
	if ch.Title != "" {
		enc["title"] = ch.Title
	}
	return enc
}

// VegaLite renders the recommendation's chart with its title.
func (r Recommendation) VegaLite(dataName string) map[string]any {
	doc := r.Chart.VegaLite(dataName)
	doc["title"] = r.Title
	if r.Rationale != "" {
		doc["description"] = r.Rationale
	}
	return doc
}
