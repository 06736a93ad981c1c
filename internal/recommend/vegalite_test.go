package recommend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVegaLiteTimeSeries(t *testing.T) {
	rec := newRecommendation(TimeSeriesBinding{Date: "day", Metric: "sales"}, "sales over time", "why")
	b, err := json.Marshal(rec.VegaLite("orders"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"$schema": "https://vega.github.io/schema/vega-lite/v5.json",
		"title": "sales over time",
		"description": "why",
		"width": "container",
		"height": 260,
		"data": {"name": "orders"},
		"mark": {"type": "line", "interpolate": "monotone"},
		"encoding": {
			"x": {"field": "day", "type": "temporal"},
			"y": {"field": "sales", "type": "quantitative"}
		}
	}`, string(b))
}

func TestVegaLiteHistogram(t *testing.T) {
	doc := HistogramBinding{Metric: "age"}.chart().VegaLite("people")

	assert.Equal(t, "bar", doc["mark"])
	enc := doc["encoding"].(map[string]any)
	assert.Equal(t, map[string]any{"field": "age", "type": "quantitative", "bin": true}, enc["x"])
	assert.Equal(t, map[string]any{"type": "quantitative", "aggregate": "count", "title": "Count"}, enc["y"])
}

func TestVegaLiteBar(t *testing.T) {
	doc := BarBinding{Category: "region", Metric: "sales"}.chart().VegaLite("t")
	enc := doc["encoding"].(map[string]any)
	assert.Equal(t, map[string]any{"field": "region", "type": "nominal", "sort": "-y"}, enc["x"])
	assert.Equal(t, "sum", enc["y"].(map[string]any)["aggregate"])
}
