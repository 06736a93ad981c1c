package recommend

import (
	"encoding/json"
	"testing"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type column struct {
	name string
	typ  profile.SemanticType
}

func profileOf(cols ...column) *profile.Profile {
	p := profile.NewProfile()
	for _, c := range cols {
		p.Columns = append(p.Columns, c.name)
		p.Summaries[c.name] = profile.ColumnSummary{Type: c.typ}
	}
	p.ColumnCount = len(cols)
	return p
}

func kinds(recs []Recommendation) []Kind {
	var out []Kind
	for _, r := range recs {
		out = append(out, r.Kind)
	}
	return out
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name string
		cols []column
		want []Kind
	}{
		{"Date and number", []column{{"order_date", profile.Date}, {"revenue", profile.Number}}, []Kind{TimeSeries, Histogram}},
		{"Two numbers", []column{{"price", profile.Number}, {"qty", profile.Number}}, []Kind{Histogram, Scatter}},
		{"Category and number", []column{{"region", profile.String}, {"sales", profile.Number}}, []Kind{Bar, Histogram}},
		{"Boolean is categorical", []column{{"paid", profile.Boolean}, {"amount", profile.Number}}, []Kind{Bar, Histogram}},
		{"All rules", []column{
			{"region", profile.String},
			{"day", profile.Date},
			{"a", profile.Number},
			{"b", profile.Number},
		}, []Kind{TimeSeries, Bar, Histogram, Scatter}},
		{"Only strings", []column{{"name", profile.String}}, nil},
		{"Only dates", []column{{"d", profile.Date}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(Recommend(profileOf(tt.cols...))))
		})
	}
}

func TestRecommendDateAndRevenueHasOneTimeSeries(t *testing.T) {
	recs := Recommend(profileOf(column{"order_date", profile.Date}, column{"revenue", profile.Number}))

	var series []Recommendation
	for _, r := range recs {
		if r.Kind == TimeSeries {
			series = append(series, r)
		}
	}
	require.Len(t, series, 1)
	assert.Equal(t, "revenue over time", series[0].Title)
	assert.Equal(t, TimeSeriesBinding{Date: "order_date", Metric: "revenue"}, series[0].Binding)
	assert.Contains(t, series[0].Rationale, "order_date")
	assert.Contains(t, series[0].Rationale, "revenue")
}

func TestRecommendUsesFirstDeclaredColumns(t *testing.T) {
	recs := Recommend(profileOf(
		column{"units", profile.Number},
		column{"city", profile.String},
		column{"price", profile.Number},
		column{"country", profile.String},
	))
	require.Len(t, recs, 3)
	assert.Equal(t, BarBinding{Category: "city", Metric: "units"}, recs[0].Binding)
	assert.Equal(t, "units by city", recs[0].Title)
	assert.Equal(t, "Distribution of units", recs[1].Title)
	assert.Equal(t, ScatterBinding{X: "units", Y: "price"}, recs[2].Binding)
	assert.Equal(t, "price vs units", recs[2].Title)
}

func TestRecommendEmpty(t *testing.T) {
	recs := Recommend(nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	recs = Recommend(profile.NewProfile())
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendNeverExceedsMax(t *testing.T) {
	var cols []column
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		cols = append(cols, column{name, profile.Number}, column{name + "_d", profile.Date}, column{name + "_s", profile.String})
	}
	assert.LessOrEqual(t, len(Recommend(profileOf(cols...))), MaxRecommendations)
}

func TestEveryKindHasRule(t *testing.T) {
	covered := make(map[Kind]bool)
	for _, r := range rules {
		covered[r.kind] = true
	}
	for _, k := range Kinds {
		assert.True(t, covered[k], "no rule for %s", k)
	}
	assert.Len(t, rules, len(Kinds))
}

func TestRuleKindMatchesBinding(t *testing.T) {
	s := schema{
		dates:       []string{"d"},
		numbers:     []string{"x", "y"},
		categorical: []string{"c"},
	}
	for _, r := range rules {
		rec, ok := r.apply(s)
		require.True(t, ok, r.kind.String())
		assert.Equal(t, r.kind, rec.Kind)
		assert.Equal(t, r.kind, rec.Binding.Kind())
	}
}

func TestChartSpecs(t *testing.T) {
	recs := Recommend(profileOf(
		column{"region", profile.String},
		column{"day", profile.Date},
		column{"a", profile.Number},
		column{"b", profile.Number},
	))
	require.Len(t, recs, 4)

	assert.Equal(t, ChartSpec{
		Mark:        "line",
		Interpolate: "monotone",
		X:           Channel{Field: "day", Role: Temporal},
		Y:           Channel{Field: "a", Role: Quantitative},
	}, recs[0].Chart)
	assert.Equal(t, Channel{Field: "a", Role: Quantitative, Aggregate: Sum, Title: "Sum of a"}, recs[1].Chart.Y)
	assert.Equal(t, "-y", recs[1].Chart.X.Sort)
	assert.True(t, recs[2].Chart.X.Bin)
	assert.Equal(t, Count, recs[2].Chart.Y.Aggregate)
	assert.Equal(t, "point", recs[3].Chart.Mark)
}

func TestRecommendationJSON(t *testing.T) {
	recs := Recommend(profileOf(column{"price", profile.Number}, column{"qty", profile.Number}))
	b, err := json.Marshal(recs[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "scatter",
		"title": "qty vs price",
		"rationale": "Auto: relationship between two metrics (price, qty).",
		"binding": {"x": "price", "y": "qty"},
		"chart": {
			"mark": "point",
			"x": {"field": "price", "role": "quantitative"},
			"y": {"field": "qty", "role": "quantitative"}
		}
	}`, string(b))
}
