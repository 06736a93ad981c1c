package insights

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/GoogleCloudPlatform/table-insights/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, Absent},
		{math.NaN(), Absent},
		{"abc", Absent},
		{0, "0"},
		{677, "677"},
		{12.5, "12.5"},
		{2000, "2.0K"},
		{-1500, "-1.5K"},
		{2_500_000, "2.5M"},
		{7_000_000_000.0, "7.0B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PrettyNumber(tt.in), "PrettyNumber(%v)", tt.in)
	}
}

func analyzedSales(t *testing.T) *TableInsight {
	t.Helper()
	res := profile.ProfileTable(salesTable())
	return &TableInsight{
		Table:           "sales",
		Profile:         res.Profile,
		Recommendations: recommend.Recommend(res.Profile),
	}
}

func TestFormatInsightsAsText(t *testing.T) {
	assert.Equal(t, "No tables found.\n", FormatInsightsAsText(nil))

	in := analyzedSales(t)
	in.Dropped = []string{"discount"}
	in.Recommendations[0].Caption = "Revenue by day."
	text := FormatInsightsAsText([]*TableInsight{in})

	assert.Contains(t, text, "--- Table: sales ---")
	assert.Contains(t, text, "Rows: 3  Columns: 3")
	assert.Contains(t, text, "Column: revenue (number)")
	assert.Contains(t, text, "min 10, max 30, mean 20")
	assert.Contains(t, text, "Column: order_date (date)")
	assert.Contains(t, text, "from 2024-01-01T00:00:00.000Z to 2024-01-03T00:00:00.000Z")
	assert.Contains(t, text, "top north (2), south (1)")
	assert.Contains(t, text, "[Not profiled]: discount")
	assert.Contains(t, text, "1. [timeseries] revenue over time")
	assert.Contains(t, text, "Auto: detected date (order_date) + metric (revenue).")
	assert.Contains(t, text, "Revenue by day.")
}

func TestFormatWithoutRecommendations(t *testing.T) {
	in := analyzedSales(t)
	in.Recommendations = nil
	assert.NotContains(t, FormatInsightsAsText([]*TableInsight{in}), "Recommendations")

	in.Recommendations = []recommend.Recommendation{}
	assert.Contains(t, FormatInsightsAsText([]*TableInsight{in}), "No chart recommendations.")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Report{Source: "sales.csv"}))
	assert.JSONEq(t, `{"source":"sales.csv","tables":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, Report{Source: "sales.csv", Tables: []*TableInsight{analyzedSales(t)}}))

	var decoded struct {
		Tables []struct {
			Table   string `json:"table"`
			Profile struct {
				RowCount  int `json:"row_count"`
				Summaries map[string]struct {
					Type string `json:"type"`
				} `json:"summaries"`
			} `json:"profile"`
			Recommendations []struct {
				Kind  string `json:"kind"`
				Title string `json:"title"`
			} `json:"recommendations"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Tables, 1)
	assert.Equal(t, "sales", decoded.Tables[0].Table)
	assert.Equal(t, 3, decoded.Tables[0].Profile.RowCount)
	assert.Equal(t, "number", decoded.Tables[0].Profile.Summaries["revenue"].Type)
	assert.Equal(t, "timeseries", decoded.Tables[0].Recommendations[0].Kind)
}
