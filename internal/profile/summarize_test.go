package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNumber(t *testing.T) {
	values := Coerce([]any{1, "2,000", "$30", nil, "bad"}, Number)
	s := Summarize(values, Number)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 2, s.Missing)
	require.NotNil(t, s.Number)
	assert.Equal(t, 1.0, s.Number.Min)
	assert.Equal(t, 2000.0, s.Number.Max)
	assert.InDelta(t, 677.0, s.Number.Mean, 1e-9)
	assert.Nil(t, s.Top)
	assert.Nil(t, s.Dates)
}

func TestSummarizeNumberMeanIsExact(t *testing.T) {
	s := Summarize([]any{0.1, 0.2, 0.3}, Number)
	require.NotNil(t, s.Number)
	assert.Equal(t, 0.2, s.Number.Mean)
}

func TestSummarizeEmptyColumns(t *testing.T) {
	for _, typ := range []SemanticType{String, Boolean, Date, Number} {
		s := Summarize([]any{nil, nil}, typ)
		assert.Equal(t, 2, s.Count, typ.String())
		assert.Equal(t, 2, s.Missing, typ.String())
		assert.Nil(t, s.Number, typ.String())
		assert.Nil(t, s.Top, typ.String())
		assert.Nil(t, s.Dates, typ.String())
	}
}

func TestSummarizeTopValues(t *testing.T) {
	values := []any{"b", "a", "c", "a", "d", "b", "a", nil}
	s := Summarize(values, String)

	assert.Equal(t, []Frequency{
		{Value: "a", Count: 3},
		{Value: "b", Count: 2},
		{Value: "c", Count: 1},
	}, s.Top)
	assert.Equal(t, 1, s.Missing)
}

func TestSummarizeBoolean(t *testing.T) {
	s := Summarize([]any{false, true, true, nil}, Boolean)
	assert.Equal(t, []Frequency{
		{Value: true, Count: 2},
		{Value: false, Count: 1},
	}, s.Top)
}

func TestSummarizeDates(t *testing.T) {
	values := Coerce([]any{"2024-03-01", "2023-12-31", nil, "2024-01-15"}, Date)
	s := Summarize(values, Date)

	require.NotNil(t, s.Dates)
	assert.Equal(t, "2023-12-31T00:00:00.000Z", s.Dates.Min)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", s.Dates.Max)
	assert.Equal(t, 1, s.Missing)
}

func TestSummarizeMissingPlusCleanIsCount(t *testing.T) {
	columns := map[SemanticType][]any{
		Boolean: {"y", "n", "?", nil},
		Number:  {"1", "x", nil, 4},
		Date:    {"2024-01-01", "later", ""},
		String:  {"a", "", nil, "b"},
	}
	for typ, raw := range columns {
		coerced := Coerce(raw, typ)
		clean := 0
		for _, v := range coerced {
			if v != nil {
				clean++
			}
		}
		s := Summarize(coerced, typ)
		assert.Equal(t, s.Count, s.Missing+clean, typ.String())
		assert.Equal(t, len(raw), s.Count, typ.String())
	}
}
