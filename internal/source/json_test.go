package source

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONArray(t *testing.T) {
	path := writeFile(t, "orders.json", `[
		{"z_date": "2024-01-01", "amount": 12.5, "paid": true, "meta": {"k": 1}},
		{"z_date": "2024-01-02", "amount": null, "paid": false},
		{"amount": 3, "z_date": "2024-01-03", "note": "late"}
	]`)
	table, err := NewJSON(path).LoadTable(context.Background(), "orders", 0)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, []string{"z_date", "amount", "paid", "meta"}, table.Columns())
	assert.Equal(t, []any{json.Number("12.5"), nil, json.Number("3")}, table.Column("amount"))
	assert.Equal(t, []string{"amount", "z_date", "note"}, table[2].Keys())
}

func TestJSONObjectOfTables(t *testing.T) {
	path := writeFile(t, "book.json", `{"b": [{"x": 1}, {"x": 2}, {"x": 3}], "a": [{"y": "q"}]}`)
	src := NewJSON(path)
	ctx := context.Background()

	names, err := src.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)

	table, err := src.LoadTable(ctx, "b", 2)
	require.NoError(t, err)
	assert.Len(t, table, 2)
}

func TestJSONMalformed(t *testing.T) {
	for _, content := range []string{`"text"`, `[1, 2]`, `{"t": {"x": 1}}`, `[{"a": 1}`} {
		_, err := readJSON(strings.NewReader(content), "t", 0)
		assert.Error(t, err, content)
	}
}

func TestJSONMalformedFile(t *testing.T) {
	src := NewJSON(writeFile(t, "t.json", `{"t": [{"a": 1}, {"a": }]}`))
	_, err := src.LoadTable(context.Background(), "t", 0)
	assert.ErrorIs(t, err, ErrUnreadableFile)
}
