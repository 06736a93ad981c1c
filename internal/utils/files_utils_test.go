package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTablesFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string][]string
		wantErr bool
	}{
		{"Empty", "", map[string][]string{}, false},
		{"Tables only", "orders,customers", map[string][]string{"orders": nil, "customers": nil}, false},
		{"Columns", "orders[id, revenue],customers", map[string][]string{"orders": {"id", "revenue"}, "customers": nil}, false},
		{"Sheet names keep spaces", "Q1 Sales[Order Date,Amount]", map[string][]string{"Q1 Sales": {"Order Date", "Amount"}}, false},
		{"Empty brackets", "orders[]", map[string][]string{"orders": nil}, false},
		{"Missing bracket", "orders[id", nil, true},
		{"Trailing text", "orders[id]x", nil, true},
		{"Missing table", "[id]", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTablesFlag(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitOutsideBrackets(t *testing.T) {
	assert.Equal(t, []string{"a[x,y]", "b", "c[z]"}, SplitOutsideBrackets("a[x,y],b,c[z]"))
	assert.Nil(t, SplitOutsideBrackets(""))
}

func TestReadContextFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "glossary.md")
	second := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(first, []byte("revenue is in USD"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("one row per order"), 0o644))

	got, err := ReadContextFiles(first + ", " + second)
	require.NoError(t, err)
	assert.Contains(t, got, "-- Context from file: "+first+" --\nrevenue is in USD")
	assert.Contains(t, got, "one row per order")

	empty, err := ReadContextFiles("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ReadContextFiles(filepath.Join(dir, "missing.md"))
	assert.ErrorContains(t, err, "failed to read context file")
}

func TestGetDefaultOutputFilePath(t *testing.T) {
	assert.Equal(t, "sales_profile.txt", GetDefaultOutputFilePath("data/sales.csv", "profile", "text"))
	assert.Equal(t, "sales_recommendations.json", GetDefaultOutputFilePath("sales.csv", "recommend", "json"))
	assert.Equal(t, "shop_db_profile.json", GetDefaultOutputFilePath("shop db", "profile", "json"))
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "Q1_Sales", SafeFileName("Q1 Sales"))
	assert.Equal(t, "table", SafeFileName("///"))
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.txt")
	require.NoError(t, WriteOutput(path, []byte("ok\n")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(content))
}
