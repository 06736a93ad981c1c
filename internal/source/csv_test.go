package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	path := writeFile(t, "sales.csv", "\ufeffregion, revenue ,\nnorth,\"$1,200\",x\nsouth\nwest,300,y,extra\n")
	src := NewCSV(path, ',')
	ctx := context.Background()

	names, err := src.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, names)

	table, err := src.LoadTable(ctx, "sales", 0)
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"region", "revenue", "column_3"}, table.Columns())
	assert.Equal(t, []any{"$1,200", nil, "300"}, values(t, table, "revenue"))
	assert.Equal(t, []string{"region", "revenue", "column_3", "column_4"}, table[2].Keys())
}

func TestCSVLimit(t *testing.T) {
	path := writeFile(t, "n.csv", "n\n1\n2\n3\n")
	table, err := NewCSV(path, ',').LoadTable(context.Background(), "n", 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2"}, table.Column("n"))
}

func TestCSVErrors(t *testing.T) {
	ctx := context.Background()

	empty, err := NewCSV(writeFile(t, "empty.csv", ""), ',').LoadTable(ctx, "empty", 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = NewCSV(writeFile(t, "a.csv", "x\n1\n"), ',').LoadTable(ctx, "b", 0)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = NewCSV("/does/not/exist.csv", ',').ListTables(ctx)
	assert.ErrorContains(t, err, "failed to open")
}
