package source

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoogleCloudPlatform/table-insights/internal/database"
	_ "github.com/GoogleCloudPlatform/table-insights/internal/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	handler, err := database.GetDialectHandler("postgres")
	require.NoError(t, err)
	return NewDatabase(&database.DB{Pool: mockDb, Handler: handler}), mock
}

func TestDatabaseSource(t *testing.T) {
	src, mock := newMockDatabase(t)
	defer src.Close()
	ctx := context.Background()

	mock.ExpectQuery("SELECT table_name").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))
	names, err := src.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, names)

	mock.ExpectQuery("SELECT column_name, data_type").WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("day", "date").
			AddRow("total", "numeric"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "day", "total" FROM "orders" LIMIT 10`)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "total"}).
			AddRow("2024-01-01", []byte("9.99")))

	table, err := src.LoadTable(ctx, "orders", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"day", "total"}, table.Columns())
	assert.Equal(t, []any{"9.99"}, table.Column("total"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseSourceMissingTable(t *testing.T) {
	src, mock := newMockDatabase(t)
	defer src.Close()

	mock.ExpectQuery("SELECT column_name, data_type").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}))

	_, err := src.LoadTable(context.Background(), "ghost", 0)
	assert.ErrorIs(t, err, ErrTableNotFound)
}
