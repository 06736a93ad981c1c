package sqlserver

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQLServerDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &database.DB{Pool: mockDb, Handler: sqlServerHandler{}, Config: config.DatabaseConfig{Dialect: "sqlserver"}}, mock
}

func TestSQLServerQuoteIdentifier(t *testing.T) {
	h := sqlServerHandler{}
	assert.Equal(t, "[orders]", h.QuoteIdentifier("orders"))
	assert.Equal(t, "[a]]b]", h.QuoteIdentifier("a]b"))
}

func TestSQLServerSampleQuery(t *testing.T) {
	h := sqlServerHandler{}
	assert.Equal(t, "SELECT TOP 25 [id], [total] FROM [orders]", h.SampleQuery("orders", []string{"id", "total"}, 25))
	assert.Equal(t, "SELECT [id] FROM [orders]", h.SampleQuery("orders", []string{"id"}, 0))
}

func TestSQLServerListColumnsAndSample(t *testing.T) {
	db, mock := newMockSQLServerDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = @p1")).
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE"}).
			AddRow("id", "int").
			AddRow("paid", "bit"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT TOP 3 [id], [paid] FROM [orders]")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "paid"}).AddRow(int64(1), true))

	set, err := db.SampleRows(context.Background(), "orders", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "paid"}, set.Columns)
	assert.Equal(t, [][]any{{int64(1), true}}, set.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLServerListTables(t *testing.T) {
	db, mock := newMockSQLServerDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("orders").AddRow("refunds"))

	tables, err := sqlServerHandler{}.ListTables(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "refunds"}, tables)
}
