package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a mock DB and handler for testing
func newMockPostgresDB(t *testing.T) (*database.DB, sqlmock.Sqlmock, *postgresHandler) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	handler := postgresHandler{}
	db := &database.DB{
		Pool:    mockDb,
		Handler: &handler,
		Config:  config.DatabaseConfig{Dialect: "postgres"},
	}
	return db, mock, &handler
}

func TestPostgresQuoteIdentifier(t *testing.T) {
	handler := postgresHandler{}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Simple name", "mytable", `"mytable"`},
		{"Name with spaces", "my table", `"my table"`},
		{"Name with quotes", `my"table`, `"my""table"`},
		{"Empty name", "", `""`},
		{"Keyword", "user", `"user"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.QuoteIdentifier(tt.in))
		})
	}
}

func TestPostgresListTables(t *testing.T) {
	db, mock, handler := newMockPostgresDB(t)
	defer db.Close()
	ctx := context.Background()

	query := regexp.QuoteMeta(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND table_type = 'BASE TABLE'
		ORDER BY table_name;`)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"table_name"}).
			AddRow("orders").
			AddRow("products")
		mock.ExpectQuery(query).WillReturnRows(rows)

		tables, err := handler.ListTables(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, []string{"orders", "products"}, tables)
	})

	t.Run("Query error", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

		_, err := handler.ListTables(ctx, db)
		assert.ErrorContains(t, err, "error querying tables")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListColumns(t *testing.T) {
	db, mock, handler := newMockPostgresDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"column_name", "data_type"}).
		AddRow("order_date", "date").
		AddRow("revenue", "numeric")
	mock.ExpectQuery(`SELECT column_name, data_type\s+FROM information_schema.columns`).
		WithArgs("orders").
		WillReturnRows(rows)

	columns, err := handler.ListColumns(context.Background(), db, "orders")
	require.NoError(t, err)
	assert.Equal(t, []database.ColumnInfo{
		{Name: "order_date", DataType: "date"},
		{Name: "revenue", DataType: "numeric"},
	}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSampleQuery(t *testing.T) {
	handler := postgresHandler{}
	assert.Equal(t, `SELECT "a", "b c" FROM "my table" LIMIT 50`, handler.SampleQuery("my table", []string{"a", "b c"}, 50))
	assert.Equal(t, `SELECT "a" FROM "t"`, handler.SampleQuery("t", []string{"a"}, 0))
}

func TestPostgresSampleRows(t *testing.T) {
	db, mock, _ := newMockPostgresDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT column_name, data_type`).WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("order_date", "date").
			AddRow("revenue", "numeric"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "order_date", "revenue" FROM "orders" LIMIT 2`)).
		WillReturnRows(sqlmock.NewRows([]string{"order_date", "revenue"}).
			AddRow("2024-01-01", []byte("12.50")).
			AddRow("2024-01-02", []byte("8.00")))

	set, err := db.SampleRows(context.Background(), "orders", 2)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"2024-01-01", "12.50"}, {"2024-01-02", "8.00"}}, set.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistered(t *testing.T) {
	for _, dialect := range []string{"postgres", "cloudsqlpostgres"} {
		h, err := database.GetDialectHandler(dialect)
		require.NoError(t, err)
		assert.IsType(t, postgresHandler{}, h)
	}
}
