package mysql

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

func newMockMySQLDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &database.DB{Pool: mockDb, Handler: mysqlHandler{}, Config: config.DatabaseConfig{Dialect: "mysql"}}, mock
}

func TestMySQLQuoteIdentifier(t *testing.T) {
	h := mysqlHandler{}
	assert.Equal(t, "`orders`", h.QuoteIdentifier("orders"))
	assert.Equal(t, "`we``ird`", h.QuoteIdentifier("we`ird"))
}

func TestMySQLListTables(t *testing.T) {
	db, mock := newMockMySQLDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE()")).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("customers"))

	tables, err := mysqlHandler{}.ListTables(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLListColumns(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(sqlmock.Sqlmock)
		want      []database.ColumnInfo
		wantErr   string
	}{
		{
			name: "Success",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COLUMN_NAME, COLUMN_TYPE\s+FROM information_schema\.COLUMNS`).
					WithArgs("customers").
					WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE"}).
						AddRow("id", "int(11)").
						AddRow("joined", "datetime"))
			},
			want: []database.ColumnInfo{{Name: "id", DataType: "int(11)"}, {Name: "joined", DataType: "datetime"}},
		},
		{
			name: "Query error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COLUMN_NAME`).WithArgs("customers").WillReturnError(errors.New("boom"))
			},
			wantErr: "error querying columns for table customers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockMySQLDB(t)
			defer db.Close()
			tt.mockSetup(mock)

			got, err := mysqlHandler{}.ListColumns(context.Background(), db, "customers")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMySQLSampleQuery(t *testing.T) {
	assert.Equal(t, "SELECT `id`, `name` FROM `customers` LIMIT 10",
		mysqlHandler{}.SampleQuery("customers", []string{"id", "name"}, 10))
}

func TestMySQLCloudSQLRequiresParameters(t *testing.T) {
	_, err := mysqlHandler{}.CreateCloudSQLPool(config.DatabaseConfig{Dialect: "cloudsqlmysql", User: "u"})
	assert.ErrorContains(t, err, "missing required CloudSQL connection parameter")
}
