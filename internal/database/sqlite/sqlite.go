/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/database"
	_ "modernc.org/sqlite"
)

// sqliteHandler implements database.DialectHandler for SQLite files. The
// database name is the path of the file.
type sqliteHandler struct{}

var _ database.DialectHandler = (*sqliteHandler)(nil)

func (h sqliteHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	return nil, errors.New("sqlite does not support Cloud SQL connections")
}

func (h sqliteHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.DBName == "" {
		return nil, errors.New("sqlite requires a database file path")
	}
	dbPool, err := sql.Open("sqlite", "file:"+cfg.DBName+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("sql.Open (sqlite): %w", err)
	}
	return dbPool, nil
}

func (h sqliteHandler) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (h sqliteHandler) ListTables(ctx context.Context, db *database.DB) ([]string, error) {
	query := "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	return db.QueryNames(ctx, query)
}

func (h sqliteHandler) ListColumns(ctx context.Context, db *database.DB, tableName string) ([]database.ColumnInfo, error) {
	query := "SELECT name, type FROM pragma_table_info(?) ORDER BY cid"
	return db.QueryColumns(ctx, tableName, query, tableName)
}

func (h sqliteHandler) SampleQuery(tableName string, columns []string, limit int) string {
	query := fmt.Sprintf("SELECT %s FROM %s", database.SelectList(h, columns), h.QuoteIdentifier(tableName))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return query
}

func init() {
	database.RegisterDialectHandler("sqlite", sqliteHandler{})
}
