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
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoogleCloudPlatform/table-insights/internal/database"
	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
)

// Database serves the tables of a relational database.
type Database struct {
	db database.DBAdapter
}

var _ Source = (*Database)(nil)

// NewDatabase wraps an open database connection.
func NewDatabase(db database.DBAdapter) *Database {
	return &Database{db: db}
}

func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	return d.db.ListTables(ctx)
}

func (d *Database) LoadTable(ctx context.Context, name string, limit int) (profile.Table, error) {
	set, err := d.db.SampleRows(ctx, name, limit)
	if errors.Is(err, database.ErrNoColumns) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	table := make(profile.Table, len(set.Rows))
	for i, values := range set.Rows {
		table[i] = profile.RowOf(set.Columns, values)
	}
	return table, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
