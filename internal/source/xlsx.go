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
	"fmt"
	"slices"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/xuri/excelize/v2"
)

// XLSX serves the sheets of a workbook as tables. The first row of each
// sheet is its header.
type XLSX struct {
	file *excelize.File
}

var _ Source = (*XLSX)(nil)

// OpenXLSX opens a workbook.
func OpenXLSX(path string) (*XLSX, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &XLSX{file: f}, nil
}

func (x *XLSX) ListTables(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return x.file.GetSheetList(), nil
}

func (x *XLSX) LoadTable(ctx context.Context, name string, limit int) (profile.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !slices.Contains(x.file.GetSheetList(), name) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	rows, err := x.file.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", ErrUnreadableFile, name, err)
	}
	defer rows.Close()

	var header []string
	var records [][]string
	for rows.Next() {
		if limit > 0 && len(records) == limit {
			break
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read sheet %s: %w", ErrUnreadableFile, name, err)
		}
		if header == nil {
			if len(cols) == 0 {
				continue
			}
			header = normalizeHeader(cols)
			continue
		}
		records = append(records, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", ErrUnreadableFile, name, err)
	}
	if header == nil {
		return profile.Table{}, nil
	}
	return rowsFromRecords(header, records, 0), nil
}

func (x *XLSX) Close() error {
	return x.file.Close()
}
