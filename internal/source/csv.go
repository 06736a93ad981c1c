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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
)

// NewCSV returns a Source holding the single delimited table in path, named
// after the file.
func NewCSV(path string, comma rune) Source {
	return &fileSource{
		path: path,
		parse: func(path string, limit int) ([]namedTable, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			table, err := readDelimited(f, comma, limit)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return []namedTable{{name: tableName(path), table: table}}, nil
		},
	}
}

func readDelimited(r io.Reader, comma rune, limit int) (profile.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return profile.Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records [][]string
	for limit <= 0 || len(records) < limit {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return rowsFromRecords(normalizeHeader(header), records, 0), nil
}
