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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
)

// NewJSON returns a Source for a JSON file. The file is either an array of
// objects, holding one table named after the file, or an object mapping
// table names to arrays of objects. Object key order becomes column order.
func NewJSON(path string) Source {
	return &fileSource{
		path: path,
		parse: func(path string, limit int) ([]namedTable, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			tables, err := readJSON(f, tableName(path), limit)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return tables, nil
		},
	}
}

func readJSON(r io.Reader, defaultName string, limit int) ([]namedTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok {
	case json.Delim('['):
		table, err := readRows(dec, limit)
		if err != nil {
			return nil, err
		}
		return []namedTable{{name: defaultName, table: table}}, nil
	case json.Delim('{'):
		var tables []namedTable
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, _ := key.(string)
			if err := expectDelim(dec, '['); err != nil {
				return nil, fmt.Errorf("table %q: %w", name, err)
			}
			table, err := readRows(dec, limit)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", name, err)
			}
			tables = append(tables, namedTable{name: name, table: table})
		}
		return tables, nil
	}
	return nil, errors.New("expected an array of objects or an object of arrays")
}

// readRows reads the objects of an array whose opening bracket has been
// consumed, through the closing bracket.
func readRows(dec *json.Decoder, limit int) (profile.Table, error) {
	var table profile.Table
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		row, err := readObject(dec)
		if err != nil {
			return nil, err
		}
		if limit <= 0 || len(table) < limit {
			table = append(table, row)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return table, nil
}

// readObject reads the members of an object whose opening brace has been
// consumed. Nested values are decoded whole.
func readObject(dec *json.Decoder) (*profile.Row, error) {
	row := profile.NewRow()
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		row.Set(key.(string), v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return row, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
