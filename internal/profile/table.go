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
package profile

import (
	"bytes"
	"encoding/json"
)

// Row is a single record keyed by column name. Keys keep the order in which
// they were first set. Setting an existing key replaces its value but keeps
// its position, so duplicate column names resolve to the last value written.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// RowOf builds a row from parallel key and value slices. Missing values are
// filled with nil.
func RowOf(keys []string, values []any) *Row {
	r := &Row{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]any, len(keys)),
	}
	for i, k := range keys {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.Set(k, v)
	}
	return r
}

// Set stores v under key.
func (r *Row) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Row) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the row's column names in order.
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	return r.keys
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a shallow copy of the row.
func (r *Row) Clone() *Row {
	if r == nil {
		return NewRow()
	}
	c := &Row{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]any, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON writes the row as a JSON object with keys in column order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is an ordered sequence of rows.
type Table []*Row

// Columns returns the column names of the table, taken from the first row.
func (t Table) Columns() []string {
	if len(t) == 0 {
		return nil
	}
	return append([]string(nil), t[0].Keys()...)
}

// Column returns the values of a column across all rows. Rows without the
// column contribute nil.
func (t Table) Column(name string) []any {
	values := make([]any, len(t))
	for i, r := range t {
		values[i], _ = r.Get(name)
	}
	return values
}

// Clone returns a copy of the table whose rows can be rewritten without
// affecting t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	c := make(Table, len(t))
	for i, r := range t {
		c[i] = r.Clone()
	}
	return c
}

// Project returns a copy of the table restricted to the given columns, in
// the given order. Names absent from the table are skipped.
func (t Table) Project(columns []string) Table {
	if len(columns) == 0 {
		return t.Clone()
	}
	present := make(map[string]bool)
	for _, r := range t {
		for _, k := range r.Keys() {
			present[k] = true
		}
	}
	out := make(Table, len(t))
	for i, r := range t {
		row := NewRow()
		for _, c := range columns {
			if !present[c] {
				continue
			}
			v, _ := r.Get(c)
			row.Set(c, v)
		}
		out[i] = row
	}
	return out
}
