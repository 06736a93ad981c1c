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
	"path/filepath"
	"strings"
	"sync"

	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrTableNotFound     = errors.New("table not found")
	ErrUnreadableFile    = errors.New("cannot read source file")
)

// Source provides named tables to profile.
type Source interface {
	// ListTables returns the names of the tables in the source, in source
	// order.
	ListTables(ctx context.Context) ([]string, error)
	// LoadTable reads a table. limit > 0 bounds the number of data rows.
	LoadTable(ctx context.Context, name string, limit int) (profile.Table, error)
	Close() error
}

// Format names a file format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// DetectFormat infers the format of a file from its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Open returns the Source for a file. The format comes from cfg.Format, or
// from the file extension when it is empty or "auto".
func Open(cfg config.SourceConfig) (Source, error) {
	if cfg.File == "" {
		return nil, errors.New("no source file given")
	}
	format := Format(strings.ToLower(cfg.Format))
	if format == "" || format == FormatAuto {
		detected, err := DetectFormat(cfg.File)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	switch format {
	case FormatCSV:
		return NewCSV(cfg.File, delimiter(cfg.Delimiter, ',')), nil
	case FormatTSV:
		return NewCSV(cfg.File, delimiter(cfg.Delimiter, '\t')), nil
	case FormatJSON:
		return NewJSON(cfg.File), nil
	case FormatXLSX:
		return OpenXLSX(cfg.File)
	case FormatHTML:
		return NewHTML(cfg.File), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cfg.Format)
}

func delimiter(s string, fallback rune) rune {
	switch s {
	case "":
		return fallback
	case "\\t", "tab":
		return '\t'
	}
	return []rune(s)[0]
}

// tableName derives a table name from a file path.
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// namedTable is a parsed table of a file source.
type namedTable struct {
	name  string
	table profile.Table
}

// fileSource serves tables parsed from a file. The file is parsed once, on
// first use.
type fileSource struct {
	path  string
	parse func(path string, limit int) ([]namedTable, error)

	once   sync.Once
	tables []namedTable
	err    error
}

func (s *fileSource) load() ([]namedTable, error) {
	s.once.Do(func() {
		s.tables, s.err = s.parse(s.path, 0)
		if s.err != nil {
			s.err = fmt.Errorf("%w: %w", ErrUnreadableFile, s.err)
		}
	})
	return s.tables, s.err
}

func (s *fileSource) ListTables(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names, nil
}

// LoadTable returns a copy of the cached table, truncated to limit rows.
func (s *fileSource) LoadTable(ctx context.Context, name string, limit int) (profile.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.name == name {
			table := t.table
			if limit > 0 && len(table) > limit {
				table = table[:limit]
			}
			return table.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
}

func (s *fileSource) Close() error {
	return nil
}

// rowsFromRecords builds a table from a header and string records. Records
// shorter than the header are padded with nil; extra cells are kept under
// generated column names.
func rowsFromRecords(header []string, records [][]string, limit int) profile.Table {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	table := make(profile.Table, 0, len(records))
	for _, rec := range records {
		row := profile.NewRow()
		for i, name := range header {
			if i < len(rec) {
				row.Set(name, rec[i])
			} else {
				row.Set(name, nil)
			}
		}
		for i := len(header); i < len(rec); i++ {
			row.Set(fmt.Sprintf("column_%d", i+1), rec[i])
		}
		table = append(table, row)
	}
	return table
}

// normalizeHeader trims header cells and names blank ones by position.
func normalizeHeader(cells []string) []string {
	header := make([]string, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if c == "" {
			c = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = c
	}
	return header
}
