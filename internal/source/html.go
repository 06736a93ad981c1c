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
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NewHTML returns a Source exposing every <table> element of an HTML page.
// Tables are named by their id attribute, or table-N by position.
func NewHTML(path string) Source {
	return &fileSource{
		path: path,
		parse: func(path string, limit int) ([]namedTable, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			doc, err := goquery.NewDocumentFromReader(f)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			return readHTMLTables(doc, limit), nil
		},
	}
}

func readHTMLTables(doc *goquery.Document, limit int) []namedTable {
	var tables []namedTable
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		name, ok := sel.Attr("id")
		if !ok || strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("table-%d", i+1)
		}

		var header []string
		var records [][]string
		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("th, td")
			if cells.Length() == 0 {
				return
			}
			texts := cells.Map(func(_ int, c *goquery.Selection) string {
				return strings.TrimSpace(c.Text())
			})
			if header == nil {
				header = normalizeHeader(texts)
				return
			}
			records = append(records, texts)
		})
		if header == nil {
			return
		}
		tables = append(tables, namedTable{name: name, table: rowsFromRecords(header, records, limit)})
	})
	return tables
}
