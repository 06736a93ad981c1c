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
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ReadContextFiles reads the content of the specified context files and combines them into a single string.
func ReadContextFiles(filePaths string) (string, error) {
	if filePaths == "" {
		return "", nil // No context files provided
	}

	paths := strings.Split(filePaths, ",")
	var combinedContext strings.Builder
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read context file '%s': %w", path, err)
		}
		combinedContext.WriteString("\n-- Context from file: " + path + " --\n")
		combinedContext.Write(content)
	}
	return combinedContext.String(), nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFileName replaces characters that are awkward in file names.
func SafeFileName(name string) string {
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return "table"
	}
	return name
}

// GetDefaultOutputFilePath names the report file of a command run against
// a source, e.g. sales_profile.json.
func GetDefaultOutputFilePath(sourceName, commandName, format string) string {
	ext := "txt"
	if format == "json" {
		ext = "json"
	}
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	switch commandName {
	case "recommend":
		return fmt.Sprintf("%s_recommendations.%s", SafeFileName(base), ext)
	default:
		return fmt.Sprintf("%s_%s.%s", SafeFileName(base), commandName, ext)
	}
}

// WriteOutput writes content to path, creating parent directories. An empty
// path writes to stdout.
func WriteOutput(path string, content []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// ParseTablesFlag parses "table1[col1,col2],table2" into a map of table
// names to the columns to keep. A table without brackets keeps all columns.
func ParseTablesFlag(tablesFlag string) (map[string][]string, error) {
	tableColumns := make(map[string][]string)
	if strings.TrimSpace(tablesFlag) == "" {
		return tableColumns, nil
	}

	// Split by comma, but only if the comma is not within square brackets
	parts := SplitOutsideBrackets(tablesFlag)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		bracketStart := strings.Index(part, "[")
		if bracketStart == -1 {
			tableColumns[part] = nil
			continue
		}
		bracketEnd := strings.LastIndex(part, "]")
		if bracketEnd == -1 || bracketEnd < bracketStart {
			return nil, fmt.Errorf("missing closing bracket in: %s", part)
		}
		if rest := strings.TrimSpace(part[bracketEnd+1:]); rest != "" {
			return nil, fmt.Errorf("unexpected text after closing bracket in: %s", part)
		}

		tableName := strings.TrimSpace(part[:bracketStart])
		if tableName == "" {
			return nil, fmt.Errorf("missing table name in: %s", part)
		}
		var columns []string
		for _, col := range strings.Split(part[bracketStart+1:bracketEnd], ",") {
			if col = strings.TrimSpace(col); col != "" {
				columns = append(columns, col)
			}
		}
		tableColumns[tableName] = columns
	}

	return tableColumns, nil
}

// SplitOutsideBrackets splits s by commas that are not within brackets.
func SplitOutsideBrackets(s string) []string {
	var result []string
	var current strings.Builder
	inBrackets := false

	for _, char := range s {
		switch char {
		case '[':
			inBrackets = true
			current.WriteRune(char)
		case ']':
			inBrackets = false
			current.WriteRune(char)
		case ',':
			if inBrackets {
				current.WriteRune(char)
			} else {
				result = append(result, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}
