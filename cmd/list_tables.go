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
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/insights"
	"github.com/GoogleCloudPlatform/table-insights/internal/utils"
	"github.com/spf13/cobra"
)

var listTablesCmd = &cobra.Command{
	Use:     "list-tables",
	Short:   "List the tables of a source",
	Long:    `Lists the tables of a file (workbook sheets, HTML tables, JSON keys) or database.`,
	Example: `./table_insights list-tables --file ./book.xlsx`,
	Args:    cobra.NoArgs,
	RunE:    runListTables,
}

func runListTables(cmd *cobra.Command, args []string) error {
	cfg := config.Current()
	ctx := cmd.Context()

	tableFilters, err := utils.ParseTablesFlag(tables)
	if err != nil {
		return err
	}

	src, _, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	names, err := insights.NewService(src, nil, insights.Config{}).ListTables(ctx, tableFilters)
	if err != nil {
		return err
	}

	var out []byte
	if cfg.Output.Format == "json" {
		if names == nil {
			names = []string{}
		}
		if out, err = json.MarshalIndent(names, "", "  "); err != nil {
			return fmt.Errorf("failed to encode table names: %w", err)
		}
		out = append(out, '\n')
	} else if len(names) > 0 {
		out = []byte(strings.Join(names, "\n") + "\n")
	}

	return utils.WriteOutput(cfg.Output.File, out)
}
