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
	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/insights"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Infer column types and summarize tables",
	Long:    `Reads every selected table, infers the semantic type of each column (boolean, date, number or string), coerces the values and reports per-column statistics.`,
	Example: `./table_insights profile --file ./sales.csv --output json --out_file ./sales_profile.json`,
	Args:    cobra.NoArgs,
	RunE:    runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	includeRows, err := cmd.Flags().GetBool("include-rows")
	if err != nil {
		return err
	}
	return runAnalysis(cmd.Context(), config.Current(), analysis{
		command: "profile",
		params:  insights.AnalyzeParams{IncludeRows: includeRows},
	})
}

func init() {
	profileCmd.Flags().Bool("include-rows", false, "Include the coerced rows in the json report")
}
