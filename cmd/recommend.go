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
	"fmt"

	"github.com/GoogleCloudPlatform/table-insights/internal/config"
	"github.com/GoogleCloudPlatform/table-insights/internal/insights"
	"github.com/GoogleCloudPlatform/table-insights/internal/utils"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Short:   "Profile tables and recommend charts",
	Long:    `Profiles every selected table and recommends up to six charts (time series, bar, histogram, scatter) that fit the detected column types. Charts can be written as Vega-Lite documents and captioned with Gemini.`,
	Example: `./table_insights recommend --file ./book.xlsx --tables "Q1 Sales[order_date,revenue]" --vega-dir ./charts --describe --context ./glossary.md`,
	Args:    cobra.NoArgs,
	RunE:    runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	vegaDir, _ := flags.GetString("vega-dir")
	describe, _ := flags.GetBool("describe")
	includeRows, _ := flags.GetBool("include-rows")
	contextFiles, _ := flags.GetString("context")

	if contextFiles != "" && !describe {
		return fmt.Errorf("--context requires --describe")
	}
	additionalContext, err := utils.ReadContextFiles(contextFiles)
	if err != nil {
		return fmt.Errorf("failed to read context files: %w", err)
	}

	return runAnalysis(cmd.Context(), config.Current(), analysis{
		command: "recommend",
		params: insights.AnalyzeParams{
			Recommend:         true,
			Describe:          describe,
			IncludeRows:       includeRows || vegaDir != "",
			AdditionalContext: additionalContext,
		},
		vegaDir: vegaDir,
	})
}

func init() {
	recommendCmd.Flags().String("vega-dir", "", "Directory to write one Vega-Lite document per recommended chart")
	recommendCmd.Flags().Bool("describe", false, "Caption each chart with Gemini")
	recommendCmd.Flags().String("context", "", "Comma-separated list of context files to ground the captions.")
	recommendCmd.Flags().Bool("include-rows", false, "Include the coerced rows in the json report")
}
