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
package insights

import (
	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/GoogleCloudPlatform/table-insights/internal/recommend"
)

// TableInsight is the analysis of one table.
type TableInsight struct {
	Table           string                     `json:"table"`
	Profile         *profile.Profile           `json:"profile"`
	Dropped         []string                   `json:"dropped,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`

	// Rows holds the coerced rows when requested.
	Rows profile.Table `json:"rows,omitempty"`
}

// Report is the machine readable output of a run.
type Report struct {
	Source string          `json:"source"`
	Tables []*TableInsight `json:"tables"`
}
