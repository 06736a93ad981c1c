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
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Coerce converts every value to the canonical representation of t.
// Values that cannot be converted become nil. The result has the same
// length as values and the input slice is not modified.
func Coerce(values []any, t SemanticType) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = CoerceValue(v, t)
	}
	return out
}

// CoerceValue converts a single value. See Coerce.
func CoerceValue(v any, t SemanticType) any {
	switch t {
	case Boolean:
		if b, ok := ParseBool(v); ok {
			return b
		}
		return nil
	case Date:
		if d, ok := ParseDate(v); ok {
			return FormatInstant(d)
		}
		return nil
	case Number:
		if f, ok := ParseNumber(v); ok {
			return f
		}
		return nil
	default:
		return coerceString(v)
	}
}

func coerceString(v any) any {
	if isBlank(v) {
		return nil
	}
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return FormatInstant(s)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
