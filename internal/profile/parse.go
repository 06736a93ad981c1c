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
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

// InstantLayout is the canonical text form of coerced date values.
const InstantLayout = "2006-01-02T15:04:05.000Z"

var (
	truthyTokens = map[string]bool{"true": true, "yes": true, "y": true, "1": true}
	falsyTokens  = map[string]bool{"false": true, "no": true, "n": true, "0": true}

	symbolStripper = strings.NewReplacer("%", "", ",", "", "$", "", "₹", "", "€", "", "£", "")
)

// isBlank reports whether v carries no value: nil or a whitespace-only string.
func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ParseBool recognizes native booleans and the boolean tokens
// true/false/yes/no/y/n/1/0 in any case.
func ParseBool(v any) (value bool, ok bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		token := cases.Fold().String(strings.TrimSpace(b))
		if truthyTokens[token] {
			return true, true
		}
		if falsyTokens[token] {
			return false, true
		}
	}
	return false, false
}

// stripSymbols removes currency, percent and grouping symbols and all
// whitespace from s.
func stripSymbols(s string) string {
	s = symbolStripper.Replace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseNumber returns the finite float value of a native number or of a
// string that is numeric once the symbol set is stripped.
func ParseNumber(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		f, err = cast.ToFloat64E(n)
	case string:
		s := stripSymbols(n)
		if s == "" {
			return 0, false
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDate parses a date or date-time value. Native numbers and numeric
// strings are not treated as dates, nor is text without a year such as a
// time of day or a bare month and day.
func ParseDate(v any) (t time.Time, ok bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d.UTC(), true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		if _, numeric := ParseNumber(s); numeric {
			return time.Time{}, false
		}
		// dateparse panics on a few malformed inputs.
		defer func() {
			if recover() != nil {
				t, ok = time.Time{}, false
			}
		}()
		parsed, err := dateparse.ParseIn(s, time.UTC)
		if err != nil || parsed.Year() == 0 {
			return time.Time{}, false
		}
		return parsed.UTC(), true
	}
	return time.Time{}, false
}

// FormatInstant renders t in the canonical instant form.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}
