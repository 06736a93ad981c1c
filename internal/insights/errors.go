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
	"context"
	"database/sql/driver"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/GoogleCloudPlatform/table-insights/internal/profile"
	"github.com/GoogleCloudPlatform/table-insights/internal/source"
)

// ErrSourceConnection represents failures to reach a table source
type ErrSourceConnection struct {
	Msg string
	Err error
}

// ErrQueryExecution represents failures while reading a table
type ErrQueryExecution struct {
	Msg string
	Err error
}

// ErrInvalidInput represents errors caused by the request or the data shape
type ErrInvalidInput struct {
	Msg string
	Err error
}

// ErrTimeout represents deadline expiry during an operation
type ErrTimeout struct {
	Msg string
	Err error
}

// ErrCancelled represents errors when an operation is cancelled
type ErrCancelled struct {
	Msg string
	Err error
}

func (e *ErrSourceConnection) Error() string {
	return fmt.Sprintf("source connection error: %s: %v", e.Msg, e.Err)
}

func (e *ErrSourceConnection) Unwrap() error { return e.Err }

func (e *ErrQueryExecution) Error() string {
	return fmt.Sprintf("query execution error: %s: %v", e.Msg, e.Err)
}

func (e *ErrQueryExecution) Unwrap() error { return e.Err }

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input error: %s: %v", e.Msg, e.Err)
}

func (e *ErrInvalidInput) Unwrap() error { return e.Err }

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("timeout error: %s: %v", e.Msg, e.Err)
}

func (e *ErrTimeout) Unwrap() error { return e.Err }

func (e *ErrCancelled) Error() string {
	return fmt.Sprintf("operation cancelled: %s: %v", e.Msg, e.Err)
}

func (e *ErrCancelled) Unwrap() error { return e.Err }

// classifySourceError wraps an error returned by a source in the typed error
// that decides whether it is retried.
func classifySourceError(msg string, err error) error {
	var (
		netErr    net.Error
		schemaErr *profile.SchemaMismatchError
		csvErr    *csv.ParseError
		jsonErr   *json.SyntaxError
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return &ErrTimeout{Msg: msg, Err: err}
	case errors.Is(err, context.Canceled):
		return &ErrCancelled{Msg: msg, Err: err}
	case errors.Is(err, source.ErrTableNotFound),
		errors.Is(err, source.ErrUnsupportedFormat),
		errors.Is(err, source.ErrUnreadableFile),
		errors.Is(err, os.ErrNotExist),
		errors.As(err, &csvErr),
		errors.As(err, &jsonErr),
		errors.As(err, &schemaErr):
		return &ErrInvalidInput{Msg: msg, Err: err}
	case errors.Is(err, driver.ErrBadConn), errors.As(err, &netErr):
		return &ErrSourceConnection{Msg: msg, Err: err}
	}
	return &ErrQueryExecution{Msg: msg, Err: err}
}
