// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx HTTP response from the instance.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// UserError pairs an error with a short summary and an optional hint the
// user can act on.
type UserError struct {
	Summary string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Summary
	}
	return e.Summary + " " + e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WithHint wraps err in a UserError. A nil err stays nil.
func WithHint(err error, summary, hint string) error {
	if err == nil {
		return nil
	}
	return &UserError{Summary: summary, Hint: hint, Err: err}
}

// AsUserError returns the outermost UserError in err's chain.
func AsUserError(err error) (*UserError, bool) {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr, true
	}
	return nil, false
}
