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

// Package validate checks the two pieces of text a user types while signing
// in: the instance domain and the authorization code shown by the instance.
//
// Checks report a State rather than a bool so input widgets can tell text that
// is still being typed (Intermediate) from text that can never become valid
// (Invalid).
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/sirseerhq/mafolex/internal/errors"
	"golang.org/x/net/idna"
)

// State is the result of validating partially typed input.
type State int

const (
	Invalid State = iota
	Intermediate
	Acceptable
)

func (s State) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Intermediate:
		return "intermediate"
	case Acceptable:
		return "acceptable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CodeLength is the length of the authorization codes Mastodon issues.
const CodeLength = 43

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var domainProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.VerifyDNSLength(true),
)

// Code validates an authorization code.
func Code(text string) State {
	if text == "" {
		return Intermediate
	}
	if !codePattern.MatchString(text) {
		return Invalid
	}
	if len(text) == CodeLength {
		return Acceptable
	}
	return Intermediate
}

// CheckCode returns an error wrapping ErrInvalidCode unless code is Acceptable.
func CheckCode(code string) error {
	switch Code(code) {
	case Acceptable:
		return nil
	case Invalid:
		return fmt.Errorf("code contains characters other than letters, digits, '-' and '_': %w", apperrors.ErrInvalidCode)
	default:
		return fmt.Errorf("code must be %d characters long, got %d: %w", CodeLength, len(code), apperrors.ErrInvalidCode)
	}
}

// Domain validates an instance domain name. Anything that is not a valid
// domain yet is Intermediate so the user can keep typing.
func Domain(text string) State {
	if isDomain(text) {
		return Acceptable
	}
	return Intermediate
}

func isDomain(text string) bool {
	if text == "" || strings.ContainsAny(text, " /:@") {
		return false
	}
	ascii, err := domainProfile.ToASCII(text)
	if err != nil {
		return false
	}
	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	tld := labels[len(labels)-1]
	return strings.Trim(tld, "0123456789") != ""
}

// FixupDomain extracts the host from a pasted URL such as
// https://mastodon.social/@someone. Text that is not a URL is returned trimmed.
func FixupDomain(text string) string {
	text = strings.TrimSpace(text)
	if u, err := url.Parse(text); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return text
}

// NormalizeDomain fixes up text and returns the lowercase domain, or an error
// wrapping ErrInvalidInstance.
func NormalizeDomain(text string) (string, error) {
	domain := strings.ToLower(FixupDomain(text))
	if Domain(domain) != Acceptable {
		return "", fmt.Errorf("%q is not a domain name: %w", text, apperrors.ErrInvalidInstance)
	}
	return domain, nil
}
