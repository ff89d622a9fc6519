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

package testutil

import (
	"fmt"
	"strconv"
)

// AccountBuilder provides a fluent API for creating test accounts as the
// instance would serve them.
type AccountBuilder struct {
	id          int
	username    string
	acct        string
	displayName string
	url         string
	following   bool
	followedBy  bool
	note        string
	noRelation  bool
}

// NewAccountBuilder creates an account builder with defaults derived from id.
func NewAccountBuilder(id int) *AccountBuilder {
	username := fmt.Sprintf("user%d", id)
	return &AccountBuilder{
		id:          id,
		username:    username,
		acct:        username,
		displayName: fmt.Sprintf("User %d", id),
		url:         fmt.Sprintf("https://mastodon.test/@%s", username),
		followedBy:  true,
	}
}

// WithAcct sets the webfinger address, e.g. "bob@example.social".
func (b *AccountBuilder) WithAcct(acct string) *AccountBuilder {
	b.acct = acct
	return b
}

// WithDisplayName sets the display name.
func (b *AccountBuilder) WithDisplayName(name string) *AccountBuilder {
	b.displayName = name
	return b
}

// WithURL sets the profile URL.
func (b *AccountBuilder) WithURL(url string) *AccountBuilder {
	b.url = url
	return b
}

// WithNote sets the private note the signed-in user keeps on the account.
func (b *AccountBuilder) WithNote(note string) *AccountBuilder {
	b.note = note
	return b
}

// Mutual marks the follow as going both ways.
func (b *AccountBuilder) Mutual() *AccountBuilder {
	b.following = true
	b.followedBy = true
	return b
}

// WithRelationship sets both relationship flags.
func (b *AccountBuilder) WithRelationship(following, followedBy bool) *AccountBuilder {
	b.following = following
	b.followedBy = followedBy
	return b
}

// WithoutRelationship makes the relationships endpoint omit this account.
func (b *AccountBuilder) WithoutRelationship() *AccountBuilder {
	b.noRelation = true
	return b
}

// ID returns the account id as served.
func (b *AccountBuilder) ID() string {
	return strconv.Itoa(b.id)
}

// Build returns the account JSON object.
func (b *AccountBuilder) Build() map[string]interface{} {
	return map[string]interface{}{
		"id":           b.ID(),
		"username":     b.username,
		"acct":         b.acct,
		"display_name": b.displayName,
		"url":          b.url,
		"locked":       false,
		"bot":          false,
		"note":         "<p>public bio</p>",
	}
}

// Relationship returns the relationships JSON object, or nil when the
// account has none.
func (b *AccountBuilder) Relationship() map[string]interface{} {
	if b.noRelation {
		return nil
	}
	return map[string]interface{}{
		"id":          b.ID(),
		"following":   b.following,
		"followed_by": b.followedBy,
		"note":        b.note,
	}
}

// GenerateAccounts builds n accounts with ids start..start+n-1. Every other
// account is mutual.
func GenerateAccounts(start, n int) []*AccountBuilder {
	accounts := make([]*AccountBuilder, 0, n)
	for i := 0; i < n; i++ {
		b := NewAccountBuilder(start + i)
		if i%2 == 0 {
			b.Mutual()
		}
		accounts = append(accounts, b)
	}
	return accounts
}
