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

package mastodon

import (
	"fmt"
	"strings"
)

// User is the flat record written for each related account. Field order is
// the column order of every output format.
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Note        string `json:"note"`
	URL         string `json:"url"`
	Mutual      bool   `json:"mutual"`
}

// Column describes one field of User.
type Column struct {
	Name  string // machine name, used for CSV headers
	Title string // human readable, used for tables
}

// Columns lists User's fields in order.
var Columns = []Column{
	{Name: "username", Title: "Username"},
	{Name: "display_name", Title: "Display name"},
	{Name: "note", Title: "Note"},
	{Name: "url", Title: "URL"},
	{Name: "mutual", Title: "Mutual"},
}

// Strings returns the user's fields in column order, booleans as "true" or
// "false".
func (u User) Strings() []string {
	return []string{u.Username, u.DisplayName, u.Note, u.URL, fmt.Sprintf("%t", u.Mutual)}
}

// Relation selects which side of the follow graph to list.
type Relation int

const (
	Followers Relation = iota
	Following
)

func (r Relation) String() string {
	if r == Following {
		return "following"
	}
	return "followers"
}

// ParseRelation accepts "followers" or "following".
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "followers", "":
		return Followers, nil
	case "following":
		return Following, nil
	default:
		return Followers, fmt.Errorf("unknown relation %q, expected followers or following", s)
	}
}

// App is an OAuth application registered on an instance.
type App struct {
	Server       string
	ClientID     string
	ClientSecret string
}

// Account is the signed-in account.
type Account struct {
	ID          string
	Username    string
	Acct        string
	DisplayName string
	URL         string
}

// Progress reports how far a listing has got.
type Progress struct {
	Pages    int // account pages fetched
	Accounts int // accounts fetched so far
	Batches  int // relationship batches resolved
}

// ProgressFunc receives progress updates. It is called from the goroutine
// running Users.
type ProgressFunc func(Progress)

// BaseURL turns an instance domain into the API base URL. Values that already
// carry a scheme are returned without a trailing slash.
func BaseURL(domain string) string {
	if strings.Contains(domain, "://") {
		return strings.TrimRight(domain, "/")
	}
	return "https://" + domain
}
