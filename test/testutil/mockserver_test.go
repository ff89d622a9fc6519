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
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestMastodonServer_Pagination(t *testing.T) {
	server := NewMastodonServer(t)
	server.SetFollowers(GenerateAccounts(100, 5)...)
	server.SetPageSize(2)

	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantNext  bool
		wantLinks bool
	}{
		{name: "first page", query: "", wantIDs: []string{"100", "101"}, wantNext: true, wantLinks: true},
		{name: "middle page", query: "?max_id=101", wantIDs: []string{"102", "103"}, wantNext: true, wantLinks: true},
		{name: "last page", query: "?max_id=103", wantIDs: []string{"104"}, wantNext: false, wantLinks: true},
		{name: "past the end", query: "?max_id=104", wantIDs: []string{}, wantNext: false, wantLinks: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, server.URL+"/api/v1/accounts/1/followers"+tt.query, TestAccessToken)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}

			var page []map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
				t.Fatal(err)
			}
			if len(page) != len(tt.wantIDs) {
				t.Fatalf("got %d accounts, want %d", len(page), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if page[i]["id"] != id {
					t.Errorf("account %d id = %v, want %s", i, page[i]["id"], id)
				}
			}

			link := resp.Header.Get("Link")
			if got := strings.Contains(link, `rel="next"`); got != tt.wantNext {
				t.Errorf("next link present = %v, want %v (Link: %q)", got, tt.wantNext, link)
			}
			if got := link != ""; got != tt.wantLinks {
				t.Errorf("Link header present = %v, want %v", got, tt.wantLinks)
			}
		})
	}
}

func TestMastodonServer_Auth(t *testing.T) {
	server := NewMastodonServer(t)

	resp := get(t, server.URL+"/api/v1/accounts/verify_credentials", "wrong")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d, want 401", resp.StatusCode)
	}

	resp = get(t, server.URL+"/api/v1/accounts/verify_credentials", TestAccessToken)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status with good token = %d, want 200", resp.StatusCode)
	}

	if n := server.Count("GET /api/v1/accounts/verify_credentials"); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestMastodonServer_Relationships(t *testing.T) {
	server := NewMastodonServer(t)
	server.SetFollowers(
		NewAccountBuilder(10).Mutual().WithNote("friend"),
		NewAccountBuilder(11).WithoutRelationship(),
	)

	resp := get(t, server.URL+"/api/v1/accounts/relationships?id[]=10&id[]=11", TestAccessToken)
	var rels []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&rels); err != nil {
		t.Fatal(err)
	}

	if len(rels) != 1 {
		t.Fatalf("got %d relationships, want 1", len(rels))
	}
	if rels[0]["note"] != "friend" || rels[0]["following"] != true || rels[0]["followed_by"] != true {
		t.Errorf("unexpected relationship %v", rels[0])
	}
}

func TestMastodonServer_FailNext(t *testing.T) {
	server := NewMastodonServer(t)
	server.FailNext(http.StatusServiceUnavailable)

	if resp := get(t, server.URL+"/api/v1/accounts/verify_credentials", TestAccessToken); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("first status = %d, want 503", resp.StatusCode)
	}
	if resp := get(t, server.URL+"/api/v1/accounts/verify_credentials", TestAccessToken); resp.StatusCode != http.StatusOK {
		t.Errorf("second status = %d, want 200", resp.StatusCode)
	}
	if server.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", server.RequestCount())
	}
}

func TestErrorServer(t *testing.T) {
	server := NewErrorServer(t, http.StatusNotFound)

	resp := get(t, server.URL+"/anything", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if server.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", server.RequestCount())
	}
}
