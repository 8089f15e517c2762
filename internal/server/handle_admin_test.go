package server

import (
	"fmt"
	"net/http"
	"testing"
)

func adminLogin(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/admin/login",
		map[string]string{"username": "admin", "password": "letmein"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAdminLoginBadCredentials(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"wrong password", map[string]string{"username": "admin", "password": "nope"}, http.StatusUnauthorized},
		{"wrong username", map[string]string{"username": "root", "password": "letmein"}, http.StatusUnauthorized},
		{"empty", map[string]string{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/admin/login", tt.body, nil)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAdminVerify(t *testing.T) {
	r := testRouter(t)
	token := adminLogin(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/admin/verify", nil, bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["username"] != "admin" {
		t.Errorf("username = %v, want admin", data["username"])
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := testRouter(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/verify"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/scores"},
		{http.MethodDelete, "/api/admin/scores"},
		{http.MethodGet, "/api/admin/leads"},
		{http.MethodDelete, "/api/admin/leads/1"},
	}
	for _, p := range paths {
		w := doJSON(t, r, p.method, p.path, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestAdminLogoutRevokesToken(t *testing.T) {
	r := testRouter(t)
	token := adminLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/admin/logout", nil, bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("logout: status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/admin/verify", nil, bearer(token))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("verify after logout: status = %d, want 401", w.Code)
	}
}

func TestAdminDeleteScore(t *testing.T) {
	r := testRouter(t)
	token := adminLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/scores", scoreBody("Agent Zero", "zero@example.com", 50), nil)
	id := decodeBody(t, w)["id"].(float64)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/scores/%d", int64(id)), nil, bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/scores/%d", int64(id)), nil, bearer(token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", w.Code)
	}
}

func TestAdminDeleteAllLeads(t *testing.T) {
	r := testRouter(t)
	token := adminLogin(t, r)

	doJSON(t, r, http.MethodPost, "/api/leads", validLeadBody(), nil)
	lead2 := validLeadBody()
	lead2["email"] = "two@example.com"
	doJSON(t, r, http.MethodPost, "/api/leads", lead2, nil)

	w := doJSON(t, r, http.MethodDelete, "/api/admin/leads", nil, bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["deletedCount"].(float64) != 2 {
		t.Errorf("deletedCount = %v, want 2", resp["deletedCount"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/admin/leads", nil, bearer(token))
	pagination := decodeBody(t, w)["pagination"].(map[string]any)
	if pagination["total"].(float64) != 0 {
		t.Errorf("total after delete = %v, want 0", pagination["total"])
	}
}

func TestAdminListScoresIncludesBreakdown(t *testing.T) {
	r := testRouter(t)
	token := adminLogin(t, r)

	doJSON(t, r, http.MethodPost, "/api/scores", scoreBody("Agent Zero", "zero@example.com", 126), nil)

	w := doJSON(t, r, http.MethodGet, "/api/admin/scores", nil, bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	entries := decodeBody(t, w)["data"].([]any)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	breakdown := entries[0].(map[string]any)["scoreBreakdown"].(map[string]any)
	if breakdown["levelPoints"].(float64) != 110 {
		t.Errorf("levelPoints = %v, want 110", breakdown["levelPoints"])
	}
}

func TestAdminStatsEndpoint(t *testing.T) {
	r := testRouter(t)
	token := adminLogin(t, r)

	doJSON(t, r, http.MethodPost, "/api/leads", validLeadBody(), nil)
	doJSON(t, r, http.MethodPost, "/api/scores", scoreBody("Agent Zero", "zero@example.com", 50), nil)

	w := doJSON(t, r, http.MethodGet, "/api/admin/stats", nil, bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	leads := data["leads"].(map[string]any)
	scores := data["scores"].(map[string]any)
	if leads["total"].(float64) != 1 {
		t.Errorf("lead total = %v, want 1", leads["total"])
	}
	if scores["totalPlayers"].(float64) != 1 {
		t.Errorf("totalPlayers = %v, want 1", scores["totalPlayers"])
	}
}
