package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vasionhq/agentquest/internal/database"
	"github.com/vasionhq/agentquest/internal/migrations"
	"github.com/vasionhq/agentquest/internal/session"
)

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()
	return testRouterWithKey(t, "")
}

func testRouterWithKey(t *testing.T, apiKey string) *chi.Mux {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:      NewSQLiteStore(db),
		Sessions:   session.NewMemory(24 * time.Hour),
		DB:         db,
		APIKey:     apiKey,
		Admin:      AdminCredentials{Username: "admin", Password: "letmein"},
		CORSOrigin: "*",
	}

	r := chi.NewRouter()
	addRoutes(r, cfg)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return m
}
