package game

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLead() Lead {
	return Lead{
		Name:            "Agent Zero",
		Email:           "zero@example.com",
		Company:         "Acme",
		Role:            "Engineer",
		CompletedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		CompletionTime:  900,
		LevelsCompleted: 11,
		HintsUsed:       2,
		TotalAttempts:   30,
		Source:          "tradeshow",
		Event:           "PrintFest 2025",
	}
}

func TestLeadSubmitSuccess(t *testing.T) {
	var got atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/leads" {
			t.Errorf("path = %q, want /api/leads", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key123" {
			t.Errorf("authorization = %q", auth)
		}
		got.Add(1)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"id":1}`))
	}))
	defer srv.Close()

	c := NewLeadClient(srv.URL, "key123", newMemStore(), slog.Default())
	if err := c.Submit(context.Background(), testLead()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Load() != 1 {
		t.Errorf("server received %d requests, want 1", got.Load())
	}

	failed, err := c.FailedSubmissions()
	if err != nil {
		t.Fatalf("failed submissions: %v", err)
	}
	if len(failed) != 0 {
		t.Errorf("expected empty retry queue, got %d", len(failed))
	}
}

func TestLeadSubmitFailureQueues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewLeadClient(srv.URL, "", newMemStore(), slog.Default())
	if err := c.Submit(context.Background(), testLead()); err == nil {
		t.Fatal("expected submit error")
	}

	failed, err := c.FailedSubmissions()
	if err != nil {
		t.Fatalf("failed submissions: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 queued lead, got %d", len(failed))
	}
	if failed[0].Email != "zero@example.com" {
		t.Errorf("queued email = %q", failed[0].Email)
	}
	if failed[0].FailedAt.IsZero() {
		t.Error("expected failedAt to be set")
	}
}

func TestLeadRetryFailed(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewLeadClient(srv.URL, "", newMemStore(), slog.Default())

	c.Submit(context.Background(), testLead())
	lead2 := testLead()
	lead2.Email = "two@example.com"
	c.Submit(context.Background(), lead2)

	// Backend comes back; both retries succeed.
	healthy.Store(true)
	n, err := c.RetryFailed(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if n != 2 {
		t.Errorf("retried = %d, want 2", n)
	}

	failed, _ := c.FailedSubmissions()
	if len(failed) != 0 {
		t.Errorf("expected empty queue after retry, got %d", len(failed))
	}
}

func TestLeadExportCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewLeadClient(srv.URL, "", newMemStore(), slog.Default())
	c.Submit(context.Background(), testLead())

	csvOut, err := c.ExportCSV()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(csvOut, "Name,Email,Company") {
		t.Errorf("missing header row: %q", csvOut)
	}
	if !strings.Contains(csvOut, "zero@example.com") {
		t.Errorf("missing lead row: %q", csvOut)
	}

	if err := c.ClearFailed(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, err := c.ExportCSV()
	if err != nil {
		t.Fatalf("export after clear: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty export after clear, got %q", out)
	}
}

func TestSyncerSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scores" {
			t.Errorf("path = %q, want /api/scores", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"id":1,"rank":1}`))
	}))
	defer srv.Close()

	s := NewSyncer(srv.URL, "")
	snap := Snapshot{PlayerName: "Agent Zero", Email: "zero@example.com", Score: 23, Seq: 7}
	if err := s.Submit(context.Background(), snap); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestSyncerSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSyncer(srv.URL, "")
	if err := s.Submit(context.Background(), Snapshot{Email: "zero@example.com"}); err == nil {
		t.Fatal("expected error on 500")
	}
}
