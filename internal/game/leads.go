package game

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Lead is a captured visitor contact record tied to game completion.
type Lead struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Company         string    `json:"company"`
	Role            string    `json:"role,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	CompletedAt     time.Time `json:"completedAt"`
	CompletionTime  int       `json:"completionTime"`
	LevelsCompleted int       `json:"levelsCompleted"`
	HintsUsed       int       `json:"hintsUsed"`
	TotalAttempts   int       `json:"totalAttempts"`
	Source          string    `json:"source"`
	Event           string    `json:"event,omitempty"`
}

// FailedLead is a lead submission that could not reach the backend, queued
// locally for a later retry or manual export.
type FailedLead struct {
	Lead
	FailedAt time.Time `json:"failedAt"`
}

// LeadClient submits leads to the backend. Unlike score sync, failed lead
// submissions are queued in local storage so lead capture survives network
// failures at the booth.
type LeadClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	storage  Storage
	logger   *slog.Logger
}

func NewLeadClient(baseURL, apiKey string, storage Storage, logger *slog.Logger) *LeadClient {
	return &LeadClient{
		endpoint: baseURL + "/api/leads",
		apiKey:   apiKey,
		client:   http.DefaultClient,
		storage:  storage,
		logger:   logger,
	}
}

// Submit posts a lead. On any failure the lead is saved to the retry queue
// and the error returned.
func (c *LeadClient) Submit(ctx context.Context, lead Lead) error {
	if err := c.post(ctx, lead); err != nil {
		if qerr := c.queueFailed(lead); qerr != nil {
			c.logger.Error("queueing failed lead", "error", qerr)
		}
		return err
	}
	return nil
}

func (c *LeadClient) post(ctx context.Context, lead Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encoding lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting lead: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("lead submission: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// FailedSubmissions returns the queued leads, oldest first.
func (c *LeadClient) FailedSubmissions() ([]FailedLead, error) {
	data, err := c.storage.Get(storageKeyFailed)
	if err == ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var failed []FailedLead
	if err := json.Unmarshal(data, &failed); err != nil {
		return nil, fmt.Errorf("decoding failed submissions: %w", err)
	}
	return failed, nil
}

func (c *LeadClient) queueFailed(lead Lead) error {
	failed, err := c.FailedSubmissions()
	if err != nil {
		return err
	}
	failed = append(failed, FailedLead{Lead: lead, FailedAt: time.Now()})
	data, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("encoding failed submissions: %w", err)
	}
	return c.storage.Set(storageKeyFailed, data)
}

// RetryFailed resubmits every queued lead and keeps the ones that fail again.
// Returns the number of successful resubmissions.
func (c *LeadClient) RetryFailed(ctx context.Context) (int, error) {
	failed, err := c.FailedSubmissions()
	if err != nil {
		return 0, err
	}
	if len(failed) == 0 {
		return 0, nil
	}

	var succeeded int
	var stillFailed []FailedLead
	for _, f := range failed {
		if err := c.post(ctx, f.Lead); err != nil {
			stillFailed = append(stillFailed, f)
			continue
		}
		succeeded++
	}

	data, err := json.Marshal(stillFailed)
	if err != nil {
		return succeeded, fmt.Errorf("encoding failed submissions: %w", err)
	}
	if stillFailed == nil {
		data = []byte("[]")
	}
	if err := c.storage.Set(storageKeyFailed, data); err != nil {
		return succeeded, err
	}
	return succeeded, nil
}

// ClearFailed drops the retry queue, typically after a manual export.
func (c *LeadClient) ClearFailed() error {
	return c.storage.Delete(storageKeyFailed)
}

// ExportCSV renders the queued leads as CSV for manual processing. Returns
// an empty string when the queue is empty.
func (c *LeadClient) ExportCSV() (string, error) {
	failed, err := c.FailedSubmissions()
	if err != nil {
		return "", err
	}
	if len(failed) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"Name", "Email", "Company", "Role", "Phone",
		"Completed At", "Completion Time (s)", "Levels Completed",
		"Hints Used", "Total Attempts", "Source", "Event", "Failed At",
	})
	for _, f := range failed {
		w.Write([]string{
			f.Name,
			f.Email,
			f.Company,
			f.Role,
			f.Phone,
			f.CompletedAt.Format(time.RFC3339),
			strconv.Itoa(f.CompletionTime),
			strconv.Itoa(f.LevelsCompleted),
			strconv.Itoa(f.HintsUsed),
			strconv.Itoa(f.TotalAttempts),
			f.Source,
			f.Event,
			f.FailedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}
	return buf.String(), nil
}
