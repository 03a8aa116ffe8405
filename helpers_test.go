package gofetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

// sleepRecorder stands in for the real sleep so tests can assert the exact
// backoff sequence without waiting it out.
type sleepRecorder struct {
	mu        sync.Mutex
	intervals []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intervals = append(s.intervals, d)
	return nil
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.intervals...)
}

// newTestClient builds a client against a test server, with sleeps recorded
// instead of slept and the transport's retry delay shrunk to nothing.
func newTestClient(t *testing.T, baseURL string) (*Client, *sleepRecorder) {
	t.Helper()
	c, err := NewClient("sk_scr_test", WithBaseURL(baseURL))
	if err != nil {
		t.Fatal(err)
	}
	rec := &sleepRecorder{}
	c.sleep = rec.sleep
	c.transport.sleep = rec.sleep
	c.transport.retryDelay = time.Millisecond
	return c, rec
}

// jobHandler serves a job whose status advances through the given sequence
// on successive GETs, sticking at the last one. Create requests get the same
// job in its first status.
type jobHandler struct {
	mu       sync.Mutex
	jobID    string
	statuses []JobStatus
	gets     int
	creates  int

	itemsScraped int
	createBody   map[string]any
}

func newJobHandler(jobID string, statuses ...JobStatus) *jobHandler {
	return &jobHandler{jobID: jobID, statuses: statuses}
}

func (h *jobHandler) jobJSON(status JobStatus) map[string]any {
	return map[string]any{
		"id":            h.jobID,
		"status":        status,
		"scraper_type":  "instagram",
		"items_scraped": h.itemsScraped,
		"created_at":    "2024-01-01T00:00:00Z",
		"updated_at":    "2024-01-01T00:00:05Z",
	}
}

func (h *jobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/jobs/create/":
		h.creates++
		_ = json.NewDecoder(r.Body).Decode(&h.createBody)
		_ = json.NewEncoder(w).Encode(h.jobJSON(h.statuses[0]))
	case r.Method == http.MethodGet && r.URL.Path == fmt.Sprintf("/api/v1/jobs/%s/", h.jobID):
		idx := h.gets
		if idx >= len(h.statuses) {
			idx = len(h.statuses) - 1
		}
		h.gets++
		_ = json.NewEncoder(w).Encode(h.jobJSON(h.statuses[idx]))
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "not found"})
	}
}

func (h *jobHandler) getCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gets
}

func (h *jobHandler) lastCreateBody() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.createBody
}

func writeJSONResponse(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}
