package gofetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCallBatch(t *testing.T) {
	var mu sync.Mutex
	nextJob := 0
	jobURLs := map[string]string{} // job ID -> the url it was created for

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/jobs/create/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Config map[string]any `json:"config"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		nextJob++
		id := fmt.Sprintf("job-%d", nextJob)
		jobURLs[id], _ = body.Config["url"].(string)
		mu.Unlock()

		writeJSONResponse(t, w, http.StatusCreated, map[string]any{
			"id": id, "status": "pending", "scraper_type": "instagram",
		})
	})
	mux.HandleFunc("GET /api/v1/jobs/{id}/", func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, map[string]any{
			"id": r.PathValue("id"), "status": "completed", "scraper_type": "instagram",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)

	inputs := make([]map[string]any, 9)
	for i := range inputs {
		inputs[i] = map[string]any{"url": fmt.Sprintf("https://instagram.com/user%d", i)}
	}

	results := c.Actor("instagram").CallBatch(context.Background(), inputs, 3)

	if len(results) != 9 {
		t.Fatalf("results = %d, want 9", len(results))
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d, order not preserved", i, res.Index)
		}
		if res.Err != nil {
			t.Errorf("result %d err = %v", i, res.Err)
			continue
		}
		if res.Run == nil || res.Run.Status != RunStatusSucceeded {
			t.Errorf("result %d run = %+v, want SUCCEEDED", i, res.Run)
		}
		// Each result must belong to the job created for its own input.
		mu.Lock()
		createdFor := jobURLs[res.Run.ID]
		mu.Unlock()
		if createdFor != res.Input["url"] {
			t.Errorf("result %d run %s was created for %q, input was %q",
				i, res.Run.ID, createdFor, res.Input["url"])
		}
	}
}

func TestCallBatchIsolatesFailures(t *testing.T) {
	var creates atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/jobs/create/", func(w http.ResponseWriter, r *http.Request) {
		n := creates.Add(1)
		if n == 1 {
			writeJSONResponse(t, w, http.StatusBadRequest, map[string]any{"message": "bad config"})
			return
		}
		writeJSONResponse(t, w, http.StatusCreated, map[string]any{
			"id": fmt.Sprintf("job-%d", n), "status": "completed", "scraper_type": "instagram",
		})
	})
	mux.HandleFunc("GET /api/v1/jobs/{id}/", func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, map[string]any{
			"id": r.PathValue("id"), "status": "completed", "scraper_type": "instagram",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)

	inputs := []map[string]any{{"url": "a"}, {"url": "b"}, {"url": "c"}}
	// Concurrency 1 keeps the create order deterministic, so the failure
	// lands on the first input.
	results := c.Actor("instagram").CallBatch(context.Background(), inputs, 1)

	if results[0].Err == nil {
		t.Error("result 0 err = nil, want the create failure")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Err != nil {
			t.Errorf("result %d err = %v, failure was not isolated", i, results[i].Err)
		}
		if results[i].Run == nil || results[i].Run.Status != RunStatusSucceeded {
			t.Errorf("result %d did not succeed", i)
		}
	}
}
