package gofetch

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Webhook event types in the Apify vocabulary.
const (
	EventActorRunCreated   = "ACTOR.RUN.CREATED"
	EventActorRunRunning   = "ACTOR.RUN.RUNNING"
	EventActorRunSucceeded = "ACTOR.RUN.SUCCEEDED"
	EventActorRunFailed    = "ACTOR.RUN.FAILED"
	EventActorRunTimedOut  = "ACTOR.RUN.TIMED_OUT"
	EventActorRunAborted   = "ACTOR.RUN.ABORTED"
)

// Webhook event types in the GoFetch vocabulary.
const (
	EventJobCreated   = "job.created"
	EventJobStarted   = "job.started"
	EventJobProgress  = "job.progress"
	EventJobCompleted = "job.completed"
	EventJobFailed    = "job.failed"
	EventJobTimedOut  = "job.timed_out"
	EventJobCancelled = "job.cancelled"
)

var gofetchToApifyEvents = map[string]string{
	EventJobCreated:   EventActorRunCreated,
	EventJobStarted:   EventActorRunRunning,
	EventJobProgress:  EventActorRunRunning,
	EventJobCompleted: EventActorRunSucceeded,
	EventJobFailed:    EventActorRunFailed,
	EventJobTimedOut:  EventActorRunTimedOut,
	EventJobCancelled: EventActorRunAborted,
}

// apifyToGoFetchEvents is written out by hand, NOT derived from the forward
// table: job.started and job.progress both map to ACTOR.RUN.RUNNING, and
// auto-reversing would silently drop one of them. job.started is the
// canonical reverse for RUNNING.
var apifyToGoFetchEvents = map[string]string{
	EventActorRunCreated:   EventJobCreated,
	EventActorRunRunning:   EventJobStarted,
	EventActorRunSucceeded: EventJobCompleted,
	EventActorRunFailed:    EventJobFailed,
	EventActorRunTimedOut:  EventJobTimedOut,
	EventActorRunAborted:   EventJobCancelled,
}

func eventToGoFetch(event string) string {
	if e, ok := apifyToGoFetchEvents[event]; ok {
		return e
	}
	return event
}

func eventToApify(event string) string {
	if e, ok := gofetchToApifyEvents[event]; ok {
		return e
	}
	return event
}

// WebhookPayload is the notification body GoFetch delivers to webhook
// endpoints.
type WebhookPayload struct {
	Event     string             `json:"event"`
	Timestamp string             `json:"timestamp"`
	Data      WebhookPayloadData `json:"data"`
}

// WebhookPayloadData carries the job snapshot inside a webhook notification.
type WebhookPayloadData struct {
	JobID            string    `json:"job_id"`
	OrganizationID   string    `json:"organization_id"`
	ScraperType      string    `json:"scraper_type"`
	Status           JobStatus `json:"status"`
	ItemsScraped     int       `json:"items_scraped"`
	OutputDatasetURL string    `json:"output_dataset_url"`
	StartedAt        *string   `json:"started_at,omitempty"`
	CompletedAt      *string   `json:"completed_at,omitempty"`
}

// VerifyWebhookSignature checks the X-Webhook-Signature header against the
// raw request body. GoFetch signs payloads with HMAC-SHA256; the header value
// has the form "sha256=<hex digest>". The comparison is constant-time.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	if !strings.HasPrefix(signature, "sha256=") {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// TransformWebhookPayload reshapes a GoFetch webhook payload into the Apify
// webhook format, for handlers written against Apify's schema. The original
// payload stays reachable under "_gofetch_payload".
func TransformWebhookPayload(payload WebhookPayload) map[string]any {
	data := payload.Data
	status := TranslateStatus(data.Status)

	return map[string]any{
		"userId":    "gofetch",
		"eventType": eventToApify(payload.Event),
		"eventData": map[string]any{
			"actorId":    data.ScraperType,
			"actorRunId": data.JobID,
		},
		"resource": map[string]any{
			"id":               data.JobID,
			"actId":            data.ScraperType,
			"userId":           "gofetch",
			"status":           status,
			"defaultDatasetId": data.JobID,
			"startedAt":        data.StartedAt,
			"finishedAt":       data.CompletedAt,
		},
		"defaultDatasetId": data.JobID,
		"_gofetch_payload": payload,
	}
}
