package gofetch

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"job.completed","data":{"job_id":"job-1"}}`)
	secret := "whsec_test"

	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{"valid signature", sign(payload, secret), true},
		{"wrong secret", sign(payload, "whsec_other"), false},
		{"missing prefix", hex.EncodeToString([]byte("nope")), false},
		{"empty signature", "", false},
		{"tampered digest", "sha256=deadbeef", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyWebhookSignature(payload, tt.signature, secret); got != tt.want {
				t.Errorf("VerifyWebhookSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyWebhookSignatureDetectsBodyTampering(t *testing.T) {
	secret := "whsec_test"
	signature := sign([]byte(`{"event":"job.completed"}`), secret)

	if VerifyWebhookSignature([]byte(`{"event":"job.failed"}`), signature, secret) {
		t.Error("signature for a different body verified")
	}
}

func TestEventTranslation(t *testing.T) {
	tests := []struct {
		gofetch string
		apify   string
	}{
		{EventJobCreated, EventActorRunCreated},
		{EventJobStarted, EventActorRunRunning},
		{EventJobCompleted, EventActorRunSucceeded},
		{EventJobFailed, EventActorRunFailed},
		{EventJobTimedOut, EventActorRunTimedOut},
		{EventJobCancelled, EventActorRunAborted},
	}
	for _, tt := range tests {
		if got := eventToApify(tt.gofetch); got != tt.apify {
			t.Errorf("eventToApify(%q) = %q, want %q", tt.gofetch, got, tt.apify)
		}
		if got := eventToGoFetch(tt.apify); got != tt.gofetch {
			t.Errorf("eventToGoFetch(%q) = %q, want %q", tt.apify, got, tt.gofetch)
		}
	}
}

// job.progress has no Apify equivalent of its own; it folds into RUNNING and
// comes back as job.started. The collapse is one-way and deliberate.
func TestEventTranslationProgressCollapsesToStarted(t *testing.T) {
	if got := eventToApify(EventJobProgress); got != EventActorRunRunning {
		t.Fatalf("eventToApify(job.progress) = %q, want %q", got, EventActorRunRunning)
	}
	if got := eventToGoFetch(EventActorRunRunning); got != EventJobStarted {
		t.Fatalf("eventToGoFetch(RUNNING) = %q, want %q", got, EventJobStarted)
	}
}

func TestEventTranslationUnknownPassesThrough(t *testing.T) {
	if got := eventToApify("job.paused"); got != "job.paused" {
		t.Errorf("eventToApify passthrough = %q", got)
	}
	if got := eventToGoFetch("ACTOR.RUN.RESURRECTED"); got != "ACTOR.RUN.RESURRECTED" {
		t.Errorf("eventToGoFetch passthrough = %q", got)
	}
}

func TestTransformWebhookPayload(t *testing.T) {
	started := "2024-01-01T00:00:01Z"
	payload := WebhookPayload{
		Event:     EventJobCompleted,
		Timestamp: "2024-01-01T00:05:00Z",
		Data: WebhookPayloadData{
			JobID:        "job-1",
			ScraperType:  "instagram",
			Status:       JobStatusCompleted,
			ItemsScraped: 12,
			StartedAt:    &started,
		},
	}

	out := TransformWebhookPayload(payload)

	if out["eventType"] != EventActorRunSucceeded {
		t.Errorf("eventType = %v, want %q", out["eventType"], EventActorRunSucceeded)
	}
	resource, ok := out["resource"].(map[string]any)
	if !ok {
		t.Fatalf("resource = %v, want an object", out["resource"])
	}
	if resource["id"] != "job-1" {
		t.Errorf("resource.id = %v", resource["id"])
	}
	if resource["status"] != RunStatusSucceeded {
		t.Errorf("resource.status = %v, want %q", resource["status"], RunStatusSucceeded)
	}
	if resource["defaultDatasetId"] != "job-1" {
		t.Errorf("resource.defaultDatasetId = %v", resource["defaultDatasetId"])
	}
	if out["defaultDatasetId"] != "job-1" {
		t.Errorf("defaultDatasetId = %v", out["defaultDatasetId"])
	}
	// The untranslated payload rides along for handlers that want it.
	original, ok := out["_gofetch_payload"].(WebhookPayload)
	if !ok || original.Event != EventJobCompleted {
		t.Errorf("_gofetch_payload = %v, want the original payload", out["_gofetch_payload"])
	}
}
