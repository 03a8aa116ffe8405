package gofetch

import (
	"encoding/json"
	"time"
)

// JobStatus is a job lifecycle status in the GoFetch vocabulary.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusTimedOut  JobStatus = "timed_out"
)

// RunStatus is a run status in the Apify vocabulary.
type RunStatus string

const (
	RunStatusReady     RunStatus = "READY"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusAborted   RunStatus = "ABORTED"
	RunStatusTimedOut  RunStatus = "TIMED-OUT"
)

// Job is the server-side record of a scraping job. The client only observes
// it; all transitions happen inside the GoFetch service.
type Job struct {
	ID               string         `json:"id"`
	Status           JobStatus      `json:"status"`
	ScraperType      string         `json:"scraper_type"`
	ItemsScraped     int            `json:"items_scraped"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StartedAt        *time.Time     `json:"started_at"`
	CompletedAt      *time.Time     `json:"completed_at"`
	ErrorMessage     string         `json:"error_message"`
	OutputDatasetURL string         `json:"output_dataset_url"`
	Config           map[string]any `json:"config"`

	// Raw holds the exact response body the job was decoded from, so fields
	// this struct does not model are still reachable.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the raw body around.
func (j *Job) UnmarshalJSON(b []byte) error {
	type plain Job
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*j = Job(p)
	j.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Run is the Apify-shaped view of a Job. It is a derived snapshot, recomputed
// from the latest job observation on every poll.
type Run struct {
	ID                     string     `json:"id"`
	ActorID                string     `json:"actId"`
	Status                 RunStatus  `json:"status"`
	DefaultDatasetID       string     `json:"defaultDatasetId"`
	StartedAt              *time.Time `json:"startedAt"`
	FinishedAt             *time.Time `json:"finishedAt"`
	BuildID                *string    `json:"buildId"`
	BuildNumber            *string    `json:"buildNumber"`
	ExitCode               *int       `json:"exitCode"`
	DefaultKeyValueStoreID *string    `json:"defaultKeyValueStoreId"`
	DefaultRequestQueueID  *string    `json:"defaultRequestQueueId"`

	// Job is the GoFetch job the run was derived from.
	Job *Job `json:"-"`
}

// Item is a single dataset row. Its schema is defined entirely by the scraper
// that produced it; the client only adds a runId back-reference.
type Item map[string]any

// WebhookSpec describes a per-run webhook subscription, in Apify vocabulary.
type WebhookSpec struct {
	RequestURL string   `json:"request_url"`
	EventTypes []string `json:"event_types"`
}

// LogEntry is one line of a job's execution log.
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// DatasetInfo describes a dataset. In GoFetch the job is the dataset, so this
// is derived from the job record.
type DatasetInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ItemCount  int       `json:"itemCount"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Webhook is a webhook registration, with event types in Apify vocabulary.
type Webhook struct {
	ID               string     `json:"id"`
	RequestURL       string     `json:"requestUrl"`
	EventTypes       []string   `json:"eventTypes"`
	IsActive         bool       `json:"isActive"`
	SigningSecret    string     `json:"signingSecret"`
	FailedDeliveries int        `json:"failedDeliveries"`
	LastDeliveryAt   *time.Time `json:"lastDeliveryAt"`
	CreatedAt        *time.Time `json:"createdAt"`
}

// WebhookDelivery is one delivery attempt record, read-only.
type WebhookDelivery struct {
	ID            string     `json:"id"`
	WebhookID     string     `json:"webhookId"`
	JobID         string     `json:"jobId"`
	EventType     string     `json:"eventType"`
	TriggerSource string     `json:"triggerSource"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	DeliveredAt   *time.Time `json:"deliveredAt"`
	CreatedAt     *time.Time `json:"createdAt"`
}

// WebhookList is a page of webhook registrations.
type WebhookList struct {
	Items  []Webhook `json:"items"`
	Count  int       `json:"count"`
	Offset int       `json:"offset"`
	Limit  int       `json:"limit"`
	Total  int       `json:"total"`
}

// WebhookDeliveryList is a page of delivery attempts.
type WebhookDeliveryList struct {
	Items  []WebhookDelivery `json:"items"`
	Count  int               `json:"count"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
	Total  int               `json:"total"`
}
