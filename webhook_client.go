package gofetch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// defaultWebhookPageSize is the listing page size when none is given.
const defaultWebhookPageSize = 25

// webhookRecord is the server's wire shape of a webhook registration.
type webhookRecord struct {
	ID               string     `json:"id"`
	URL              string     `json:"url"`
	Events           []string   `json:"events"`
	IsActive         bool       `json:"is_active"`
	SigningSecret    string     `json:"signing_secret"`
	FailedDeliveries int        `json:"failed_deliveries"`
	LastDeliveryAt   *time.Time `json:"last_delivery_at"`
	CreatedAt        *time.Time `json:"created_at"`
}

func (r webhookRecord) toWebhook() Webhook {
	return Webhook{
		ID:         r.ID,
		RequestURL: r.URL,
		EventTypes: lo.Map(r.Events, func(e string, _ int) string {
			return eventToApify(e)
		}),
		IsActive:         r.IsActive,
		SigningSecret:    r.SigningSecret,
		FailedDeliveries: r.FailedDeliveries,
		LastDeliveryAt:   r.LastDeliveryAt,
		CreatedAt:        r.CreatedAt,
	}
}

// deliveryRecord is the server's wire shape of a delivery attempt.
type deliveryRecord struct {
	ID            string     `json:"id"`
	Webhook       string     `json:"webhook"`
	Job           string     `json:"job"`
	EventType     string     `json:"event_type"`
	TriggerSource string     `json:"trigger_source"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	DeliveredAt   *time.Time `json:"delivered_at"`
	CreatedAt     *time.Time `json:"created_at"`
}

func (r deliveryRecord) toDelivery() WebhookDelivery {
	return WebhookDelivery{
		ID:            r.ID,
		WebhookID:     r.Webhook,
		JobID:         r.Job,
		EventType:     eventToApify(r.EventType),
		TriggerSource: r.TriggerSource,
		Status:        r.Status,
		Attempts:      r.Attempts,
		DeliveredAt:   r.DeliveredAt,
		CreatedAt:     r.CreatedAt,
	}
}

// listBody matches the collection endpoints; deployments differ on
// results/items and total/count naming, so both are accepted.
type listBody[T any] struct {
	Results []T `json:"results"`
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

func (b *listBody[T]) records() []T {
	if b.Results != nil {
		return b.Results
	}
	return b.Items
}

func (b *listBody[T]) total(fallback int) int {
	if b.Total > 0 {
		return b.Total
	}
	if b.Count > 0 {
		return b.Count
	}
	return fallback
}

func pageParams(limit, offset int) (url.Values, int) {
	if limit <= 0 {
		limit = defaultWebhookPageSize
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	return params, limit
}

// WebhookCreateRequest describes a new webhook registration. Event types are
// given in the Apify vocabulary. A nil IsActive defaults to active.
type WebhookCreateRequest struct {
	RequestURL string
	EventTypes []string
	IsActive   *bool
}

// WebhookUpdateRequest carries a partial update; nil fields stay unchanged.
type WebhookUpdateRequest struct {
	RequestURL *string
	EventTypes []string
	IsActive   *bool
}

// WebhookCollectionClient lists and creates webhook registrations.
type WebhookCollectionClient struct {
	transport *Transport
}

// List returns a page of webhook registrations. A limit of 0 or less uses
// the default page size.
func (c *WebhookCollectionClient) List(ctx context.Context, limit, offset int) (*WebhookList, error) {
	params, limit := pageParams(limit, offset)

	var body listBody[webhookRecord]
	if err := c.transport.Get(ctx, "/api/v1/webhooks/", params, &body); err != nil {
		return nil, err
	}

	records := body.records()
	return &WebhookList{
		Items: lo.Map(records, func(r webhookRecord, _ int) Webhook {
			return r.toWebhook()
		}),
		Count:  len(records),
		Offset: offset,
		Limit:  limit,
		Total:  body.total(len(records)),
	}, nil
}

// Create registers a webhook. Event types are translated to the GoFetch
// vocabulary before being stored server-side.
func (c *WebhookCollectionClient) Create(ctx context.Context, req WebhookCreateRequest) (*Webhook, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	payload := map[string]any{
		"url": req.RequestURL,
		"events": lo.Map(req.EventTypes, func(e string, _ int) string {
			return eventToGoFetch(e)
		}),
		"is_active": isActive,
	}

	var record webhookRecord
	if err := c.transport.Post(ctx, "/api/v1/webhooks/", payload, &record); err != nil {
		return nil, err
	}
	wh := record.toWebhook()
	return &wh, nil
}

// WebhookClient manages a single webhook registration by ID.
type WebhookClient struct {
	transport *Transport
	webhookID string
}

// Get returns the webhook, or nil if it does not exist.
func (c *WebhookClient) Get(ctx context.Context) (*Webhook, error) {
	var record webhookRecord
	if err := c.transport.Get(ctx, "/api/v1/webhooks/"+c.webhookID+"/", nil, &record); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	wh := record.toWebhook()
	return &wh, nil
}

// Update patches the webhook and returns its new state.
func (c *WebhookClient) Update(ctx context.Context, req WebhookUpdateRequest) (*Webhook, error) {
	payload := map[string]any{}
	if req.RequestURL != nil {
		payload["url"] = *req.RequestURL
	}
	if req.EventTypes != nil {
		payload["events"] = lo.Map(req.EventTypes, func(e string, _ int) string {
			return eventToGoFetch(e)
		})
	}
	if req.IsActive != nil {
		payload["is_active"] = *req.IsActive
	}

	var record webhookRecord
	if err := c.transport.Patch(ctx, "/api/v1/webhooks/"+c.webhookID+"/", payload, &record); err != nil {
		return nil, err
	}
	wh := record.toWebhook()
	return &wh, nil
}

// Delete removes the webhook. Deleting a webhook that is already gone is not
// an error.
func (c *WebhookClient) Delete(ctx context.Context) error {
	err := c.transport.Delete(ctx, "/api/v1/webhooks/"+c.webhookID+"/", nil, nil)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

// Deliveries returns a page of this webhook's delivery history.
func (c *WebhookClient) Deliveries(ctx context.Context, limit, offset int) (*WebhookDeliveryList, error) {
	params, limit := pageParams(limit, offset)

	var body listBody[deliveryRecord]
	if err := c.transport.Get(ctx, "/api/v1/webhooks/"+c.webhookID+"/deliveries/", params, &body); err != nil {
		return nil, err
	}

	records := body.records()
	return &WebhookDeliveryList{
		Items: lo.Map(records, func(r deliveryRecord, _ int) WebhookDelivery {
			return r.toDelivery()
		}),
		Count:  len(records),
		Offset: offset,
		Limit:  limit,
		Total:  body.total(len(records)),
	}, nil
}
