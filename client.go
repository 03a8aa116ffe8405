// Package gofetch is a client for the GoFetch scraping API that keeps the
// shape of Apify's client SDK: actors, runs, datasets, and webhooks all work
// the way code written against Apify expects, while the requests underneath
// go to GoFetch's job API.
package gofetch

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client defaults.
const (
	DefaultBaseURL    = "https://api.go-fetch.io"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	log        zerolog.Logger
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets how often the transport retries transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *clientConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithHTTPClient supplies a custom *http.Client; WithTimeout is ignored when
// this is set.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.log = log
	}
}

// Client is the top-level GoFetch API client. One Client owns one HTTP
// session that all derived component clients share; it is safe for
// concurrent use.
type Client struct {
	transport *Transport
	sleep     sleepFunc
}

// NewClient creates a client authenticated with the given API key
// (format: sk_scr_...).
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	cfg := clientConfig{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		transport: NewTransport(apiKey, cfg.baseURL, hc, cfg.maxRetries, cfg.log),
		sleep:     sleepWithContext,
	}, nil
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.transport.baseURL
}

// Actor returns an actor client for the given actor ID. Both Apify-style IDs
// ("apify/instagram-scraper") and native scraper types ("instagram") work.
func (c *Client) Actor(actorID string) *ActorClient {
	return &ActorClient{
		transport:   c.transport,
		scraperType: ResolveActorID(actorID),
		sleep:       c.sleep,
	}
}

// Run returns a client for an existing run by ID.
func (c *Client) Run(runID string) *RunClient {
	return &RunClient{transport: c.transport, runID: runID, sleep: c.sleep}
}

// Dataset returns a client for a result dataset. In GoFetch the job ID is
// the dataset ID.
func (c *Client) Dataset(datasetID string) *DatasetClient {
	return &DatasetClient{transport: c.transport, datasetID: datasetID}
}

// Webhooks returns the webhook collection client.
func (c *Client) Webhooks() *WebhookCollectionClient {
	return &WebhookCollectionClient{transport: c.transport}
}

// Webhook returns a client for a single webhook registration by ID.
func (c *Client) Webhook(webhookID string) *WebhookClient {
	return &WebhookClient{transport: c.transport, webhookID: webhookID}
}

// KeyValueStore returns the key-value store stub; see KeyValueStoreClient
// for why every call on it fails.
func (c *Client) KeyValueStore(storeID string) *KeyValueStoreClient {
	return &KeyValueStoreClient{storeID: storeID}
}

// Scraper returns a scraper helper that filters expected-empty result items
// for the given actor's platform.
func (c *Client) Scraper(actorID string) *Scraper {
	scraperType := ResolveActorID(actorID)
	return &Scraper{
		client:      c,
		actor:       c.Actor(actorID),
		scraperType: scraperType,
	}
}
