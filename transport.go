package gofetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/YevheniiM/gofetch-client/telemetry"
)

const (
	apiKeyHeader           = "X-API-Key"
	webhookSignatureHeader = "X-Webhook-Signature"
	userAgent              = "gofetch-client-go/1.0"

	defaultRetryDelay  = time.Second
	retryBackoffFactor = 2.0
)

// Transport issues authenticated requests against the GoFetch API. It owns
// the only retry layer in the client: transient network failures and 429s are
// retried with capped exponential backoff, everything else surfaces
// immediately as a typed error.
//
// A Transport is safe for concurrent use; every component of a Client shares
// one instance.
type Transport struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	log        zerolog.Logger
	sleep      sleepFunc
}

// NewTransport creates a transport for the given base URL and API key.
func NewTransport(apiKey, baseURL string, client *http.Client, maxRetries int, log zerolog.Logger) *Transport {
	return &Transport{
		apiKey:     apiKey,
		baseURL:    baseURL,
		client:     client,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		log:        log,
		sleep:      sleepWithContext,
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (t *Transport) Get(ctx context.Context, path string, params url.Values, out any) error {
	return t.request(ctx, http.MethodGet, path, params, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (t *Transport) Post(ctx context.Context, path string, body any, out any) error {
	return t.request(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body and decodes the response into out.
func (t *Transport) Patch(ctx context.Context, path string, body any, out any) error {
	return t.request(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (t *Transport) Delete(ctx context.Context, path string, params url.Values, out any) error {
	return t.request(ctx, http.MethodDelete, path, params, nil, out)
}

func (t *Transport) request(ctx context.Context, method, path string, params url.Values, body, out any) error {
	reqURL := t.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	var lastErr error
	retryDelay := t.retryDelay

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return err
		}
		req.Header.Set(apiKeyHeader, t.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("X-Request-ID", uuid.New().String())

		telemetry.RequestCounter.Inc()
		resp, err := t.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if attempt < t.maxRetries {
				t.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed, retrying")
				telemetry.RetryCounter.Inc()
				if err := t.sleep(ctx, retryDelay); err != nil {
					return err
				}
				retryDelay = time.Duration(float64(retryDelay) * retryBackoffFactor)
			}
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode >= 400 {
			apiErr := errorFromResponse(resp, respBody)

			var rateErr *RateLimitError
			if errors.As(apiErr, &rateErr) {
				telemetry.RateLimitCounter.Inc()
				lastErr = apiErr
				if attempt < t.maxRetries {
					wait := rateErr.RetryAfter
					if wait <= 0 {
						wait = retryDelay
					}
					t.log.Warn().Str("path", path).Dur("wait", wait).Msg("rate limited, backing off")
					telemetry.RetryCounter.Inc()
					if err := t.sleep(ctx, wait); err != nil {
						return err
					}
					retryDelay = time.Duration(float64(retryDelay) * retryBackoffFactor)
				}
				continue
			}
			return apiErr
		}

		t.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request completed")

		// 204 and empty bodies decode to the zero value.
		if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("request failed after %d attempts: %w", t.maxRetries+1, lastErr)
	}
	return &APIError{StatusCode: 0, Message: "request failed with unknown error"}
}

// errorFromResponse maps an error response to the matching typed error.
func errorFromResponse(resp *http.Response, body []byte) error {
	var parsed struct {
		Message    string         `json:"message"`
		ErrorCode  string         `json:"error"`
		Details    map[string]any `json:"details"`
		RetryAfter int            `json:"retry_after"`
	}
	message := ""
	if err := json.Unmarshal(body, &parsed); err == nil {
		message = parsed.Message
		if message == "" {
			message = parsed.ErrorCode
		}
	}
	if message == "" {
		message = string(body)
	}
	if message == "" {
		message = "unknown error"
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{Message: message, Details: parsed.Details}
	case http.StatusTooManyRequests:
		retryAfter := time.Duration(parsed.RetryAfter) * time.Second
		if header := resp.Header.Get("Retry-After"); header != "" {
			if secs, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{Message: message, RetryAfter: retryAfter, Details: parsed.Details}
	default:
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  parsed.ErrorCode,
			Message:    message,
			Details:    parsed.Details,
		}
	}
}
