package gofetch

import (
	"context"
	"time"

	"github.com/samber/lo"
)

// CallOption configures a blocking or non-blocking actor run.
type CallOption func(*callOptions)

type callOptions struct {
	waitFor  time.Duration
	webhooks []WebhookSpec
}

// WithWaitFor caps how long a blocking call waits for the job to finish.
// Without this option the call waits until the job reaches a terminal state.
// A zero budget still performs exactly one status poll, so the caller gets
// the freshest observable state back.
func WithWaitFor(d time.Duration) CallOption {
	return func(o *callOptions) {
		if d < 0 {
			d = 0
		}
		o.waitFor = d
	}
}

// WithWebhooks registers per-run webhooks at job creation time. Event types
// are given in the Apify vocabulary and translated on the way out.
func WithWebhooks(webhooks ...WebhookSpec) CallOption {
	return func(o *callOptions) {
		o.webhooks = append(o.webhooks, webhooks...)
	}
}

func newCallOptions(opts []CallOption) callOptions {
	o := callOptions{waitFor: waitIndefinitely}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ActorClient runs scraping jobs for one scraper type behind Apify's
// ActorClient interface.
type ActorClient struct {
	transport   *Transport
	scraperType string
	sleep       sleepFunc
}

// Call creates a job and blocks until it reaches a terminal state or the
// wait budget elapses, then returns the current run snapshot.
//
// Call never returns an error because the job failed, was cancelled, or ran
// out of time: the returned Run's Status field is the caller's signal, the
// same contract Apify's client has. Errors are reserved for the transport
// layer, including a 404 on the freshly created job.
func (a *ActorClient) Call(ctx context.Context, input map[string]any, opts ...CallOption) (*Run, error) {
	o := newCallOptions(opts)

	job, err := a.createJob(ctx, input, o.webhooks)
	if err != nil {
		return nil, err
	}

	final, err := pollJob(ctx, a.transport, a.sleep, job.ID, o.waitFor)
	if err != nil {
		return nil, err
	}
	return runFromJob(final, a.scraperType), nil
}

// Start creates a job and returns its run snapshot immediately, without any
// polling. Combine with WithWebhooks to be notified when the job finishes.
func (a *ActorClient) Start(ctx context.Context, input map[string]any, opts ...CallOption) (*Run, error) {
	o := newCallOptions(opts)

	job, err := a.createJob(ctx, input, o.webhooks)
	if err != nil {
		return nil, err
	}
	return runFromJob(job, a.scraperType), nil
}

func (a *ActorClient) createJob(ctx context.Context, input map[string]any, webhooks []WebhookSpec) (*Job, error) {
	payload := map[string]any{
		"scraper_type": a.scraperType,
		"config":       input,
	}
	if len(webhooks) > 0 {
		payload["webhooks"] = lo.Map(webhooks, func(w WebhookSpec, _ int) map[string]any {
			return map[string]any{
				"url": w.RequestURL,
				"events": lo.Map(w.EventTypes, func(e string, _ int) string {
					return eventToGoFetch(e)
				}),
			}
		})
	}

	var job Job
	if err := a.transport.Post(ctx, "/api/v1/jobs/create/", payload, &job); err != nil {
		return nil, err
	}
	a.transport.log.Debug().Str("jobID", job.ID).Str("scraperType", a.scraperType).Msg("job created")
	return &job, nil
}
