package gofetch

import (
	"context"
	"fmt"
)

// RunClient manages a single job by ID behind Apify's RunClient interface.
type RunClient struct {
	transport *Transport
	runID     string
	sleep     sleepFunc
}

// Get returns the run's current snapshot, or nil if the job does not exist.
// A missing job is an expected "not there" case here, not an error.
func (r *RunClient) Get(ctx context.Context) (*Run, error) {
	var job Job
	if err := r.transport.Get(ctx, "/api/v1/jobs/"+r.runID+"/", nil, &job); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return runFromJob(&job, job.ScraperType), nil
}

// WaitForFinish polls until the job reaches a terminal state or the wait
// budget elapses, and returns the current snapshot either way. Without
// WithWaitFor it waits indefinitely. Returns nil if the job does not exist.
func (r *RunClient) WaitForFinish(ctx context.Context, opts ...CallOption) (*Run, error) {
	o := newCallOptions(opts)

	job, err := pollJob(ctx, r.transport, r.sleep, r.runID, o.waitFor)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return runFromJob(job, job.ScraperType), nil
}

// Abort requests cancellation of the job and returns the resulting snapshot.
// Aborting is idempotent from the caller's point of view: if the job is
// already terminal the server reports its final state, and if the cancel
// endpoint answers 404 the current state is fetched instead.
func (r *RunClient) Abort(ctx context.Context) (*Run, error) {
	var job Job
	err := r.transport.Post(ctx, "/api/v1/jobs/"+r.runID+"/cancel/", nil, &job)
	if err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		if err := r.transport.Get(ctx, "/api/v1/jobs/"+r.runID+"/", nil, &job); err != nil {
			return nil, err
		}
	}
	return runFromJob(&job, job.ScraperType), nil
}

// Dataset returns a client for this run's results.
func (r *RunClient) Dataset() *DatasetClient {
	return &DatasetClient{transport: r.transport, datasetID: r.runID}
}

// Log returns a client for this run's execution log.
func (r *RunClient) Log() *LogClient {
	return &LogClient{transport: r.transport, jobID: r.runID}
}

// Delete is not supported: GoFetch manages job retention itself and offers
// no way to remove historical jobs.
func (r *RunClient) Delete(ctx context.Context) error {
	return fmt.Errorf("deleting runs: %w", ErrNotSupported)
}
