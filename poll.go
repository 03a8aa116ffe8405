package gofetch

import (
	"context"
	"time"

	"github.com/YevheniiM/gofetch-client/telemetry"
)

// Polling policy. These are fixed constants rather than per-call knobs so
// every caller observes the same request volume on long-running jobs.
const (
	// DefaultPollInterval is the delay before the second status poll.
	DefaultPollInterval = 2 * time.Second
	// MaxPollInterval caps the growth of the poll delay.
	MaxPollInterval = 30 * time.Second
	// PollBackoffFactor multiplies the delay after every non-terminal poll.
	PollBackoffFactor = 1.5
)

// waitIndefinitely is the internal sentinel for "no wait budget".
const waitIndefinitely time.Duration = -1

// sleepFunc suspends the caller for d or until ctx is done. Injected so the
// poll loop has exactly one implementation and tests can observe the interval
// sequence without waiting it out.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextPollInterval(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * PollBackoffFactor)
	if next > MaxPollInterval {
		return MaxPollInterval
	}
	return next
}

// pollJob polls a job until it reaches a terminal status or the wait budget
// elapses, whichever comes first, and returns the last observed job record.
// A budget of waitIndefinitely polls forever; a budget of zero still performs
// one poll before the deadline check, so callers always get a fresh
// observation.
//
// pollJob never interprets the job's outcome: a failed or timed-out job is
// returned like any other. Only transport errors (including a 404 on the job
// itself) propagate; translating those is the caller's business.
func pollJob(ctx context.Context, t *Transport, sleep sleepFunc, jobID string, waitFor time.Duration) (*Job, error) {
	start := time.Now()
	interval := DefaultPollInterval

	for {
		var job Job
		if err := t.Get(ctx, "/api/v1/jobs/"+jobID+"/", nil, &job); err != nil {
			return nil, err
		}
		telemetry.PollCounter.Inc()

		if IsTerminal(job.Status) {
			t.log.Debug().Str("jobID", jobID).Str("status", string(job.Status)).Msg("job reached terminal status")
			return &job, nil
		}
		if waitFor != waitIndefinitely && time.Since(start) >= waitFor {
			t.log.Debug().Str("jobID", jobID).Dur("waited", time.Since(start)).Msg("wait budget elapsed")
			return &job, nil
		}

		if err := sleep(ctx, interval); err != nil {
			return nil, err
		}
		interval = nextPollInterval(interval)
	}
}
