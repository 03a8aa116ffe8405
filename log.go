package gofetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// LogClient reads a job's execution log.
type LogClient struct {
	transport *Transport
	jobID     string
}

// List returns the structured log entries for the job. A job without logs
// (or a job that no longer exists) yields an empty slice, not an error.
func (l *LogClient) List(ctx context.Context) ([]LogEntry, error) {
	var body struct {
		Results []LogEntry `json:"results"`
	}
	if err := l.transport.Get(ctx, "/api/v1/jobs/"+l.jobID+"/logs/", nil, &body); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return body.Results, nil
}

// Get returns the log as newline-separated text, one "timestamp [LEVEL]
// message" line per entry. Returns "" when the job has no logs.
func (l *LogClient) Get(ctx context.Context) (string, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return "", err
	}
	lines := lo.Map(entries, func(e LogEntry, _ int) string {
		return fmt.Sprintf("%s [%s] %s", e.Timestamp, e.Level, e.Message)
	})
	return strings.Join(lines, "\n"), nil
}
