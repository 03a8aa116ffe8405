package gofetch

// Translation tables between the GoFetch and Apify vocabularies. These are
// loaded once and must never be mutated at runtime.

var jobToRunStatus = map[JobStatus]RunStatus{
	JobStatusPending:   RunStatusReady,
	JobStatusRunning:   RunStatusRunning,
	JobStatusCompleted: RunStatusSucceeded,
	JobStatusFailed:    RunStatusFailed,
	JobStatusCancelled: RunStatusAborted,
	JobStatusTimedOut:  RunStatusTimedOut,
}

var terminalStatuses = map[JobStatus]struct{}{
	JobStatusCompleted: {},
	JobStatusFailed:    {},
	JobStatusCancelled: {},
	JobStatusTimedOut:  {},
}

// actorIDToScraperType maps Apify actor IDs to GoFetch scraper types. Native
// scraper types are listed too so both naming schemes go through one table.
var actorIDToScraperType = map[string]string{
	"apify/instagram-scraper":           "instagram",
	"apify/instagram-profile-scraper":   "instagram_profile",
	"clockworks/tiktok-profile-scraper": "tiktok",
	"streamers/youtube-scraper":         "youtube",

	"instagram":         "instagram",
	"instagram_profile": "instagram_profile",
	"instagram_posts":   "instagram_posts",
	"tiktok":            "tiktok",
	"youtube":           "youtube",
}

// TranslateStatus converts a GoFetch job status to the Apify run status.
// Unknown statuses translate to RUNNING: an unrecognized value is far more
// likely a new non-terminal state than an error, and callers polling on it
// will simply keep waiting.
func TranslateStatus(status JobStatus) RunStatus {
	if s, ok := jobToRunStatus[status]; ok {
		return s
	}
	return RunStatusRunning
}

// IsTerminal reports whether a job status can never change again.
func IsTerminal(status JobStatus) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// ResolveActorID resolves an Apify-style actor ID to a GoFetch scraper type.
// IDs not in the table pass through unchanged, so native types and future
// scrapers need no client update.
func ResolveActorID(actorID string) string {
	if t, ok := actorIDToScraperType[actorID]; ok {
		return t
	}
	return actorID
}

// runFromJob derives an Apify-shaped run snapshot from a job observation.
// The original job stays reachable via Run.Job.
func runFromJob(job *Job, scraperType string) *Run {
	if scraperType == "" {
		scraperType = job.ScraperType
	}
	if scraperType == "" {
		scraperType = "unknown"
	}
	status := TranslateStatus(job.Status)

	run := &Run{
		ID:               job.ID,
		ActorID:          "gofetch/" + scraperType,
		Status:           status,
		DefaultDatasetID: job.ID,
		StartedAt:        job.StartedAt,
		FinishedAt:       job.CompletedAt,
		Job:              job,
	}
	if status == RunStatusSucceeded {
		exitCode := 0
		run.ExitCode = &exitCode
	}
	return run
}
