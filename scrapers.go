package gofetch

import (
	"context"
	"errors"
	"slices"

	"github.com/samber/lo"
)

// Per-platform strings that mark an item as an expected empty outcome rather
// than real data. Items carrying one of these in their "error" or "note"
// field are dropped by FilterItems.

var instagramIgnoredErrors = []string{
	"not_found",
	"no_items",
	"Page not found",
	"Restricted profile",
	"restricted_page",
}

var tiktokIgnoredErrors = []string{
	"This profile/hashtag does not exist.",
}

var tiktokIgnoredNotes = []string{
	"No videos found to match the date filter",
	"Profile has no videos",
	"Profile has no videos (or is behind a login wall)",
	"Profile is private",
	"No videos found to match the filter",
}

var youtubeIgnoredErrors = []string{
	"NO_VIDEOS",
	"VIDEO_UNAVAILABLE",
	"CHANNEL_HAS_NO_LIVE_VIDEOS",
	"DATE_FILTER_TOO_STRICT",
	"CHANNEL_HAS_NO_SHORTS",
	"CHANNEL_DOES_NOT_EXIST",
}

var youtubeIgnoredNotes = []string{
	"The channel has no live videos.",
	"The channel has no shorts.",
	"The channel has no streams.",
	"No videos found on the page.",
	"No videos were collected due to date filtering.",
	"Channel does not exist",
	"Channel is empty",
	"This video is not available",
	"No results were collected during scrape - make sure video limits are set above 0",
}

var platformIgnoredErrors = map[string][]string{
	"instagram":         instagramIgnoredErrors,
	"instagram_profile": instagramIgnoredErrors,
	"instagram_posts":   instagramIgnoredErrors,
	"tiktok":            tiktokIgnoredErrors,
	"youtube":           youtubeIgnoredErrors,
}

var platformIgnoredNotes = map[string][]string{
	"tiktok":  tiktokIgnoredNotes,
	"youtube": youtubeIgnoredNotes,
}

// FilterItems drops items whose "error" or "note" field matches one of the
// scraper type's ignorable strings. Unknown scraper types filter nothing.
func FilterItems(scraperType string, items []Item) []Item {
	ignoredErrors := platformIgnoredErrors[scraperType]
	ignoredNotes := platformIgnoredNotes[scraperType]

	return lo.Filter(items, func(item Item, _ int) bool {
		if msg, ok := item["error"].(string); ok && msg != "" && slices.Contains(ignoredErrors, msg) {
			return false
		}
		if note, ok := item["note"].(string); ok && note != "" && slices.Contains(ignoredNotes, note) {
			return false
		}
		return true
	})
}

// Scraper bundles an actor with its platform filter table, so callers get
// result items with expected-empty placeholders already removed.
type Scraper struct {
	client      *Client
	actor       *ActorClient
	scraperType string
}

// Run executes the scraper and waits for the outcome; see ActorClient.Call
// for the wait and error contract.
func (s *Scraper) Run(ctx context.Context, input map[string]any, opts ...CallOption) (*Run, error) {
	return s.actor.Call(ctx, input, opts...)
}

// Fetch retrieves and filters the result items of a finished run.
func (s *Scraper) Fetch(ctx context.Context, run *Run) ([]Item, error) {
	if run == nil {
		return nil, errors.New("no run to fetch results for")
	}
	datasetID := run.DefaultDatasetID
	if datasetID == "" {
		datasetID = run.ID
	}
	if datasetID == "" {
		return nil, errors.New("run has no dataset ID")
	}

	items, err := s.client.Dataset(datasetID).ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return FilterItems(s.scraperType, items), nil
}
