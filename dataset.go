package gofetch

import (
	"context"
	"net/url"
	"strconv"
)

// defaultPageSize is how many items each results request asks for.
const defaultPageSize = 100

// ItemsOption configures dataset retrieval.
type ItemsOption func(*itemsOptions)

type itemsOptions struct {
	offset int
	limit  int // <0 means no limit
}

// WithItemsOffset skips the first n items of the dataset.
func WithItemsOffset(n int) ItemsOption {
	return func(o *itemsOptions) {
		if n > 0 {
			o.offset = n
		}
	}
}

// WithItemsLimit caps how many items are returned.
func WithItemsLimit(n int) ItemsOption {
	return func(o *itemsOptions) {
		if n >= 0 {
			o.limit = n
		}
	}
}

func newItemsOptions(opts []ItemsOption) itemsOptions {
	o := itemsOptions{limit: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DatasetClient reads a job's result rows behind Apify's DatasetClient
// interface. In GoFetch the job ID doubles as the dataset ID.
type DatasetClient struct {
	transport *Transport
	datasetID string
}

// resultsPage matches the results endpoint's body. Older deployments use
// "items" where newer ones use "results"; accept both.
type resultsPage struct {
	Results []Item `json:"results"`
	Items   []Item `json:"items"`
	Total   int    `json:"total"`
}

func (p *resultsPage) items() []Item {
	if p.Results != nil {
		return p.Results
	}
	return p.Items
}

// IterateItems returns a lazy iterator over the dataset. Pages are fetched
// on demand; each item carries a "runId" back-reference to the owning job.
//
//	it := ds.IterateItems(ctx)
//	for it.Next() {
//		handle(it.Item())
//	}
//	if err := it.Err(); err != nil { ... }
func (d *DatasetClient) IterateItems(ctx context.Context, opts ...ItemsOption) *ItemIterator {
	o := newItemsOptions(opts)
	return &ItemIterator{
		ctx:       ctx,
		client:    d,
		offset:    o.offset,
		remaining: o.limit,
	}
}

// ListItems fetches the whole dataset eagerly. Equivalent to draining
// IterateItems.
func (d *DatasetClient) ListItems(ctx context.Context, opts ...ItemsOption) ([]Item, error) {
	var items []Item
	it := d.IterateItems(ctx, opts...)
	for it.Next() {
		items = append(items, it.Item())
	}
	return items, it.Err()
}

// GetInfo returns dataset metadata derived from the owning job.
func (d *DatasetClient) GetInfo(ctx context.Context) (*DatasetInfo, error) {
	var job Job
	if err := d.transport.Get(ctx, "/api/v1/jobs/"+d.datasetID+"/", nil, &job); err != nil {
		return nil, err
	}
	return &DatasetInfo{
		ID:         d.datasetID,
		Name:       "gofetch-" + d.datasetID,
		ItemCount:  job.ItemsScraped,
		CreatedAt:  job.CreatedAt,
		ModifiedAt: job.UpdatedAt,
	}, nil
}

// Delete is a deliberate no-op kept for Apify compatibility: GoFetch result
// storage expires automatically server-side, so there is nothing to remove.
// Contrast with RunClient.Delete, which fails loudly.
func (d *DatasetClient) Delete(ctx context.Context) error {
	return nil
}

// ItemIterator walks a dataset page by page. Next advances to the following
// item and reports whether one is available; after it returns false, Err
// tells success from failure apart.
type ItemIterator struct {
	ctx    context.Context
	client *DatasetClient

	offset    int
	remaining int // <0 means unlimited
	buf       []Item
	pos       int
	done      bool
	err       error
}

// Next fetches the next item, requesting a new page when the buffer runs out.
func (it *ItemIterator) Next() bool {
	if it.err != nil || it.remaining == 0 {
		return false
	}
	if it.pos >= len(it.buf) {
		if it.done || !it.fetchPage() {
			return false
		}
	}
	if it.remaining > 0 {
		it.remaining--
	}
	it.pos++
	return true
}

// Item returns the item Next advanced to.
func (it *ItemIterator) Item() Item {
	return it.buf[it.pos-1]
}

// Err returns the first transport error encountered, if any.
func (it *ItemIterator) Err() error {
	return it.err
}

func (it *ItemIterator) fetchPage() bool {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(it.offset))
	params.Set("limit", strconv.Itoa(defaultPageSize))

	var page resultsPage
	if err := it.client.transport.Get(it.ctx, "/api/v1/jobs/"+it.client.datasetID+"/results/", params, &page); err != nil {
		it.err = err
		return false
	}

	items := page.items()
	if len(items) == 0 {
		it.done = true
		return false
	}
	for _, item := range items {
		item["runId"] = it.client.datasetID
	}

	it.buf = items
	it.pos = 0
	it.offset += len(items)
	if it.offset >= page.Total {
		it.done = true
	}
	return true
}
