package gofetch

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// BatchResult is the outcome of one input of a batch call. Exactly one of
// Run and Err is meaningful; a job that failed or timed out still yields a
// Run whose Status says so, Err is reserved for transport failures.
type BatchResult struct {
	Index int
	Input map[string]any
	Run   *Run
	Err   error
}

// CallBatch runs Call for every input with at most concurrency jobs in
// flight, and returns one result per input in input order. Each job gets its
// own wait budget from opts. A transport failure on one input does not stop
// the others.
func (a *ActorClient) CallBatch(ctx context.Context, inputs []map[string]any, concurrency int, opts ...CallOption) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(inputs) {
		concurrency = len(inputs)
	}

	batchID := uuid.New().String()
	a.transport.log.Debug().
		Str("batchID", batchID).
		Int("inputs", len(inputs)).
		Int("concurrency", concurrency).
		Str("scraperType", a.scraperType).
		Msg("starting batch")

	results := make([]BatchResult, len(inputs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				run, err := a.Call(ctx, inputs[i], opts...)
				results[i] = BatchResult{Index: i, Input: inputs[i], Run: run, Err: err}
				if err != nil {
					a.transport.log.Warn().Err(err).Str("batchID", batchID).Int("index", i).Msg("batch input failed")
				}
			}
		}()
	}

	for i := range inputs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
