// Command gofetch submits a scraping job and prints its results, one JSON
// object per line.
//
// Usage:
//
//	GOFETCH_API_KEY=sk_scr_... gofetch -actor instagram -input '{"directUrls":["https://instagram.com/nike"]}'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	gofetch "github.com/YevheniiM/gofetch-client"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file, using environment variables")
	}

	actorID := flag.String("actor", "", "actor ID or scraper type (e.g. instagram)")
	inputJSON := flag.String("input", "{}", "job configuration as JSON")
	wait := flag.Duration("wait", 0, "maximum wait time (0 = wait until the job finishes)")
	start := flag.Bool("start", false, "create the job and exit without waiting")
	flag.Parse()

	if *actorID == "" {
		flag.Usage()
		os.Exit(2)
	}

	apiKey := os.Getenv("GOFETCH_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("GOFETCH_API_KEY is not set")
	}

	opts := []gofetch.ClientOption{gofetch.WithLogger(log.Logger)}
	if baseURL := os.Getenv("GOFETCH_BASE_URL"); baseURL != "" {
		opts = append(opts, gofetch.WithBaseURL(baseURL))
	}

	client, err := gofetch.NewClient(apiKey, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create client")
	}

	var input map[string]any
	if err := json.Unmarshal([]byte(*inputJSON), &input); err != nil {
		log.Fatal().Err(err).Msg("invalid -input JSON")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	actor := client.Actor(*actorID)

	if *start {
		run, err := actor.Start(ctx, input)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start job")
		}
		log.Info().Str("runID", run.ID).Str("status", string(run.Status)).Msg("job started")
		fmt.Println(run.ID)
		return
	}

	callOpts := []gofetch.CallOption{}
	if *wait > 0 {
		callOpts = append(callOpts, gofetch.WithWaitFor(*wait))
	}

	started := time.Now()
	run, err := actor.Call(ctx, input, callOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("job submission failed")
	}
	log.Info().
		Str("runID", run.ID).
		Str("status", string(run.Status)).
		Dur("took", time.Since(started)).
		Msg("job finished")

	if run.Status != gofetch.RunStatusSucceeded {
		log.Warn().Str("status", string(run.Status)).Msg("job did not succeed, skipping results")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	it := client.Dataset(run.DefaultDatasetID).IterateItems(ctx)
	count := 0
	for it.Next() {
		if err := enc.Encode(it.Item()); err != nil {
			log.Fatal().Err(err).Msg("failed to write item")
		}
		count++
	}
	if err := it.Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to fetch results")
	}
	log.Info().Int("items", count).Msg("done")
}
