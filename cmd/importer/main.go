package main

import (
	"context"
	"os"
	"time"

	"github.com/zemki/molonews-backend/collector"
	collector_job_handler "github.com/zemki/molonews-backend/collector/handler"
	"github.com/zemki/molonews-backend/collector/images"
	collector_instances "github.com/zemki/molonews-backend/collector/instances"
	"github.com/zemki/molonews-backend/collector/sink"
	"github.com/zemki/molonews-backend/collector/tagging"
	"github.com/zemki/molonews-backend/store"
	"github.com/zemki/molonews-backend/utils/dotenv"
	Flag "github.com/zemki/molonews-backend/utils/flag"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

// A full run over all sources stays well below this in practice.
const runTimeout = 30 * time.Minute

func main() {
	Flag.ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := store.ConnectDb(os.Getenv("DATABASE_DSN"))
	if err != nil {
		Logger.LogV2.Errorf("connecting to database failed", err)
		os.Exit(1)
	}
	s := store.NewGormStore(db)

	fetcher := collector.NewFeedFetcher()
	tagger := tagging.NewEngine(tagging.NewHttpClassifier(os.Getenv("TAGGER_URL")))

	handler := &collector_job_handler.ImportJobHandler{
		Store:      s,
		Fetcher:    fetcher,
		Images:     images.NewResolver(),
		Sink:       &sink.ArticleSink{Store: s, Tagger: tagger},
		Events:     &collector_instances.IcsEventCollector{Fetcher: fetcher, Store: s},
		Press:      &collector_instances.PressReleaseCrawler{},
		OnlySource: *Flag.ImportSource,
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	created, err := handler.RunImport(ctx)
	if err != nil {
		Logger.LogV2.Errorf("import run failed", err)
		os.Exit(1)
	}
	Logger.LogV2.Infof("import run complete", created, "items created")
}
