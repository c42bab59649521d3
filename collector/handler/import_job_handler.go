package collector_job_handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/collector/images"
	collector_instances "github.com/zemki/molonews-backend/collector/instances"
	"github.com/zemki/molonews-backend/collector/parsers"
	"github.com/zemki/molonews-backend/collector/sink"
	"github.com/zemki/molonews-backend/deduplicator"
	"github.com/zemki/molonews-backend/model"
	"github.com/zemki/molonews-backend/store"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

// ScrapedSourceHost marks the one source that publishes no feed and gets
// its press release listing scraped instead.
const ScrapedSourceHost = "hansestadt-lueneburg.de"

// SummaryPlaceholder replaces empty abstracts and is dropped when a feed
// appends it as a read-more teaser.
const SummaryPlaceholder = "mehr..."

// No source takes longer than this when healthy. The budget covers the feed
// fetch plus per-entry image probes.
const sourceImportTimeout = 2 * time.Minute

/*
ImportJobHandler runs one import over all active sources.

Failures are isolated per source: a broken feed is logged, written to the
source's import_errors column and the run moves on. Only an unreachable
store aborts a run. Every iterated source gets a fresh import_date.
*/
type ImportJobHandler struct {
	Store   store.Store
	Fetcher *collector.FeedFetcher
	Images  *images.Resolver
	Sink    *sink.ArticleSink
	Events  *collector_instances.IcsEventCollector
	Press   *collector_instances.PressReleaseCrawler

	// OnlySource restricts the run to the named source when non-empty.
	OnlySource string

	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time

	dedup *deduplicator.Engine
}

func (h *ImportJobHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *ImportJobHandler) engine() *deduplicator.Engine {
	if h.dedup == nil {
		h.dedup = deduplicator.NewEngine(h.Store)
	}
	return h.dedup
}

// RunImport processes all active rss and ics sources once and returns the
// total number of newly created items.
func (h *ImportJobHandler) RunImport(ctx context.Context) (int, error) {
	if err := h.Store.Ping(); err != nil {
		return 0, errors.Wrap(err, "store unreachable")
	}
	runId := uuid.New().String()
	Logger.LogV2.Infof("import run started", "run "+runId)

	total := 0
	feedSources, err := h.Store.ListActiveSources(model.SourceTypeRss)
	if err != nil {
		return 0, errors.Wrap(err, "list rss sources")
	}
	for _, source := range feedSources {
		if h.skippedByFlag(source) {
			continue
		}
		created, err := h.importFeedSource(ctx, source)
		total += created
		h.finishSource(source, err)
	}

	calendarSources, err := h.Store.ListActiveSources(model.SourceTypeIcs)
	if err != nil {
		return 0, errors.Wrap(err, "list ics sources")
	}
	for _, source := range calendarSources {
		if h.skippedByFlag(source) {
			continue
		}
		sctx, cancel := context.WithTimeout(ctx, sourceImportTimeout)
		created, err := h.Events.CollectSource(sctx, source)
		cancel()
		total += created
		h.finishSource(source, err)
	}

	Logger.LogV2.Infof(fmt.Sprintf("import run %s finished, %d items created", runId, total))
	return total, nil
}

func (h *ImportJobHandler) skippedByFlag(source *model.Source) bool {
	return len(h.OnlySource) > 0 && source.Name != h.OnlySource
}

// finishSource writes the per-source import bookkeeping. Only a successful
// run gets a fresh import_date; a clean run also clears any accumulated
// error text.
func (h *ImportJobHandler) finishSource(source *model.Source, importErr error) {
	importErrors := ""
	var importDate *time.Time
	if importErr != nil {
		importErrors = importErr.Error()
		Logger.LogV2.Errorf("importing source "+source.Name+" failed", importErr)
	} else {
		now := h.now()
		importDate = &now
	}
	if err := h.Store.UpdateSourceImportStatus(source.Id, importDate, importErrors); err != nil {
		Logger.LogV2.Errorf("updating import status for source "+source.Name+" failed", err)
	}
}

func (h *ImportJobHandler) importFeedSource(ctx context.Context, source *model.Source) (int, error) {
	sctx, cancel := context.WithTimeout(ctx, sourceImportTimeout)
	defer cancel()

	if strings.Contains(source.Link, ScrapedSourceHost) {
		return h.importScrapedSource(sctx, source)
	}

	feed, err := h.Fetcher.FetchFeed(sctx, source.Link)
	if err != nil {
		return 0, err
	}
	parse := parsers.GetParserFunction(source.Parser)

	created := 0
	for _, item := range feed.Items {
		if item == nil || len(strings.TrimSpace(item.Title)) == 0 {
			continue
		}
		entry, err := parse(collector.RawEntryFromFeedItem(item))
		if err != nil {
			Logger.LogV2.Errorf("parsing entry failed", source.Name, item.Title, err)
			continue
		}
		entry.Summary = CleanSummary(entry.Summary)

		n, err := h.processEntry(sctx, entry, source, false)
		if err != nil {
			Logger.LogV2.Errorf("processing entry failed", source.Name, entry.Title, err)
			continue
		}
		created += n
	}
	return created, nil
}

func (h *ImportJobHandler) importScrapedSource(ctx context.Context, source *model.Source) (int, error) {
	entries, err := h.Press.Collect(source.Link)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, entry := range entries {
		n, err := h.processEntry(ctx, entry, source, true)
		if err != nil {
			Logger.LogV2.Errorf("processing press release failed", source.Name, entry.Title, err)
			continue
		}
		created += n
	}
	return created, nil
}

// processEntry resolves one entry against the store and applies the verdict.
// Returns 1 when an article was created.
func (h *ImportJobHandler) processEntry(ctx context.Context, entry *collector.ParsedEntry, source *model.Source, matchByTitle bool) (int, error) {
	resolveImage := h.lazyImage(ctx, entry, source)
	resolution, err := h.engine().Resolve(deduplicator.Query{
		Entry:        entry,
		SourceId:     source.Id,
		MatchByTitle: matchByTitle,
		ResolveImage: resolveImage,
	})
	if err != nil {
		return 0, err
	}

	switch resolution.Action {
	case deduplicator.ActionCreate:
		if _, err := h.Sink.WriteArticle(ctx, entry, source, resolveImage()); err != nil {
			return 0, err
		}
		Logger.LogV2.Infof("created article", source.Name, entry.Title)
		return 1, nil
	case deduplicator.ActionUpdate:
		resolution.Changes.Apply(resolution.Existing)
		if err := h.Store.UpdateArticle(resolution.Existing); err != nil {
			return 0, errors.Wrap(err, "update article")
		}
		Logger.LogV2.Infof("updated article", source.Name, entry.Title, resolution.Changes.Describe())
	case deduplicator.ActionDelete:
		if err := h.Store.DeleteArticle(resolution.Existing); err != nil {
			return 0, errors.Wrap(err, "delete article")
		}
		Logger.LogV2.Infof("deleted depublicated article", source.Name, entry.Title)
	case deduplicator.ActionSkip:
		Logger.LogV2.Debugf("skipped entry", source.Name, entry.Title, resolution.Reason)
	}
	return 0, nil
}

// lazyImage memoizes image resolution for one entry, so that the probe runs
// at most once and only when a create or diff actually needs it.
func (h *ImportJobHandler) lazyImage(ctx context.Context, entry *collector.ParsedEntry, source *model.Source) func() string {
	resolved := false
	imageUrl := ""
	return func() string {
		if !resolved {
			imageUrl = h.Images.Resolve(ctx, entry, source.DefaultImageUrl)
			resolved = true
		}
		return imageUrl
	}
}

// CleanSummary normalizes a feed abstract: trailing read-more teasers are
// dropped, agency bylines ("Von ... dpa") are cut and an empty abstract
// becomes the placeholder.
func CleanSummary(summary string) string {
	cleaned := strings.TrimSpace(summary)

	if strings.Index(cleaned, SummaryPlaceholder) > 8 {
		cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, SummaryPlaceholder, ""))
	}

	if strings.Contains(cleaned, "Von") {
		if idx := strings.Index(cleaned, "dpa"); idx >= 0 {
			cleaned = strings.TrimSpace(cleaned[idx+len("dpa"):])
		}
	}

	if len(cleaned) == 0 {
		return SummaryPlaceholder
	}
	return cleaned
}
