package store

import (
	"time"

	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/model"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("store: record not found")

// ErrDuplicate is returned when a create would violate a uniqueness
// constraint (foreign_id collision).
var ErrDuplicate = errors.New("store: duplicate record")

// Store is the ingestion pipeline's boundary with the relational backend.
// All mutating calls wrap their writes in a single transaction so that a
// failing entry can never leave partial rows behind (e.g. an event without
// its occurrence).
type Store interface {
	// Sources are read-only to the importer except for the per-run import
	// bookkeeping columns.
	ListActiveSources(sourceType model.SourceType) ([]*model.Source, error)
	UpdateSourceImportStatus(sourceId string, importDate *time.Time, importErrors string) error

	GetArticleByForeignId(foreignId string) (*model.Article, error)
	GetArticleByLink(link string) (*model.Article, error)
	GetArticleByTitle(title string, sourceId string) (*model.Article, error)
	CreateArticle(article *model.Article) error
	UpdateArticle(article *model.Article) error
	DeleteArticle(article *model.Article) error

	// GetTagsByNames matches names case-sensitively against Tag.Name and
	// silently drops names without a persisted tag.
	GetTagsByNames(names []string) ([]*model.Tag, error)
	GetTagByName(name string) (*model.Tag, error)

	EventExists(title string, sourceId string, start time.Time) (bool, error)
	CreateEventWithOccurrence(event *model.Event, occurrence *model.EventOccurrence) error
	ListEvents() ([]*model.Event, error)
	ListOccurrences(eventId string) ([]model.EventOccurrence, error)
	ReplaceOccurrences(eventId string, occurrences []model.EventOccurrence) error

	// Ping verifies backend connectivity. An unreachable store is the one
	// error that aborts a whole import run.
	Ping() error
}
