package deduplicator

import (
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/model"
	"github.com/zemki/molonews-backend/store"
)

type ActionType int

const (
	// ActionCreate means no stored article matched and the entry is new.
	ActionCreate ActionType = iota
	// ActionUpdate means a stored article matched and the diff is non-empty.
	ActionUpdate
	// ActionDelete means the source retracted a stored article.
	ActionDelete
	// ActionSkip means nothing needs to happen for this entry.
	ActionSkip
)

func (a ActionType) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionSkip:
		return "skip"
	}
	return "unknown"
}

/*
Query is one dedup request.

MatchByTitle enables the title fallback lookup, used for scraped sources
whose entries carry neither a stable foreign id nor a canonical link.
ResolveImage is invoked lazily, only when a matched article actually gets
diffed; skipped and deleted entries never trigger image resolution.
*/
type Query struct {
	Entry        *collector.ParsedEntry
	SourceId     string
	MatchByTitle bool
	ResolveImage func() string
}

// Resolution is the engine's verdict for one entry. Existing is set for
// update and delete. Changes is set for update. Reason explains skips for
// the import log.
type Resolution struct {
	Action   ActionType
	Existing *model.Article
	Changes  *ChangeSet
	Reason   string
}

// Engine decides, per parsed entry, whether the store already knows the
// item and what to do about it. Lookup tries the foreign id first, then the
// link, then optionally the title within the same source.
type Engine struct {
	store store.Store
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

func (e *Engine) Resolve(query Query) (*Resolution, error) {
	entry := query.Entry

	existing, err := e.lookup(query)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if entry.Depublicated {
			return &Resolution{Action: ActionSkip, Reason: "depublicated entry has no stored article"}, nil
		}
		return &Resolution{Action: ActionCreate}, nil
	}

	if entry.Depublicated {
		return &Resolution{Action: ActionDelete, Existing: existing}, nil
	}
	if entry.Moddate == nil {
		return &Resolution{Action: ActionSkip, Existing: existing, Reason: "source reports no modification date"}, nil
	}

	imageUrl := existing.ImageUrl
	if query.ResolveImage != nil {
		imageUrl = query.ResolveImage()
	}
	changes := ComputeChanges(existing, entry, imageUrl)
	if changes.Empty() {
		return &Resolution{Action: ActionSkip, Existing: existing, Reason: "unchanged"}, nil
	}
	return &Resolution{Action: ActionUpdate, Existing: existing, Changes: changes}, nil
}

func (e *Engine) lookup(query Query) (*model.Article, error) {
	entry := query.Entry

	if len(entry.ForeignId) > 0 {
		article, err := e.store.GetArticleByForeignId(entry.ForeignId)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrap(err, "lookup by foreign id")
		}
	}

	if len(entry.Link) > 0 {
		article, err := e.store.GetArticleByLink(entry.Link)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrap(err, "lookup by link")
		}
	}

	if query.MatchByTitle && len(entry.Title) > 0 {
		article, err := e.store.GetArticleByTitle(entry.Title, query.SourceId)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrap(err, "lookup by title")
		}
	}

	return nil, nil
}
