package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/model"
)

// MemoryStore is an in-memory Store used by unit tests and local dry runs.
// Lookups hand out copies so callers mutate persisted state only through
// UpdateArticle, the same way a real database behaves.
type MemoryStore struct {
	mu sync.Mutex

	Sources     []*model.Source
	Tags        []*model.Tag
	articles    map[string]*model.Article
	events      map[string]*model.Event
	occurrences map[string][]model.EventOccurrence

	Unreachable bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles:    map[string]*model.Article{},
		events:      map[string]*model.Event{},
		occurrences: map[string][]model.EventOccurrence{},
	}
}

func copyArticle(article *model.Article) *model.Article {
	var out model.Article
	// copier is fine with the plain value fields we diff against.
	_ = copier.Copy(&out, article)
	return &out
}

func (s *MemoryStore) ListActiveSources(sourceType model.SourceType) ([]*model.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Source
	for _, source := range s.Sources {
		if source.Type == sourceType && source.Active {
			out = append(out, source)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateSourceImportStatus(sourceId string, importDate *time.Time, importErrors string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, source := range s.Sources {
		if source.Id == sourceId {
			if importDate != nil {
				source.ImportDate = importDate
			}
			source.ImportErrors = importErrors
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) GetArticleByForeignId(foreignId string) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, article := range s.articles {
		if article.ForeignId != nil && *article.ForeignId == foreignId {
			return copyArticle(article), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetArticleByLink(link string) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, article := range s.articles {
		if article.Link == link {
			return copyArticle(article), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetArticleByTitle(title string, sourceId string) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, article := range s.articles {
		if article.Title == title && article.SourceId == sourceId {
			return copyArticle(article), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateArticle(article *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(article.Id) == 0 {
		article.Id = uuid.New().String()
	}
	if article.ForeignId != nil {
		for _, existing := range s.articles {
			if existing.ForeignId != nil && *existing.ForeignId == *article.ForeignId {
				return errors.Wrap(ErrDuplicate, "foreign_id")
			}
		}
	}
	s.articles[article.Id] = copyArticle(article)
	return nil
}

func (s *MemoryStore) UpdateArticle(article *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[article.Id]; !ok {
		return ErrNotFound
	}
	s.articles[article.Id] = copyArticle(article)
	return nil
}

func (s *MemoryStore) DeleteArticle(article *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.articles, article.Id)
	return nil
}

func (s *MemoryStore) GetTagsByNames(names []string) ([]*model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Tag
	for _, name := range names {
		for _, tag := range s.Tags {
			if tag.Name == name {
				out = append(out, tag)
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) GetTagByName(name string) (*model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range s.Tags {
		if tag.Name == name {
			return tag, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) EventExists(title string, sourceId string, start time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range s.events {
		if event.Title == title && event.SourceId == sourceId && event.StartDate.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateEventWithOccurrence(event *model.Event, occurrence *model.EventOccurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(event.Id) == 0 {
		event.Id = uuid.New().String()
	}
	if len(occurrence.Id) == 0 {
		occurrence.Id = uuid.New().String()
	}
	occurrence.EventId = event.Id
	s.events[event.Id] = event
	s.occurrences[event.Id] = append(s.occurrences[event.Id], *occurrence)
	return nil
}

func (s *MemoryStore) ListEvents() ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, event := range s.events {
		out = append(out, event)
	}
	return out, nil
}

func (s *MemoryStore) ListOccurrences(eventId string) ([]model.EventOccurrence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.EventOccurrence{}, s.occurrences[eventId]...), nil
}

func (s *MemoryStore) ReplaceOccurrences(eventId string, occurrences []model.EventOccurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := make([]model.EventOccurrence, 0, len(occurrences))
	for _, occurrence := range occurrences {
		occurrence.EventId = eventId
		if len(occurrence.Id) == 0 {
			occurrence.Id = uuid.New().String()
		}
		replaced = append(replaced, occurrence)
	}
	s.occurrences[eventId] = replaced
	return nil
}

func (s *MemoryStore) Ping() error {
	if s.Unreachable {
		return errors.New("store: unreachable")
	}
	return nil
}

// Articles returns a snapshot of all persisted articles, for test assertions.
func (s *MemoryStore) Articles() []*model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Article
	for _, article := range s.articles {
		out = append(out, copyArticle(article))
	}
	return out
}

// Events returns a snapshot of all persisted events, for test assertions.
func (s *MemoryStore) Events() []*model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, event := range s.events {
		out = append(out, event)
	}
	return out
}
