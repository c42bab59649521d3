package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zemki/molonews-backend/model"
)

// ConnectDb opens the backing postgres database from a DSN.
func ConnectDb(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}
	return db, nil
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListActiveSources(sourceType model.SourceType) ([]*model.Source, error) {
	var sources []*model.Source
	result := s.db.
		Preload("DefaultTags").
		Preload("Areas").
		Where("type = ? AND active = ?", sourceType, true).
		Find(&sources)
	if result.Error != nil {
		return nil, result.Error
	}
	return sources, nil
}

func (s *GormStore) UpdateSourceImportStatus(sourceId string, importDate *time.Time, importErrors string) error {
	updates := map[string]interface{}{"import_errors": importErrors}
	if importDate != nil {
		updates["import_date"] = importDate
	}
	return s.db.Model(&model.Source{}).Where("id = ?", sourceId).Updates(updates).Error
}

func (s *GormStore) GetArticleByForeignId(foreignId string) (*model.Article, error) {
	var article model.Article
	result := s.db.Where("foreign_id = ?", foreignId).First(&article)
	return firstArticleResult(&article, result)
}

func (s *GormStore) GetArticleByLink(link string) (*model.Article, error) {
	var article model.Article
	result := s.db.Where("link = ?", link).First(&article)
	return firstArticleResult(&article, result)
}

func (s *GormStore) GetArticleByTitle(title string, sourceId string) (*model.Article, error) {
	var article model.Article
	result := s.db.Where("title = ? AND source_id = ?", title, sourceId).First(&article)
	return firstArticleResult(&article, result)
}

func firstArticleResult(article *model.Article, result *gorm.DB) (*model.Article, error) {
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return article, nil
}

func (s *GormStore) CreateArticle(article *model.Article) error {
	if len(article.Id) == 0 {
		article.Id = uuid.New().String()
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(article).Error
	})
}

func (s *GormStore) UpdateArticle(article *model.Article) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(article).Error
	})
}

func (s *GormStore) DeleteArticle(article *model.Article) error {
	return s.db.Delete(article).Error
}

func (s *GormStore) GetTagsByNames(names []string) ([]*model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var tags []*model.Tag
	if err := s.db.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *GormStore) GetTagByName(name string) (*model.Tag, error) {
	var tag model.Tag
	result := s.db.Where("name = ?", name).First(&tag)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &tag, nil
}

func (s *GormStore) EventExists(title string, sourceId string, start time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&model.Event{}).
		Where("title = ? AND source_id = ? AND start_date = ?", title, sourceId, start).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateEventWithOccurrence(event *model.Event, occurrence *model.EventOccurrence) error {
	if len(event.Id) == 0 {
		event.Id = uuid.New().String()
	}
	if len(occurrence.Id) == 0 {
		occurrence.Id = uuid.New().String()
	}
	occurrence.EventId = event.Id
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(occurrence).Error
	})
}

func (s *GormStore) ListEvents() ([]*model.Event, error) {
	var events []*model.Event
	if err := s.db.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormStore) ListOccurrences(eventId string) ([]model.EventOccurrence, error) {
	var occurrences []model.EventOccurrence
	err := s.db.Where("event_id = ?", eventId).Order("start_datetime").Find(&occurrences).Error
	if err != nil {
		return nil, err
	}
	return occurrences, nil
}

func (s *GormStore) ReplaceOccurrences(eventId string, occurrences []model.EventOccurrence) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventId).Delete(&model.EventOccurrence{}).Error; err != nil {
			return err
		}
		for i := range occurrences {
			occurrences[i].EventId = eventId
			if len(occurrences[i].Id) == 0 {
				occurrences[i].Id = uuid.New().String()
			}
			if err := tx.Create(&occurrences[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) Ping() error {
	sqlDb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Ping()
}
