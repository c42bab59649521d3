package model

import "time"

type SourceType string

const (
	SourceTypeRss   SourceType = "rss"
	SourceTypeIcs   SourceType = "ics"
	SourceTypeJson  SourceType = "json"
	SourceTypeLocal SourceType = "local"
)

/*
Source is one configured feed origin the ingestion pipeline polls.

Type: rss / ics / json / local. Local sources carry no link and are never
polled.
Parser: name of the entry parser to apply, empty means "generic".
Active: inactive sources are skipped entirely.
DefaultPublished / DefaultImageUrl / DefaultCategory / DefaultTags / Areas:
defaults stamped onto items imported from this source.
ImportDate / ImportErrors: written back by the pipeline once per run; the
rest of the record is read-only to the importer and managed via the admin.
*/
type Source struct {
	Id               string    `gorm:"primaryKey"`
	CreatedAt        time.Time `gorm:"<-:create"`
	UpdatedAt        time.Time
	Name             string     `gorm:"not null"`
	Type             SourceType `gorm:"not null"`
	Parser           string
	Link             string
	Active           bool
	DefaultCategoryId string
	DefaultCategory  Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	DefaultTags      []*Tag   `gorm:"many2many:source_default_tags;"`
	DefaultPublished bool
	DefaultImageUrl  string
	ImportDate       *time.Time
	ImportErrors     string
	Areas            []*Area `gorm:"many2many:source_areas;"`
}
