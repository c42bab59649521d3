package model

import "time"

/*
Event is a persisted calendar item, sharing the editorial shape of Article
plus location data and one-to-many occurrences.

StartDate: start of the earliest occurrence, denormalized for list queries.
Latitude / Longitude: geocoded from street/town/zip outside this core.
Occurrences: concrete start/end instances. The importer creates exactly one
occurrence per VEVENT; occurrences are replaced wholesale on maintenance
runs, never diffed individually.
*/
type Event struct {
	Id          string    `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"<-:create"`
	UpdatedAt   time.Time
	Title       string `gorm:"not null"`
	Content     string
	Date        time.Time
	StartDate   time.Time
	Moddate     time.Time
	Link        string
	ForeignId   *string `gorm:"uniqueIndex"`
	ImageUrl    string
	ImageSource string

	ZipCode       string
	Street        string
	Town          string
	EventLocation string
	Latitude      float64
	Longitude     float64

	Tags   []*Tag  `gorm:"many2many:event_tags;constraint:OnDelete:CASCADE;"`
	Areas  []*Area `gorm:"many2many:event_areas;constraint:OnDelete:CASCADE;"`
	SourceId string `gorm:"not null;index"`
	Source   Source `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Occurrences []EventOccurrence `gorm:"constraint:OnDelete:CASCADE;"`

	Published   bool
	Reviewed    bool
	UpForReview bool
	Draft       bool

	PushNotificationSent   bool
	PushNotificationQueued bool
	RequestCount           uint
}

// EventOccurrence is one concrete start/end instance of an event.
type EventOccurrence struct {
	Id            string `gorm:"primaryKey"`
	EventId       string `gorm:"not null;index"`
	StartDatetime time.Time
	EndDatetime   time.Time
}
