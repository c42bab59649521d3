package model

import "time"

/*
Article is a persisted news item.

Link: canonical URL of the item, used as the second dedup key.
ForeignId: stable identifier supplied by the originating source, primary
dedup key when present. Unique when non-null.
Date / Moddate: publication and last-modification timestamps as reported by
the source.
Published / Reviewed / UpForReview / Draft: editorial workflow flags. Freshly
imported articles get the source's default publish flag and are put up for
review.
Tags / Areas: "many-to-many" relations driving feed filtering.
Source: origin feed, "belongs-to" relation, required.
*/
type Article struct {
	Id          string    `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"<-:create"`
	UpdatedAt   time.Time
	Title       string `gorm:"not null"`
	Abstract    string
	Content     string
	Date        time.Time
	Moddate     time.Time
	Link        string  `gorm:"index"`
	ForeignId   *string `gorm:"uniqueIndex"`
	ImageUrl    string
	ImageSource string
	Address     string
	Tags        []*Tag  `gorm:"many2many:article_tags;constraint:OnDelete:CASCADE;"`
	Areas       []*Area `gorm:"many2many:article_areas;constraint:OnDelete:CASCADE;"`
	SourceId    string  `gorm:"not null;index"`
	Source      Source  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Published   bool
	Reviewed    bool
	UpForReview bool
	Draft       bool
	IsHot       bool

	PushNotificationSent   bool
	PushNotificationQueued bool
	RequestCount           uint
}
