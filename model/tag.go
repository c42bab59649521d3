package model

// Category groups tags into editorial ressorts (news, event, ...).
type Category struct {
	Id          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Title       string
	Description string
	Rank        int
}

/*
Tag is one entry of the controlled tagging vocabulary.

Name: display name. The ML tagging engine returns plain category names which
are matched case-sensitively against this column; names without a matching
Tag row are dropped.
Category: ressort this tag belongs to, "belongs-to" relation.
*/
type Tag struct {
	Id         string `gorm:"primaryKey"`
	Name       string `gorm:"not null;index"`
	Color      string
	CategoryId string
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
