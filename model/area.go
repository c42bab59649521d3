package model

// Area is a named geographic region. Articles, events, sources and app users
// each associate with one or more areas, which drive feed filtering.
type Area struct {
	Id        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Latitude  float64
	Longitude float64
	Zip       string
}
