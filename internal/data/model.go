package data

import (
	"time"
)

// Movie represents the movies table
type Movie struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	ExternalID  string     `gorm:"column:external_id;uniqueIndex:uq_movies_external_id;not null;size:64"`
	Title       string     `gorm:"not null;size:255"`
	ReleaseDate *time.Time `gorm:"type:date"`
	Rating      *float64   `gorm:"column:rating"`
	Genre       string     `gorm:"not null;default:'[]';size:255"`
	Overview    string     `gorm:"type:text"`
	PosterURL   string     `gorm:"column:poster_url;size:512"`
	BackdropURL string     `gorm:"column:backdrop_url;size:512"`
	Popularity  float64    `gorm:"not null;index:idx_movies_popularity,sort:desc"`
	VoteCount   int32      `gorm:"not null"`
	TrailerURL  string     `gorm:"column:trailer_url;size:512"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}
