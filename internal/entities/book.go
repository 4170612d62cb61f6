package entities

import (
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest description the catalog stores.
const MaxDescriptionLength = 500

type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512;not null" json:"title"`
	Author          string    `gorm:"index;size:256;not null" json:"author"`
	ISBN            string    `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	Publisher       string    `gorm:"size:256" json:"publisher,omitempty"`
	Description     string    `gorm:"size:500" json:"description,omitempty"`
	CoverURL        string    `gorm:"size:2048" json:"cover_url,omitempty"`
	Available       bool      `gorm:"not null;index" json:"available"`
	RegisteredAt    time.Time `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// ClipDescription shortens s to MaxDescriptionLength runes, ending in "..."
// when it had to cut.
func ClipDescription(s string) string {
	if utf8.RuneCountInString(s) <= MaxDescriptionLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxDescriptionLength-3]) + "..."
}

// BookStats summarizes the catalog.
type BookStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Unavailable int64 `json:"unavailable"`
}
