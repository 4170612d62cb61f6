// Package metadata looks up bibliographic information for an ISBN from
// external sources.
package metadata

import (
	"context"
	"strconv"
	"strings"
)

// BookInfo is the best-effort bibliographic data a source returned.
// Every field may be empty.
type BookInfo struct {
	Title           string `json:"title,omitempty"`
	Author          string `json:"author,omitempty"`
	PublicationYear *int   `json:"publication_year,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	Description     string `json:"description,omitempty"`
	Source          string `json:"source,omitempty"`
}

// IsEmpty reports whether the info carries no usable field.
func (b *BookInfo) IsEmpty() bool {
	if b == nil {
		return true
	}
	return b.Title == "" && b.Author == "" && b.PublicationYear == nil &&
		b.Publisher == "" && b.CoverURL == "" && b.Description == ""
}

// Source is a single bibliographic backend. LookupISBN returns nil, nil
// when the source has no record for the ISBN.
type Source interface {
	Name() string
	LookupISBN(ctx context.Context, isbn string) (*BookInfo, error)
}

// NormalizeISBN keeps only digits and X, and clips the result to 13
// characters. Lowercase x is accepted as X.
func NormalizeISBN(isbn string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(isbn) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if len(cleaned) > 13 {
		cleaned = cleaned[:13]
	}
	return cleaned
}

// extractYear returns the first run of four digits in a date string.
func extractYear(dateStr string) *int {
	for i := 0; i+4 <= len(dateStr); i++ {
		chunk := dateStr[i : i+4]
		if !allDigits(chunk) {
			continue
		}
		year, err := strconv.Atoi(chunk)
		if err != nil {
			return nil
		}
		return &year
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
