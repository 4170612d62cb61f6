package catalog

import (
	"context"
	"log"
	"strings"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
	"github.com/mrlokans/librarian/internal/metadata"
	"github.com/mrlokans/librarian/internal/services"
)

type fillMode int

const (
	// fillEmpty only writes a field the book does not have yet.
	fillEmpty fillMode = iota
	// refresh overwrites whenever the lookup supplied a value.
	refresh
)

type enrichmentRule struct {
	Field string
	Mode  fillMode
	apply func(book *entities.Book, info *metadata.BookInfo, mode fillMode) bool
}

var enrichmentPolicy = []enrichmentRule{
	stringRule("title", fillEmpty,
		func(b *entities.Book) *string { return &b.Title },
		func(i *metadata.BookInfo) string { return i.Title }),
	stringRule("author", fillEmpty,
		func(b *entities.Book) *string { return &b.Author },
		func(i *metadata.BookInfo) string { return i.Author }),
	yearRule("publication_year", fillEmpty),
	stringRule("publisher", fillEmpty,
		func(b *entities.Book) *string { return &b.Publisher },
		func(i *metadata.BookInfo) string { return i.Publisher }),
	stringRule("cover_url", refresh,
		func(b *entities.Book) *string { return &b.CoverURL },
		func(i *metadata.BookInfo) string { return i.CoverURL }),
	stringRule("description", refresh,
		func(b *entities.Book) *string { return &b.Description },
		func(i *metadata.BookInfo) string { return entities.ClipDescription(i.Description) }),
}

func stringRule(field string, mode fillMode, target func(*entities.Book) *string, value func(*metadata.BookInfo) string) enrichmentRule {
	return enrichmentRule{
		Field: field,
		Mode:  mode,
		apply: func(book *entities.Book, info *metadata.BookInfo, mode fillMode) bool {
			incoming := strings.TrimSpace(value(info))
			if incoming == "" {
				return false
			}
			current := target(book)
			if mode == fillEmpty && strings.TrimSpace(*current) != "" {
				return false
			}
			if *current == incoming {
				return false
			}
			*current = incoming
			return true
		},
	}
}

func yearRule(field string, mode fillMode) enrichmentRule {
	return enrichmentRule{
		Field: field,
		Mode:  mode,
		apply: func(book *entities.Book, info *metadata.BookInfo, mode fillMode) bool {
			if info.PublicationYear == nil {
				return false
			}
			if book.PublicationYear != nil {
				if mode == fillEmpty || *book.PublicationYear == *info.PublicationYear {
					return false
				}
			}
			year := *info.PublicationYear
			book.PublicationYear = &year
			return true
		},
	}
}

// applyEnrichment runs the policy and returns the fields it changed.
func applyEnrichment(book *entities.Book, info *metadata.BookInfo) []string {
	var changed []string
	for _, rule := range enrichmentPolicy {
		if rule.apply(book, info, rule.Mode) {
			changed = append(changed, rule.Field)
		}
	}
	return changed
}

// LookupISBN previews what the metadata sources know about an ISBN.
func (m *Manager) LookupISBN(ctx context.Context, isbn string) (*metadata.BookInfo, error) {
	info, err := m.lookup.Lookup(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, isbnNotFound(isbn)
	}
	return info, nil
}

func isbnNotFound(isbn string) error {
	return domainerrors.NotFound("ISBN not found in external sources").
		WithDetails(map[string]any{"isbn": isbn})
}

// CreateFromISBN registers a book built from external metadata.
func (m *Manager) CreateFromISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	isbn = strings.TrimSpace(isbn)

	info, err := m.LookupISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	book := &entities.Book{
		Title:           info.Title,
		Author:          info.Author,
		ISBN:            isbn,
		PublicationYear: info.PublicationYear,
		Publisher:       info.Publisher,
		Description:     info.Description,
		CoverURL:        info.CoverURL,
	}
	if err := m.insert(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// EnrichExisting fills in a stored book from external metadata following
// enrichmentPolicy. It fails with CONFLICT when nothing would change.
func (m *Manager) EnrichExisting(ctx context.Context, bookID uint) (*services.EnrichmentResult, error) {
	book, err := m.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(book.ISBN) == "" {
		return nil, domainerrors.InvalidInputf("book %d has no ISBN to look up", bookID).
			WithDetails(map[string]any{"book_id": bookID})
	}

	// The lookup runs outside the transaction so no write lock is held
	// during network calls.
	info, err := m.lookup.Lookup(ctx, book.ISBN)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, domainerrors.UpstreamUnavailablef("no metadata available for ISBN %s", book.ISBN).
			WithDetails(map[string]any{"book_id": bookID, "isbn": book.ISBN})
	}

	result := &services.EnrichmentResult{Source: info.Source}
	err = m.uow.Do(ctx, func(s services.Stores) error {
		current, err := s.Books().Get(bookID)
		if err != nil {
			return err
		}

		changed := applyEnrichment(current, info)
		if len(changed) == 0 {
			return domainerrors.Conflictf("no new information found for book %d", bookID).
				WithDetails(map[string]any{"book_id": bookID, "isbn": current.ISBN})
		}
		if err := s.Books().Save(current); err != nil {
			return err
		}

		result.Book = current
		result.FieldsUpdated = changed
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] Enriched book %d from %s: %s", bookID, info.Source, strings.Join(result.FieldsUpdated, ", "))
	return result, nil
}
