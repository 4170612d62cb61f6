// Package catalog manages the book records: registration, search, edits,
// availability and metadata enrichment.
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

// InfoLookup resolves an ISBN to bibliographic data. A nil result with a
// nil error means no source knew the ISBN.
type InfoLookup interface {
	Lookup(ctx context.Context, isbn string) (*metadata.BookInfo, error)
}

// Manager implements the catalog operations on top of a unit of work.
type Manager struct {
	uow    services.UnitOfWork
	lookup InfoLookup
}

func NewManager(uow services.UnitOfWork, lookup InfoLookup) *Manager {
	return &Manager{uow: uow, lookup: lookup}
}

// NewBook is the input for registering a book.
type NewBook struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	ISBN            string `json:"isbn" validate:"required"`
	PublicationYear *int   `json:"publication_year,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Description     string `json:"description,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
}

// BookPatch carries a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	Description     *string `json:"description,omitempty"`
	CoverURL        *string `json:"cover_url,omitempty"`
}

// Create registers a new, available book. The ISBN must be unused.
func (m *Manager) Create(ctx context.Context, input NewBook) (*entities.Book, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Author = strings.TrimSpace(input.Author)
	input.ISBN = strings.TrimSpace(input.ISBN)

	var missing []string
	if input.Title == "" {
		missing = append(missing, "title")
	}
	if input.Author == "" {
		missing = append(missing, "author")
	}
	if input.ISBN == "" {
		missing = append(missing, "isbn")
	}
	if len(missing) > 0 {
		return nil, domainerrors.InvalidInputf("missing required fields: %s", strings.Join(missing, ", ")).
			WithDetails(map[string]any{"fields": missing})
	}

	book := &entities.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		PublicationYear: input.PublicationYear,
		Publisher:       input.Publisher,
		Description:     input.Description,
		CoverURL:        input.CoverURL,
	}
	if err := m.insert(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// insert is the single create path: uniqueness check plus save, in one unit.
func (m *Manager) insert(ctx context.Context, book *entities.Book) error {
	book.ID = 0
	book.Available = true
	book.Description = entities.ClipDescription(book.Description)

	err := m.uow.Do(ctx, func(s services.Stores) error {
		if err := ensureISBNFree(s.Books(), book.ISBN, 0); err != nil {
			return err
		}
		return s.Books().Save(book)
	})
	if err != nil {
		return err
	}
	log.Printf("[CATALOG] Registered book %d (%q, ISBN %s)", book.ID, book.Title, book.ISBN)
	return nil
}

// ensureISBNFree fails with CONFLICT when isbn belongs to a book other than selfID.
func ensureISBNFree(books services.BookStore, isbn string, selfID uint) error {
	existing, err := books.GetByISBN(isbn)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return domainerrors.Conflictf("a book with ISBN %s already exists", isbn).
		WithDetails(map[string]any{"isbn": isbn, "book_id": existing.ID})
}

// Update applies the non-nil fields of patch.
func (m *Manager) Update(ctx context.Context, id uint, patch BookPatch) (*entities.Book, error) {
	var updated *entities.Book
	err := m.uow.Do(ctx, func(s services.Stores) error {
		book, err := s.Books().Get(id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return domainerrors.InvalidInput("title must not be blank")
			}
			book.Title = title
		}
		if patch.Author != nil {
			author := strings.TrimSpace(*patch.Author)
			if author == "" {
				return domainerrors.InvalidInput("author must not be blank")
			}
			book.Author = author
		}
		if patch.ISBN != nil {
			isbn := strings.TrimSpace(*patch.ISBN)
			if isbn == "" {
				return domainerrors.InvalidInput("isbn must not be blank")
			}
			if isbn != book.ISBN {
				if err := ensureISBNFree(s.Books(), isbn, book.ID); err != nil {
					return err
				}
			}
			book.ISBN = isbn
		}
		if patch.PublicationYear != nil {
			book.PublicationYear = patch.PublicationYear
		}
		if patch.Publisher != nil {
			book.Publisher = *patch.Publisher
		}
		if patch.Description != nil {
			book.Description = entities.ClipDescription(*patch.Description)
		}
		if patch.CoverURL != nil {
			book.CoverURL = *patch.CoverURL
		}

		if err := s.Books().Save(book); err != nil {
			return err
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a book and its returned loan history. A book that is
// currently on loan must be returned first.
func (m *Manager) Delete(ctx context.Context, id uint) error {
	err := m.uow.Do(ctx, func(s services.Stores) error {
		if _, err := s.Books().Get(id); err != nil {
			return err
		}

		active, err := s.Loans().FindActiveForBook(id)
		if err == nil {
			return domainerrors.Conflictf("book %d is on loan (loan %d); return it before deleting", id, active.ID).
				WithDetails(map[string]any{"book_id": id, "loan_id": active.ID})
		}
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		if err := s.Loans().DeleteByBook(id); err != nil {
			return err
		}
		return s.Books().Delete(id)
	})
	if err != nil {
		return err
	}
	log.Printf("[CATALOG] Deleted book %d", id)
	return nil
}

// SetAvailability writes the availability flag directly.
//
// It does not consult or touch loans: marking a loaned book available
// breaks the pairing between the flag and its ACTIVE loan. Lending and
// returning should go through the lending engine instead.
func (m *Manager) SetAvailability(ctx context.Context, id uint, available bool) (*entities.Book, error) {
	var book *entities.Book
	err := m.uow.Do(ctx, func(s services.Stores) error {
		if err := s.Books().SetAvailable(id, available); err != nil {
			return err
		}
		if _, err := s.Loans().FindActiveForBook(id); err == nil {
			log.Printf("[CATALOG] WARNING: availability of book %d set to %t while it has an active loan", id, available)
		}
		loaded, err := s.Books().Get(id)
		if err != nil {
			return err
		}
		book = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}
