package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
	"github.com/mrlokans/librarian/internal/metadata"
)

func intPtr(i int) *int { return &i }

func TestApplyEnrichment_Policy(t *testing.T) {
	book := &entities.Book{
		Title:    "Dune",
		Author:   "",
		CoverURL: "https://old.example/cover.jpg",
	}
	info := &metadata.BookInfo{
		Title:           "Dune (Deluxe Edition)",
		Author:          "Frank Herbert",
		PublicationYear: intPtr(1965),
		CoverURL:        "https://new.example/cover.jpg",
		Description:     "Desert planet",
	}

	changed := applyEnrichment(book, info)

	assert.Equal(t, []string{"author", "publication_year", "cover_url", "description"}, changed)
	assert.Equal(t, "Dune", book.Title, "title is only filled when empty")
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, 1965, *book.PublicationYear)
	assert.Equal(t, "https://new.example/cover.jpg", book.CoverURL)
	assert.Equal(t, "Desert planet", book.Description)
}

func TestApplyEnrichment_SameValuesChangeNothing(t *testing.T) {
	book := &entities.Book{
		Title:           "Dune",
		Author:          "Frank Herbert",
		PublicationYear: intPtr(1965),
		Publisher:       "Chilton",
		CoverURL:        "https://covers.example/dune.jpg",
		Description:     "Desert planet",
	}
	info := &metadata.BookInfo{
		Title:           "Other",
		PublicationYear: intPtr(1990),
		CoverURL:        "https://covers.example/dune.jpg",
		Description:     "Desert planet",
	}

	assert.Empty(t, applyEnrichment(book, info))
	assert.Equal(t, 1965, *book.PublicationYear)
}

func TestManager_EnrichExisting(t *testing.T) {
	lookup := &mockLookup{info: &metadata.BookInfo{
		Publisher:   "Chilton Books",
		CoverURL:    "https://covers.example/dune.jpg",
		Description: "Desert planet",
		Source:      "openlibrary",
	}}
	m, _ := setupManager(t, lookup)
	ctx := context.Background()
	book := createBook(t, m, "Dune", "Frank Herbert", "9780441013593")

	result, err := m.EnrichExisting(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"publisher", "cover_url", "description"}, result.FieldsUpdated)
	assert.Equal(t, "openlibrary", result.Source)

	loaded, err := m.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chilton Books", loaded.Publisher)
	assert.True(t, loaded.Available)

	_, err = m.EnrichExisting(ctx, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	assert.ErrorContains(t, err, "no new information")
}

func TestManager_EnrichExisting_Errors(t *testing.T) {
	lookup := &mockLookup{}
	m, _ := setupManager(t, lookup)
	ctx := context.Background()

	_, err := m.EnrichExisting(ctx, 42)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Zero(t, lookup.calls)

	book := createBook(t, m, "Dune", "Frank Herbert", "9780441013593")

	_, err = m.EnrichExisting(ctx, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)

	lookup.err = domainerrors.Wrap(errors.New("timeout"), domainerrors.CodeUpstreamUnavailable, "sources down")
	_, err = m.EnrichExisting(ctx, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}

func TestManager_CreateFromISBN(t *testing.T) {
	lookup := &mockLookup{info: &metadata.BookInfo{
		Title:           "Neuromancer",
		Author:          "William Gibson",
		PublicationYear: intPtr(1984),
		Publisher:       "Ace",
	}}
	m, _ := setupManager(t, lookup)
	ctx := context.Background()

	book, err := m.CreateFromISBN(ctx, "9780441569595")
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Neuromancer", book.Title)
	assert.Equal(t, "9780441569595", book.ISBN)
	assert.True(t, book.Available)

	_, err = m.CreateFromISBN(ctx, "9780441569595")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestManager_CreateFromISBN_NotFound(t *testing.T) {
	m, _ := setupManager(t, &mockLookup{})

	_, err := m.CreateFromISBN(context.Background(), "9780000000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorContains(t, err, "ISBN not found in external sources")
}
