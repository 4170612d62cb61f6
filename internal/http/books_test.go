package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
)

type booksListResponse struct {
	Books []entities.Book `json:"books"`
	Count int             `json:"count"`
}

func TestBooksController_CreateAndGet(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "POST", "/api/books", map[string]any{
		"title":            "Dune",
		"author":           "Frank Herbert",
		"isbn":             "9780441013593",
		"publication_year": 1965,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[entities.Book](t, w)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Available)
	require.NotNil(t, created.PublicationYear)
	assert.Equal(t, 1965, *created.PublicationYear)

	w = f.do(t, "GET", fmt.Sprintf("/api/books/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune", decode[entities.Book](t, w).Title)

	w = f.do(t, "GET", "/api/books/isbn/9780441013593", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[entities.Book](t, w).ID)
}

func TestBooksController_CreateErrors(t *testing.T) {
	f := setupAPI(t)
	f.createBook(t, "Dune", "Frank Herbert", "111")

	t.Run("missing fields", func(t *testing.T) {
		w := f.do(t, "POST", "/api/books", map[string]any{"title": "No author"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[ErrorResponse](t, w)
		assert.Equal(t, "INVALID_INPUT", body.Code)
		assert.Contains(t, body.Error, "author")
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		w := f.do(t, "POST", "/api/books", map[string]any{"title": "Other", "author": "A", "isbn": "111"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := f.do(t, "POST", "/api/books", "not an object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_GetMissing(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "GET", "/api/books/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[ErrorResponse](t, w).Code)

	w = f.do(t, "GET", "/api/books/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_ListFilters(t *testing.T) {
	f := setupAPI(t)
	dune := f.createBook(t, "Dune", "Frank Herbert", "111")
	f.createBook(t, "Emma", "Jane Austen", "222")
	f.createBook(t, "Persuasion", "Jane Austen", "333")

	_, err := f.catalog.SetAvailability(t.Context(), dune.ID, false)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?title=dun", 1},
		{"?author=austen", 2},
		{"?q=333", 1},
		{"?available=true", 2},
		{"?available=false", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := f.do(t, "GET", "/api/books"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			body := decode[booksListResponse](t, w)
			assert.Equal(t, tt.want, body.Count)
			assert.Len(t, body.Books, tt.want)
		})
	}

	w := f.do(t, "GET", "/api/books?available=perhaps", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Update(t *testing.T) {
	f := setupAPI(t)
	book := f.createBook(t, "Dune", "Frank Herbert", "111")
	f.createBook(t, "Emma", "Jane Austen", "222")

	w := f.do(t, "PUT", fmt.Sprintf("/api/books/%d", book.ID), map[string]any{"publisher": "Chilton"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[entities.Book](t, w)
	assert.Equal(t, "Chilton", updated.Publisher)
	assert.Equal(t, "Dune", updated.Title)

	w = f.do(t, "PUT", fmt.Sprintf("/api/books/%d", book.ID), map[string]any{"isbn": "222"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, "PUT", fmt.Sprintf("/api/books/%d", book.ID), map[string]any{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_SetAvailabilityAndStats(t *testing.T) {
	f := setupAPI(t)
	book := f.createBook(t, "Dune", "Frank Herbert", "111")
	f.createBook(t, "Emma", "Jane Austen", "222")

	w := f.do(t, "PUT", fmt.Sprintf("/api/books/%d/availability", book.ID), map[string]any{"available": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[entities.Book](t, w).Available)

	w = f.do(t, "PUT", fmt.Sprintf("/api/books/%d/availability", book.ID), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "GET", "/api/books/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[entities.BookStats](t, w)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(1), stats.Unavailable)
}

func TestBooksController_Delete(t *testing.T) {
	f := setupAPI(t)
	book := f.createBook(t, "Dune", "Frank Herbert", "111")

	w := f.do(t, "POST", "/api/loans", map[string]any{
		"book_id": book.ID, "borrower_name": "Ann", "borrower_email": "ann@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	loan := decode[LoanResponse](t, w)

	w = f.do(t, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, "PUT", fmt.Sprintf("/api/loans/%d/return", loan.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
