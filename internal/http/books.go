package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
)

type BooksController struct {
	catalog CatalogService
}

func NewBooksController(catalog CatalogService) *BooksController {
	return &BooksController{
		catalog: catalog,
	}
}

// GetAllBooks handles GET /api/books. At most one filter applies, checked
// in the order q, title, author, available.
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	ctx := c.Request.Context()

	available, filterByAvailability, ok := parseOptionalBool(c, "available")
	if !ok {
		return
	}

	var (
		books []entities.Book
		err   error
	)
	switch {
	case c.Query("q") != "":
		books, err = controller.catalog.Search(ctx, c.Query("q"))
	case c.Query("title") != "":
		books, err = controller.catalog.FindByTitle(ctx, c.Query("title"))
	case c.Query("author") != "":
		books, err = controller.catalog.FindByAuthor(ctx, c.Query("author"))
	case filterByAvailability:
		books, err = controller.catalog.FindByAvailability(ctx, available)
	default:
		books, err = controller.catalog.List(ctx)
	}
	if err != nil {
		respondDomainError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) GetBookByISBN(c *gin.Context) {
	book, err := controller.catalog.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondDomainError(c, err, "get book by isbn")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var input catalog.NewBook
	if !bindJSON(c, &input) {
		return
	}

	book, err := controller.catalog.Create(c.Request.Context(), input)
	if err != nil {
		respondDomainError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch catalog.BookPatch
	if !bindJSON(c, &patch) {
		return
	}

	book, err := controller.catalog.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondDomainError(c, err, "update book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.catalog.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}

// AvailabilityRequest is the body of PUT /api/books/:id/availability.
type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability writes the flag directly, bypassing the loan engine.
func (controller *BooksController) SetAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := controller.catalog.SetAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		respondDomainError(c, err, "set availability")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) GetBookStats(c *gin.Context) {
	stats, err := controller.catalog.Stats(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "book stats")
		return
	}
	c.IndentedJSON(http.StatusOK, stats)
}
