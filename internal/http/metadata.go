package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	domainerrors "github.com/mrlokans/librarian/internal/errors"
	"github.com/mrlokans/librarian/internal/tasks"
)

const metadataRequestTimeout = 30 * time.Second

// MetadataController handles ISBN lookup and book enrichment endpoints.
// The task queue is optional; without it async requests are rejected.
type MetadataController struct {
	catalog   CatalogService
	taskQueue TaskQueue
}

// NewMetadataController creates a new MetadataController.
func NewMetadataController(catalog CatalogService, taskQueue TaskQueue) *MetadataController {
	return &MetadataController{
		catalog:   catalog,
		taskQueue: taskQueue,
	}
}

// EnrichBookResponse is the response for a synchronous enrichment.
type EnrichBookResponse struct {
	Success       bool     `json:"success"`
	Book          any      `json:"book,omitempty"`
	FieldsUpdated []string `json:"fields_updated,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// LookupISBN handles GET /api/metadata/isbn/:isbn
// It previews what the external sources know without touching the catalog.
func (mc *MetadataController) LookupISBN(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), metadataRequestTimeout)
	defer cancel()

	info, err := mc.catalog.LookupISBN(ctx, c.Param("isbn"))
	if err != nil {
		respondDomainError(c, err, "isbn lookup")
		return
	}
	c.IndentedJSON(http.StatusOK, info)
}

// CreateFromISBN handles POST /api/books/isbn/:isbn[?async=true]
func (mc *MetadataController) CreateFromISBN(c *gin.Context) {
	isbn := c.Param("isbn")

	async, _, ok := parseOptionalBool(c, "async")
	if !ok {
		return
	}
	if async {
		mc.enqueue(c, tasks.CreateFromISBNTask{ISBN: isbn})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), metadataRequestTimeout)
	defer cancel()

	book, err := mc.catalog.CreateFromISBN(ctx, isbn)
	if err != nil {
		respondDomainError(c, err, "create from isbn")
		return
	}
	respondCreated(c, book)
}

// EnrichBook handles POST /api/books/:id/enrich[?async=true]
func (mc *MetadataController) EnrichBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	async, _, ok := parseOptionalBool(c, "async")
	if !ok {
		return
	}
	if async {
		mc.enqueue(c, tasks.EnrichBookTask{BookID: id})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), metadataRequestTimeout)
	defer cancel()

	result, err := mc.catalog.EnrichExisting(ctx, id)
	if err != nil {
		respondDomainError(c, err, "enrich book")
		return
	}

	c.JSON(http.StatusOK, EnrichBookResponse{
		Success:       true,
		Book:          result.Book,
		FieldsUpdated: result.FieldsUpdated,
		Source:        result.Source,
	})
}

func (mc *MetadataController) enqueue(c *gin.Context, task backlite.Task) {
	if mc.taskQueue == nil {
		respondDomainError(c, domainerrors.InvalidInput("task queue is not enabled"), "enqueue")
		return
	}

	taskID, err := mc.taskQueue.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue "+task.Config().Name)
		return
	}
	log.Printf("Enqueued %s task with ID: %s", task.Config().Name, taskID)

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": taskID,
		"type":    task.Config().Name,
	})
}
