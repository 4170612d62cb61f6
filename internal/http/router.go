package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.TaskQueue, cfg.Version)
	booksController := NewBooksController(cfg.Catalog)
	loansController := NewLoansController(cfg.Lending)
	metadataController := NewMetadataController(cfg.Catalog, cfg.TaskQueue)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Books API endpoints
	api.GET("/books", booksController.GetAllBooks)
	api.GET("/books/stats", booksController.GetBookStats)
	api.GET("/books/isbn/:isbn", booksController.GetBookByISBN)
	api.GET("/books/:id", booksController.GetBook)
	api.POST("/books", booksController.CreateBook)
	api.PUT("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)
	api.PUT("/books/:id/availability", booksController.SetAvailability)
	api.GET("/books/:id/loans", loansController.GetBookLoans)

	// Metadata endpoints
	api.GET("/metadata/isbn/:isbn", metadataController.LookupISBN)
	api.POST("/books/isbn/:isbn", metadataController.CreateFromISBN)
	api.POST("/books/:id/enrich", metadataController.EnrichBook)

	// Loans API endpoints
	api.POST("/loans", loansController.CreateLoan)
	api.GET("/loans", loansController.ListLoans)
	api.GET("/loans/overdue", loansController.ListOverdue)
	api.GET("/loans/stats", loansController.GetLoanStats)
	api.PUT("/loans/return-by-book/:bookId", loansController.ReturnByBook)
	api.GET("/loans/:id", loansController.GetLoan)
	api.PUT("/loans/:id", loansController.UpdateLoan)
	api.PUT("/loans/:id/return", loansController.ReturnLoan)
	api.DELETE("/loans/:id", loansController.DeleteLoan)

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
