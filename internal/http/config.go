package http

import (
	"github.com/mrlokans/librarian/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core services
	Catalog CatalogService
	Lending LendingService

	// Database is pinged by the health check (optional)
	Database *database.Database

	// Task queue for async enrichment (optional)
	TaskQueue TaskQueue

	// Application info
	Version string
}
