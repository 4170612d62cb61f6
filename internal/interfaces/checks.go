package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/lending"
	"github.com/mrlokans/librarian/internal/metadata"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/services"
	"github.com/mrlokans/librarian/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.BookStore = (*books.Repository)(nil)
var _ services.LoanStore = (*loans.Repository)(nil)
var _ services.UnitOfWork = (*database.UnitOfWork)(nil)

// =============================================================================
// Domain Services
// =============================================================================

var _ http.CatalogService = (*catalog.Manager)(nil)
var _ services.BookEnricher = (*catalog.Manager)(nil)
var _ http.LendingService = (*lending.Engine)(nil)
var _ scheduler.OverdueSource = (*lending.Engine)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ metadata.Source = (*metadata.OpenLibraryClient)(nil)
var _ metadata.Source = (*metadata.GoogleBooksClient)(nil)
var _ catalog.InfoLookup = (*metadata.Lookup)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
