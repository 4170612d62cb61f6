package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/lending"
	"github.com/mrlokans/librarian/internal/metadata"
	"github.com/mrlokans/librarian/internal/services"
)

// This file consolidates the service interfaces used by HTTP controllers.
// Implementations live in internal/catalog, internal/lending and
// internal/tasks; compile-time checks are in internal/interfaces.

// CatalogService is the book surface used by BooksController and MetadataController.
type CatalogService interface {
	Create(ctx context.Context, input catalog.NewBook) (*entities.Book, error)
	Get(ctx context.Context, id uint) (*entities.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	List(ctx context.Context) ([]entities.Book, error)
	FindByTitle(ctx context.Context, fragment string) ([]entities.Book, error)
	FindByAuthor(ctx context.Context, fragment string) ([]entities.Book, error)
	FindByAvailability(ctx context.Context, available bool) ([]entities.Book, error)
	Search(ctx context.Context, term string) ([]entities.Book, error)
	Update(ctx context.Context, id uint, patch catalog.BookPatch) (*entities.Book, error)
	Delete(ctx context.Context, id uint) error
	SetAvailability(ctx context.Context, id uint, available bool) (*entities.Book, error)
	Stats(ctx context.Context) (*entities.BookStats, error)

	LookupISBN(ctx context.Context, isbn string) (*metadata.BookInfo, error)
	services.BookEnricher
}

// LendingService is the loan surface used by LoansController.
type LendingService interface {
	Lend(ctx context.Context, req lending.LendRequest) (*entities.Loan, error)
	Return(ctx context.Context, loanID uint) (*entities.Loan, error)
	ReturnByBook(ctx context.Context, bookID uint) (*entities.Loan, error)
	Update(ctx context.Context, loanID uint, patch lending.LoanPatch) (*entities.Loan, error)
	Delete(ctx context.Context, loanID uint) error
	Get(ctx context.Context, loanID uint) (*entities.Loan, error)
	List(ctx context.Context) ([]entities.Loan, error)
	FindByEmail(ctx context.Context, email string) ([]entities.Loan, error)
	FindByStatus(ctx context.Context, status entities.LoanStatus) ([]entities.Loan, error)
	FindOverdue(ctx context.Context) ([]entities.Loan, error)
	FindByBook(ctx context.Context, bookID uint) ([]entities.Loan, error)
	Stats(ctx context.Context) (*entities.LoanStats, error)
}

// TaskQueue enqueues background jobs and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
