package services

import (
	"context"
	"time"

	"github.com/mrlokans/librarian/internal/entities"
)

// BookStore persists catalog records. Missing rows are reported as
// domain NOT_FOUND errors and unique ISBN violations as CONFLICT.
type BookStore interface {
	Get(id uint) (*entities.Book, error)
	GetByISBN(isbn string) (*entities.Book, error)
	Exists(id uint) (bool, error)
	List() ([]entities.Book, error)
	FindByTitleContains(fragment string) ([]entities.Book, error)
	FindByAuthorContains(fragment string) ([]entities.Book, error)
	FindByAvailability(available bool) ([]entities.Book, error)
	// Search matches the query against title, author and ISBN, ignoring case.
	Search(query string) ([]entities.Book, error)
	Save(book *entities.Book) error
	Delete(id uint) error
	Count() (int64, error)
	CountAvailable() (int64, error)

	// SetAvailable writes the flag unconditionally.
	SetAvailable(id uint, available bool) error
	// CompareAndSetAvailable writes the flag only if it currently equals
	// expected, and reports whether the write happened.
	CompareAndSetAvailable(id uint, expected, available bool) (bool, error)
}

// LoanStore persists loan records.
type LoanStore interface {
	Get(id uint) (*entities.Loan, error)
	List() ([]entities.Loan, error)
	FindByBook(bookID uint) ([]entities.Loan, error)
	FindByEmail(email string) ([]entities.Loan, error)
	FindByStatus(status entities.LoanStatus) ([]entities.Loan, error)
	// FindActiveForBook returns the book's single ACTIVE loan, or NOT_FOUND.
	FindActiveForBook(bookID uint) (*entities.Loan, error)
	// FindOverdue returns ACTIVE loans due strictly before asOf.
	FindOverdue(asOf time.Time) ([]entities.Loan, error)
	Save(loan *entities.Loan) error
	Delete(id uint) error
	DeleteByBook(bookID uint) error
	CountActive() (int64, error)
	CountOverdue(asOf time.Time) (int64, error)
	CountByStatus(status entities.LoanStatus) (int64, error)
	Count() (int64, error)
}

// Stores groups the stores that share one database session.
type Stores interface {
	Books() BookStore
	Loans() LoanStore
}

// UnitOfWork runs a function against stores bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Stores) error) error
	// Stores returns non-transactional stores for read paths.
	Stores(ctx context.Context) Stores
}

// BookEnricher is the catalog surface used by background jobs.
type BookEnricher interface {
	EnrichExisting(ctx context.Context, bookID uint) (*EnrichmentResult, error)
	CreateFromISBN(ctx context.Context, isbn string) (*entities.Book, error)
}

// EnrichmentResult describes which fields an enrichment changed.
type EnrichmentResult struct {
	Book          *entities.Book `json:"book"`
	FieldsUpdated []string       `json:"fields_updated"`
	Source        string         `json:"source,omitempty"`
}
