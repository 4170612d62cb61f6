package lending

import (
	"context"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

func (e *Engine) Get(ctx context.Context, loanID uint) (*entities.Loan, error) {
	return e.uow.Stores(ctx).Loans().Get(loanID)
}

func (e *Engine) List(ctx context.Context) ([]entities.Loan, error) {
	return e.uow.Stores(ctx).Loans().List()
}

func (e *Engine) FindByEmail(ctx context.Context, email string) ([]entities.Loan, error) {
	return e.uow.Stores(ctx).Loans().FindByEmail(email)
}

// FindByStatus lists loans by status. OVERDUE is derived from the clock
// rather than stored, so it is answered by FindOverdue.
func (e *Engine) FindByStatus(ctx context.Context, status entities.LoanStatus) ([]entities.Loan, error) {
	if !status.Valid() {
		return nil, domainerrors.InvalidInputf("unknown loan status %q", status).
			WithDetails(map[string]any{"status": status})
	}
	if status == entities.LoanStatusOverdue {
		return e.FindOverdue(ctx)
	}
	return e.uow.Stores(ctx).Loans().FindByStatus(status)
}

// FindOverdue lists ACTIVE loans past their due date at the engine's now.
func (e *Engine) FindOverdue(ctx context.Context) ([]entities.Loan, error) {
	return e.uow.Stores(ctx).Loans().FindOverdue(e.clock())
}

// FindByBook lists a book's loan history. The book must exist.
func (e *Engine) FindByBook(ctx context.Context, bookID uint) ([]entities.Loan, error) {
	stores := e.uow.Stores(ctx)
	exists, err := stores.Books().Exists(bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainerrors.NotFoundf("book %d not found", bookID).
			WithDetails(map[string]any{"book_id": bookID})
	}
	return stores.Loans().FindByBook(bookID)
}

func (e *Engine) CountActive(ctx context.Context) (int64, error) {
	return e.uow.Stores(ctx).Loans().CountActive()
}

// Stats counts loans by lifecycle state at the engine's now.
func (e *Engine) Stats(ctx context.Context) (*entities.LoanStats, error) {
	loans := e.uow.Stores(ctx).Loans()

	active, err := loans.CountActive()
	if err != nil {
		return nil, err
	}
	overdue, err := loans.CountOverdue(e.clock())
	if err != nil {
		return nil, err
	}
	returned, err := loans.CountByStatus(entities.LoanStatusReturned)
	if err != nil {
		return nil, err
	}
	total, err := loans.Count()
	if err != nil {
		return nil, err
	}

	return &entities.LoanStats{
		Active:   active,
		Overdue:  overdue,
		Returned: returned,
		Total:    total,
	}, nil
}
