// Package lending runs the loan lifecycle and keeps each book's
// availability flag in step with its loans.
//
// A book is unavailable exactly when one ACTIVE loan references it. Lend,
// Return and Delete each change the loan and the book inside one unit of
// work, so no caller can observe one write without the other.
package lending

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
	"github.com/mrlokans/librarian/internal/services"
	"github.com/mrlokans/librarian/internal/validation"
)

// DefaultLoanDays is the loan period used when a request names none.
const DefaultLoanDays = 7

// Engine implements the loan state machine ACTIVE -> RETURNED.
type Engine struct {
	uow         services.UnitOfWork
	validator   *validation.Validator
	now         func() time.Time
	defaultDays int
}

type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDefaultLoanDays changes the period applied when DurationDays is nil.
func WithDefaultLoanDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.defaultDays = days
		}
	}
}

func NewEngine(uow services.UnitOfWork, opts ...Option) *Engine {
	e := &Engine{
		uow:         uow,
		validator:   validation.New(),
		now:         time.Now,
		defaultDays: DefaultLoanDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Times are stored in UTC so due dates compare consistently in SQL.
func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

// LendRequest describes a new loan.
type LendRequest struct {
	BookID        uint   `json:"book_id" validate:"required"`
	BorrowerName  string `json:"borrower_name" validate:"required"`
	BorrowerEmail string `json:"borrower_email" validate:"required,email"`
	BorrowerPhone string `json:"borrower_phone,omitempty"`
	DurationDays  *int   `json:"duration_days,omitempty" validate:"omitempty,min=1"`
	Notes         string `json:"notes,omitempty"`
}

// Lend opens an ACTIVE loan and marks the book unavailable.
func (e *Engine) Lend(ctx context.Context, req LendRequest) (*entities.Loan, error) {
	req.BorrowerName = strings.TrimSpace(req.BorrowerName)
	req.BorrowerEmail = strings.TrimSpace(req.BorrowerEmail)
	if err := e.validator.Validate(req); err != nil {
		return nil, err
	}

	days := e.defaultDays
	if req.DurationDays != nil {
		days = *req.DurationDays
	}

	var loan *entities.Loan
	err := e.uow.Do(ctx, func(s services.Stores) error {
		book, err := s.Books().Get(req.BookID)
		if err != nil {
			return err
		}
		if !book.Available {
			return domainerrors.Conflictf("book %d is not available", book.ID).
				WithDetails(map[string]any{"book_id": book.ID})
		}

		active, err := s.Loans().FindActiveForBook(book.ID)
		if err == nil {
			return domainerrors.Conflictf("book %d is already on loan", book.ID).
				WithDetails(map[string]any{"book_id": book.ID, "loan_id": active.ID})
		}
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		swapped, err := s.Books().CompareAndSetAvailable(book.ID, true, false)
		if err != nil {
			return err
		}
		if !swapped {
			return domainerrors.Conflictf("book %d is not available", book.ID).
				WithDetails(map[string]any{"book_id": book.ID})
		}

		loanedAt := e.clock()
		loan = &entities.Loan{
			BookID:        book.ID,
			BorrowerName:  req.BorrowerName,
			BorrowerEmail: req.BorrowerEmail,
			BorrowerPhone: req.BorrowerPhone,
			LoanedAt:      loanedAt,
			DueAt:         loanedAt.AddDate(0, 0, days),
			Status:        entities.LoanStatusActive,
			Notes:         req.Notes,
		}
		return s.Loans().Save(loan)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LENDING] Loan %d opened: book %d to %s, due %s",
		loan.ID, loan.BookID, loan.BorrowerEmail, loan.DueAt.Format(time.DateOnly))
	return loan, nil
}

// Return closes an ACTIVE loan and puts the book back on the shelf.
func (e *Engine) Return(ctx context.Context, loanID uint) (*entities.Loan, error) {
	var loan *entities.Loan
	err := e.uow.Do(ctx, func(s services.Stores) error {
		var err error
		loan, err = e.returnLoan(s, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LENDING] Loan %d returned: book %d", loan.ID, loan.BookID)
	return loan, nil
}

// ReturnByBook returns whichever loan currently holds the book.
func (e *Engine) ReturnByBook(ctx context.Context, bookID uint) (*entities.Loan, error) {
	var loan *entities.Loan
	err := e.uow.Do(ctx, func(s services.Stores) error {
		active, err := s.Loans().FindActiveForBook(bookID)
		if err != nil {
			return err
		}
		loan, err = e.returnLoan(s, active.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LENDING] Loan %d returned by book: book %d", loan.ID, loan.BookID)
	return loan, nil
}

func (e *Engine) returnLoan(s services.Stores, loanID uint) (*entities.Loan, error) {
	loan, err := s.Loans().Get(loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != entities.LoanStatusActive {
		return nil, domainerrors.Conflictf("loan %d is already finalized", loan.ID).
			WithDetails(map[string]any{"loan_id": loan.ID, "status": loan.Status})
	}

	returnedAt := e.clock()
	loan.Status = entities.LoanStatusReturned
	loan.ReturnedAt = &returnedAt
	if err := s.Loans().Save(loan); err != nil {
		return nil, err
	}

	if err := s.Books().SetAvailable(loan.BookID, true); err != nil {
		return nil, err
	}
	return loan, nil
}

// LoanPatch carries editable loan fields. Nil fields are left untouched.
// Status and book are not editable.
type LoanPatch struct {
	BorrowerName  *string    `json:"borrower_name,omitempty"`
	BorrowerEmail *string    `json:"borrower_email,omitempty" validate:"omitempty,email"`
	BorrowerPhone *string    `json:"borrower_phone,omitempty"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// Update edits borrower details, due date or notes.
func (e *Engine) Update(ctx context.Context, loanID uint, patch LoanPatch) (*entities.Loan, error) {
	if err := e.validator.Validate(patch); err != nil {
		return nil, err
	}

	var loan *entities.Loan
	err := e.uow.Do(ctx, func(s services.Stores) error {
		var err error
		loan, err = s.Loans().Get(loanID)
		if err != nil {
			return err
		}

		if patch.BorrowerName != nil {
			name := strings.TrimSpace(*patch.BorrowerName)
			if name == "" {
				return domainerrors.InvalidInput("borrower_name must not be blank")
			}
			loan.BorrowerName = name
		}
		if patch.BorrowerEmail != nil {
			email := strings.TrimSpace(*patch.BorrowerEmail)
			if email == "" {
				return domainerrors.InvalidInput("borrower_email must not be blank")
			}
			loan.BorrowerEmail = email
		}
		if patch.BorrowerPhone != nil {
			loan.BorrowerPhone = *patch.BorrowerPhone
		}
		if patch.DueAt != nil {
			loan.DueAt = patch.DueAt.UTC()
		}
		if patch.Notes != nil {
			loan.Notes = *patch.Notes
		}

		return s.Loans().Save(loan)
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Delete removes a loan. Deleting an ACTIVE loan frees its book first.
func (e *Engine) Delete(ctx context.Context, loanID uint) error {
	var wasActive bool
	err := e.uow.Do(ctx, func(s services.Stores) error {
		loan, err := s.Loans().Get(loanID)
		if err != nil {
			return err
		}

		if loan.Status == entities.LoanStatusActive {
			wasActive = true
			if err := s.Books().SetAvailable(loan.BookID, true); err != nil {
				return err
			}
		}
		return s.Loans().Delete(loan.ID)
	})
	if err != nil {
		return err
	}

	if wasActive {
		log.Printf("[LENDING] Active loan %d deleted, book availability restored", loanID)
	} else {
		log.Printf("[LENDING] Loan %d deleted", loanID)
	}
	return nil
}
