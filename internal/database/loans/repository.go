// Package loans provides database operations for loan records.
//
// This package implements the LoanStore interface defined in
// internal/services/interfaces.go.
//
// # Usage
//
//	repo := loans.NewRepository(db)
//	active, err := repo.FindActiveForBook(bookID)
package loans

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

// Repository handles all loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func loanNotFound(id uint) error {
	return domainerrors.NotFoundf("loan %d not found", id).
		WithDetails(map[string]any{"loan_id": id})
}

// Get retrieves a loan by its ID.
func (r *Repository) Get(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %d: %w", id, err)
	}
	return &loan, nil
}

// List retrieves every loan, newest first.
func (r *Repository) List() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Order("loaned_at DESC, id DESC").Find(&loans).Error
	return loans, err
}

// FindByBook retrieves the loan history of one book.
func (r *Repository) FindByBook(bookID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("book_id = ?", bookID).Order("loaned_at DESC, id DESC").Find(&loans).Error
	return loans, err
}

// FindByEmail retrieves loans for a borrower email, ignoring case.
func (r *Repository) FindByEmail(email string) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("LOWER(borrower_email) = LOWER(?)", email).
		Order("loaned_at DESC, id DESC").Find(&loans).Error
	return loans, err
}

// FindByStatus retrieves loans with the given stored status.
func (r *Repository) FindByStatus(status entities.LoanStatus) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("status = ?", status).Order("loaned_at DESC, id DESC").Find(&loans).Error
	return loans, err
}

// FindActiveForBook retrieves the open loan of a book.
func (r *Repository) FindActiveForBook(bookID uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Where("book_id = ? AND status = ?", bookID, entities.LoanStatusActive).First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.NotFoundf("no active loan for book %d", bookID).
			WithDetails(map[string]any{"book_id": bookID})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active loan for book %d: %w", bookID, err)
	}
	return &loan, nil
}

// FindOverdue retrieves ACTIVE loans whose due date is before asOf.
func (r *Repository) FindOverdue(asOf time.Time) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("status = ? AND due_at < ?", entities.LoanStatusActive, asOf.UTC()).
		Order("due_at ASC, id ASC").Find(&loans).Error
	return loans, err
}

// Save creates the loan when it has no ID and overwrites it otherwise.
// A second ACTIVE loan for the same book violates idx_loans_active_book.
func (r *Repository) Save(loan *entities.Loan) error {
	err := r.db.Save(loan).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.Conflictf("book %d already has an active loan", loan.BookID).
			WithDetails(map[string]any{"book_id": loan.BookID}).WithCause(err)
	}
	return err
}

// Delete removes a loan by ID.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Loan{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return loanNotFound(id)
	}
	return nil
}

// DeleteByBook removes the whole loan history of a book.
func (r *Repository) DeleteByBook(bookID uint) error {
	return r.db.Where("book_id = ?", bookID).Delete(&entities.Loan{}).Error
}

func (r *Repository) CountActive() (int64, error) {
	return r.CountByStatus(entities.LoanStatusActive)
}

func (r *Repository) CountOverdue(asOf time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("status = ? AND due_at < ?", entities.LoanStatusActive, asOf.UTC()).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountByStatus(status entities.LoanStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).Count(&count).Error
	return count, err
}
