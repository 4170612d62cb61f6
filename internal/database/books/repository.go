// Package books provides database operations for the catalog.
//
// This package implements the BookStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByISBN("9780132350884")
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func bookNotFound(id uint) error {
	return domainerrors.NotFoundf("book %d not found", id).
		WithDetails(map[string]any{"book_id": id})
}

// Get retrieves a book by its ID.
func (r *Repository) Get(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bookNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load book %d: %w", id, err)
	}
	return &book, nil
}

// GetByISBN retrieves a book by its exact ISBN.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.NotFoundf("book with ISBN %s not found", isbn).
			WithDetails(map[string]any{"isbn": isbn})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load book by isbn %s: %w", isbn, err)
	}
	return &book, nil
}

// Exists reports whether a book with the given ID is stored.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves every book ordered by ID.
func (r *Repository) List() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// FindByTitleContains matches title fragments case-insensitively.
func (r *Repository) FindByTitleContains(fragment string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("LOWER(title) LIKE LOWER(?)", "%"+fragment+"%").
		Order("id ASC").Find(&books).Error
	return books, err
}

// FindByAuthorContains matches author fragments case-insensitively.
func (r *Repository) FindByAuthorContains(fragment string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("LOWER(author) LIKE LOWER(?)", "%"+fragment+"%").
		Order("id ASC").Find(&books).Error
	return books, err
}

// FindByAvailability retrieves books with the given availability flag.
func (r *Repository) FindByAvailability(available bool) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("available = ?", available).Order("id ASC").Find(&books).Error
	return books, err
}

// Search matches the query against title, author or ISBN.
func (r *Repository) Search(query string) ([]entities.Book, error) {
	var books []entities.Book
	searchPattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(isbn) LIKE LOWER(?)",
			searchPattern, searchPattern, searchPattern).
		Order("id ASC").Find(&books).Error
	return books, err
}

// Save creates the book when it has no ID and overwrites it otherwise.
func (r *Repository) Save(book *entities.Book) error {
	err := r.db.Save(book).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.Conflictf("a book with ISBN %s already exists", book.ISBN).
			WithDetails(map[string]any{"isbn": book.ISBN}).WithCause(err)
	}
	return err
}

// Delete removes a book by ID.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bookNotFound(id)
	}
	return nil
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountAvailable() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("available = ?", true).Count(&count).Error
	return count, err
}

// SetAvailable overwrites the availability flag.
func (r *Repository) SetAvailable(id uint, available bool) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Update("available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bookNotFound(id)
	}
	return nil
}

// CompareAndSetAvailable flips availability only when the stored flag still
// equals expected. It returns false when another writer got there first.
func (r *Repository) CompareAndSetAvailable(id uint, expected, available bool) (bool, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND available = ?", id, expected).
		Update("available", available)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	exists, err := r.Exists(id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, bookNotFound(id)
	}
	return false, nil
}
