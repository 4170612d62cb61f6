package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/services"
)

type stores struct {
	books *books.Repository
	loans *loans.Repository
}

func newStores(db *gorm.DB) *stores {
	return &stores{
		books: books.NewRepository(db),
		loans: loans.NewRepository(db),
	}
}

func (s *stores) Books() services.BookStore { return s.books }
func (s *stores) Loans() services.LoanStore { return s.loans }

// UnitOfWork runs catalog and lending mutations inside one gorm transaction.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back otherwise, including on panic.
func (u *UnitOfWork) Do(ctx context.Context, fn func(services.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStores(tx))
	})
}

func (u *UnitOfWork) Stores(ctx context.Context) services.Stores {
	return newStores(u.db.WithContext(ctx))
}
