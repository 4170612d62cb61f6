// Package database provides the data access layer for the catalog and
// loan records.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, active loan index
//	├── unit_of_work.go  # Transactional access to the stores
//	├── books/           # Book CRUD, search and availability updates
//	└── loans/           # Loan CRUD and status queries
//
// # Usage
//
//	db, err := database.NewDatabase("./library.db")
//	uow := database.NewUnitOfWork(db.DB)
//
//	err = uow.Do(ctx, func(s services.Stores) error {
//	    book, err := s.Books().Get(id)
//	    ...
//	    return s.Loans().Save(loan)
//	})
//
// SQLite connections are opened with BEGIN IMMEDIATE transactions, so two
// units of work that both mutate the database run one after the other. A
// partial unique index on loans(book_id) WHERE status = 'ACTIVE' backs the
// one-active-loan-per-book rule at the storage level.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Expose it through services.Stores if it takes part in units of work
//  5. Add compile-time interface check in internal/interfaces
package database
