// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces (internal/services/interfaces.go)
//
//   - BookStore: Book persistence, lookups and the availability compare-and-set
//   - LoanStore: Loan persistence and the active/overdue queries
//   - UnitOfWork: Runs a function against transaction-bound stores
//
// ## Domain Service Interfaces (internal/http/stores.go)
//
//   - CatalogService: Book CRUD, search, availability, ISBN lookup and enrichment
//   - LendingService: Lend, return, edit and query loans
//   - TaskQueue: Enqueue background jobs and read their status
//
// ## External Service Interfaces
//
//   - metadata.Source: One bibliographic API keyed by ISBN (internal/metadata/metadata.go)
//   - catalog.InfoLookup: The prioritized source chain used by the catalog
//   - services.BookEnricher: The catalog surface used by background tasks
//
// # Adding a New Metadata Source
//
//  1. Implement Source in internal/metadata/
//
//     type WorldCatClient struct {
//         httpSource
//     }
//
//     func (c *WorldCatClient) Name() string
//     func (c *WorldCatClient) LookupISBN(ctx context.Context, isbn string) (*BookInfo, error)
//
//  2. Add it to the chain in NewDefaultLookup; position is priority
//
//  3. Add a compile-time check in checks.go
//
// # Adding a New Background Task
//
//  1. Define the task type with a Config() method in internal/tasks/
//
//  2. Write a processor returning backlite.QueueProcessor[T] and a NewXQueue constructor
//
//  3. Register the queue in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
