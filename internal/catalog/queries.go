package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/entities"
)

func (m *Manager) Get(ctx context.Context, id uint) (*entities.Book, error) {
	return m.uow.Stores(ctx).Books().Get(id)
}

func (m *Manager) GetByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	return m.uow.Stores(ctx).Books().GetByISBN(isbn)
}

func (m *Manager) List(ctx context.Context) ([]entities.Book, error) {
	return m.uow.Stores(ctx).Books().List()
}

// FindByTitle matches a case-insensitive title fragment.
func (m *Manager) FindByTitle(ctx context.Context, fragment string) ([]entities.Book, error) {
	return m.uow.Stores(ctx).Books().FindByTitleContains(fragment)
}

// FindByAuthor matches a case-insensitive author fragment.
func (m *Manager) FindByAuthor(ctx context.Context, fragment string) ([]entities.Book, error) {
	return m.uow.Stores(ctx).Books().FindByAuthorContains(fragment)
}

func (m *Manager) FindByAvailability(ctx context.Context, available bool) ([]entities.Book, error) {
	return m.uow.Stores(ctx).Books().FindByAvailability(available)
}

// Search matches the term against title, author or ISBN.
func (m *Manager) Search(ctx context.Context, term string) ([]entities.Book, error) {
	return m.uow.Stores(ctx).Books().Search(term)
}

func (m *Manager) CountAvailable(ctx context.Context) (int64, error) {
	return m.uow.Stores(ctx).Books().CountAvailable()
}

// Stats counts all books and how many of them are on the shelf.
func (m *Manager) Stats(ctx context.Context) (*entities.BookStats, error) {
	books := m.uow.Stores(ctx).Books()

	total, err := books.Count()
	if err != nil {
		return nil, err
	}
	available, err := books.CountAvailable()
	if err != nil {
		return nil, err
	}

	return &entities.BookStats{
		Total:       total,
		Available:   available,
		Unavailable: total - available,
	}, nil
}
