package books

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return repo, cleanup
}

func saveBook(t *testing.T, repo *Repository, title, author, isbn string, available bool) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title, Author: author, ISBN: isbn, Available: available}
	require.NoError(t, repo.Save(book))
	return book
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	year := 2008
	book := &entities.Book{
		Title:           "Clean Code",
		Author:          "Robert C. Martin",
		ISBN:            "9780132350884",
		PublicationYear: &year,
		Available:       true,
	}
	require.NoError(t, repo.Save(book))
	assert.NotZero(t, book.ID)
	assert.False(t, book.RegisteredAt.IsZero())

	loaded, err := repo.Get(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", loaded.Title)
	assert.Equal(t, 2008, *loaded.PublicationYear)
	assert.True(t, loaded.Available)

	byISBN, err := repo.GetByISBN("9780132350884")
	require.NoError(t, err)
	assert.Equal(t, book.ID, byISBN.ID)
}

func TestRepository_SaveKeepsUnavailableFlag(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := saveBook(t, repo, "Dune", "Frank Herbert", "9780441013593", false)

	loaded, err := repo.Get(book.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Available)
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get(999)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByISBN("0000000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRepository_Save_DuplicateISBN(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	saveBook(t, repo, "Dune", "Frank Herbert", "9780441013593", true)

	err := repo.Save(&entities.Book{Title: "Dune (copy)", Author: "Frank Herbert", ISBN: "9780441013593", Available: true})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestRepository_Finders(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	saveBook(t, repo, "The Go Programming Language", "Alan Donovan", "9780134190440", true)
	saveBook(t, repo, "Concurrency in Go", "Katherine Cox-Buday", "9781491941195", false)
	saveBook(t, repo, "Dune", "Frank Herbert", "9780441013593", true)

	byTitle, err := repo.FindByTitleContains("go")
	require.NoError(t, err)
	assert.Len(t, byTitle, 2)

	byAuthor, err := repo.FindByAuthorContains("HERBERT")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Dune", byAuthor[0].Title)

	available, err := repo.FindByAvailability(true)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	byISBN, err := repo.Search("1491941")
	require.NoError(t, err)
	require.Len(t, byISBN, 1)
	assert.Equal(t, "Concurrency in Go", byISBN[0].Title)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	availableCount, err := repo.CountAvailable()
	require.NoError(t, err)
	assert.Equal(t, int64(2), availableCount)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := saveBook(t, repo, "Dune", "Frank Herbert", "9780441013593", true)

	require.NoError(t, repo.Delete(book.ID))

	exists, err := repo.Exists(book.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Delete(book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRepository_SetAvailable(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := saveBook(t, repo, "Dune", "Frank Herbert", "9780441013593", true)

	require.NoError(t, repo.SetAvailable(book.ID, false))
	loaded, err := repo.Get(book.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Available)

	err = repo.SetAvailable(12345, true)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRepository_CompareAndSetAvailable(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := saveBook(t, repo, "Dune", "Frank Herbert", "9780441013593", true)

	swapped, err := repo.CompareAndSetAvailable(book.ID, true, false)
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = repo.CompareAndSetAvailable(book.ID, true, false)
	require.NoError(t, err)
	assert.False(t, swapped)

	_, err = repo.CompareAndSetAvailable(12345, true, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
