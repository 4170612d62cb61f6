package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mrlokans/librarian/internal/database"
)

// openDatabase resolves path and opens the library database, creating
// the schema when needed.
func openDatabase(path string) (*database.Database, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
