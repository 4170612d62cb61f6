package config

// Default paths and endpoints
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./librarian.db"

	// DefaultEnvFile is loaded before reading the environment, when present
	DefaultEnvFile = ".env"

	DefaultOpenLibraryURL = "https://openlibrary.org"
	DefaultGoogleBooksURL = "https://www.googleapis.com"
	DefaultUserAgent      = "librarian/1.0 (+https://github.com/mrlokans/librarian)"
)
