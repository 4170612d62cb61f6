package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/metadata"
)

// EnrichCommand enriches a stored book, or registers a new one from an ISBN.
type EnrichCommand struct {
	DatabasePath string
	BookID       uint
	ISBN         string

	// Lookup overrides the configured metadata sources.
	Lookup catalog.InfoLookup
	Out    io.Writer
}

// NewEnrichCommand creates a new EnrichCommand
func NewEnrichCommand() *EnrichCommand {
	return &EnrichCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *EnrichCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)

	var bookID uint64
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")
	fs.Uint64Var(&bookID, "book-id", 0, "Enrich the stored book with this ID")
	fs.StringVar(&cmd.ISBN, "isbn", "", "Register a new book from this ISBN")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s enrich (-book-id ID | -isbn ISBN) [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch metadata from Open Library and Google Books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s enrich -book-id 12\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s enrich -isbn 9780441013593\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.BookID = uint(bookID)
	cmd.ISBN = strings.TrimSpace(cmd.ISBN)

	if (cmd.BookID == 0) == (cmd.ISBN == "") {
		return errors.New("exactly one of -book-id or -isbn is required")
	}
	return nil
}

// Run executes the enrich command
func (cmd *EnrichCommand) Run(ctx context.Context) error {
	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	lookup := cmd.Lookup
	if lookup == nil {
		lookup = NewMetadataLookup(config.NewConfig().Metadata)
	}
	manager := catalog.NewManager(database.NewUnitOfWork(db.DB), lookup)

	if cmd.ISBN != "" {
		book, err := manager.CreateFromISBN(ctx, cmd.ISBN)
		if err != nil {
			return fmt.Errorf("failed to create book from ISBN %s: %w", cmd.ISBN, err)
		}
		fmt.Fprintf(cmd.Out, "Created book %d: %q by %s\n", book.ID, book.Title, book.Author)
		return nil
	}

	result, err := manager.EnrichExisting(ctx, cmd.BookID)
	if err != nil {
		return fmt.Errorf("failed to enrich book %d: %w", cmd.BookID, err)
	}
	fmt.Fprintf(cmd.Out, "Enriched book %d from %s: %s\n",
		result.Book.ID, result.Source, strings.Join(result.FieldsUpdated, ", "))
	return nil
}

// NewMetadataLookup builds the configured metadata source chain.
func NewMetadataLookup(cfg config.Metadata) *metadata.Lookup {
	return metadata.NewDefaultLookup(cfg.OpenLibraryURL, cfg.GoogleBooksURL, metadata.ClientConfig{
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
	})
}
