package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/lending"
)

// OverdueCommand prints the loans that are past due.
type OverdueCommand struct {
	DatabasePath string
	AsOf         string // RFC3339 or YYYY-MM-DD; empty means now
	JSON         bool

	Out io.Writer
}

// NewOverdueCommand creates a new OverdueCommand
func NewOverdueCommand() *OverdueCommand {
	return &OverdueCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *OverdueCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("overdue", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")
	fs.StringVar(&cmd.AsOf, "as-of", "", "Evaluate overdue loans at this time (RFC3339 or YYYY-MM-DD, default now)")
	fs.BoolVar(&cmd.JSON, "json", false, "Print loans as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s overdue [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List ACTIVE loans whose due date has passed.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -as-of %q: expected RFC3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

// Run executes the overdue command
func (cmd *OverdueCommand) Run(ctx context.Context) error {
	asOf, err := parseAsOf(cmd.AsOf)
	if err != nil {
		return err
	}

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := lending.NewEngine(database.NewUnitOfWork(db.DB), lending.WithClock(func() time.Time { return asOf }))
	loans, err := engine.FindOverdue(ctx)
	if err != nil {
		return fmt.Errorf("failed to list overdue loans: %w", err)
	}

	if cmd.JSON {
		encoder := json.NewEncoder(cmd.Out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(loans)
	}

	if len(loans) == 0 {
		fmt.Fprintln(cmd.Out, "No overdue loans")
		return nil
	}

	w := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOAN\tBOOK\tBORROWER\tEMAIL\tDUE\tDAYS LATE")
	for _, loan := range loans {
		daysLate := int(asOf.Sub(loan.DueAt).Hours() / 24)
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\n",
			loan.ID, loan.BookID, loan.BorrowerName, loan.BorrowerEmail, loan.DueAt.Format(time.DateOnly), daysLate)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "\n%d overdue loan(s)\n", len(loans))
	return nil
}
