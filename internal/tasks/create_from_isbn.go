package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/services"
)

// CreateFromISBNTask registers a new book from external metadata.
type CreateFromISBNTask struct {
	ISBN string `json:"isbn"`
}

// Config returns the queue configuration for ISBN registration tasks.
func (t CreateFromISBNTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "create_from_isbn",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CreateFromISBNProcessor creates a processor function for CreateFromISBNTask.
func CreateFromISBNProcessor(enricher services.BookEnricher) backlite.QueueProcessor[CreateFromISBNTask] {
	return func(ctx context.Context, task CreateFromISBNTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		book, err := enricher.CreateFromISBN(ctx, task.ISBN)
		if err != nil {
			if permanent(err) {
				log.Printf("[TASK] ISBN %s not registered: %v", task.ISBN, err)
				return nil
			}
			return fmt.Errorf("create book from ISBN %s: %w", task.ISBN, err)
		}

		log.Printf("[TASK] Registered book %d (%s) from ISBN %s", book.ID, book.Title, task.ISBN)
		return nil
	}
}

// NewCreateFromISBNQueue creates a backlite queue for ISBN registration tasks.
func NewCreateFromISBNQueue(enricher services.BookEnricher) backlite.Queue {
	return backlite.NewQueue(CreateFromISBNProcessor(enricher))
}
