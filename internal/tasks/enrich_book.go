package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	domainerrors "github.com/mrlokans/librarian/internal/errors"
	"github.com/mrlokans/librarian/internal/services"
)

// EnrichBookTask refreshes a stored book from the metadata sources.
type EnrichBookTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
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

// EnrichBookProcessor creates a processor function for EnrichBookTask.
func EnrichBookProcessor(enricher services.BookEnricher) backlite.QueueProcessor[EnrichBookTask] {
	return func(ctx context.Context, task EnrichBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichExisting(ctx, task.BookID)
		if err != nil {
			if permanent(err) {
				log.Printf("[TASK] Book %d not enriched: %v", task.BookID, err)
				return nil
			}
			return fmt.Errorf("enrich book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Enriched book %d (%s): updated %s via %s",
			task.BookID, result.Book.Title, strings.Join(result.FieldsUpdated, ", "), result.Source)
		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(enricher services.BookEnricher) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(enricher))
}

// permanent reports whether retrying err cannot succeed. Only upstream
// and internal failures are handed back to the queue for another attempt.
func permanent(err error) bool {
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeNotFound, domainerrors.CodeConflict, domainerrors.CodeInvalidInput:
		return true
	}
	return false
}
