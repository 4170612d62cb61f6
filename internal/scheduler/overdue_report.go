// Package scheduler runs periodic read-only jobs over the loan records.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/entities"
)

// OverdueSource lists loans that are past due at the source's notion of now.
type OverdueSource interface {
	FindOverdue(ctx context.Context) ([]entities.Loan, error)
}

// ReportFunc receives each overdue report. The default writes to the log.
type ReportFunc func(loans []entities.Loan)

// OverdueReportScheduler periodically logs the loans that are overdue.
// It never modifies loans or books.
type OverdueReportScheduler struct {
	source   OverdueSource
	schedule string
	report   ReportFunc

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOverdueReportScheduler creates a scheduler; report may be nil.
func NewOverdueReportScheduler(source OverdueSource, schedule string, report ReportFunc) *OverdueReportScheduler {
	if report == nil {
		report = LogOverdueLoans
	}
	return &OverdueReportScheduler{
		source:   source,
		schedule: schedule,
		report:   report,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start registers the report job and starts the cron loop. The scheduler
// stops when ctx is cancelled.
func (s *OverdueReportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule overdue report: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	log.Printf("[SCHEDULER] Overdue report started with schedule '%s' (%s). Next run: %v",
		s.schedule, GetCronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for a running report to finish.
func (s *OverdueReportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("[SCHEDULER] Overdue report stopped")
}

// IsRunning returns whether the scheduler is active
func (s *OverdueReportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next report will run, or nil when stopped.
func (s *OverdueReportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow produces one report synchronously.
func (s *OverdueReportScheduler) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	loans, err := s.source.FindOverdue(ctx)
	if err != nil {
		log.Printf("[SCHEDULER] Overdue report failed: %v", err)
		return err
	}
	s.report(loans)
	return nil
}

// LogOverdueLoans writes one line per overdue loan.
func LogOverdueLoans(loans []entities.Loan) {
	if len(loans) == 0 {
		log.Printf("[SCHEDULER] No overdue loans")
		return
	}

	log.Printf("[SCHEDULER] %d overdue loan(s)", len(loans))
	for _, loan := range loans {
		log.Printf("[SCHEDULER]   loan %d: book %d, %s <%s>, due %s",
			loan.ID, loan.BookID, loan.BorrowerName, loan.BorrowerEmail, loan.DueAt.Format(time.RFC3339))
	}
}
