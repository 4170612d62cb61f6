package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/services"
)

const queueDSNParams = "?_journal=WAL&_timeout=5000&_busy_timeout=5000"

// Client runs catalog jobs on a backlite queue stored beside the main database.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int

	mu      sync.Mutex
	queues  map[string]struct{}
	running bool
}

// TasksDBPath maps "data/library.db" to "data/library-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+queueDSNParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err == nil {
		err = bl.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{
		backlite: bl,
		db:       db,
		workers:  cfg.Workers,
		queues:   make(map[string]struct{}),
	}, nil
}

// Register adds a queue under the name its tasks report. Must be called before Start.
func (c *Client) Register(name string, queue backlite.Queue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backlite.Register(queue)
	c.queues[name] = struct{}{}
}

// RegisterCatalog binds the enrich_book and create_from_isbn queues to enricher.
func (c *Client) RegisterCatalog(enricher services.BookEnricher) {
	c.Register(EnrichBookTask{}.Config().Name, NewEnrichBookQueue(enricher))
	c.Register(CreateFromISBNTask{}.Config().Name, NewCreateFromISBNQueue(enricher))
}

// Queues lists the registered queue names.
func (c *Client) Queues() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.queues))
	for name := range c.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins processing tasks without blocking. Repeated calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	log.Printf("[TASK] Queue started with %d workers, queues: %v", c.workers, c.Queues())
	c.backlite.Start(ctx)
}

// Stop waits for in-flight tasks and reports whether they all finished
// before ctx expired.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	running := c.running
	c.running = false
	c.mu.Unlock()
	if !running {
		return true
	}

	graceful := c.backlite.Stop(ctx)
	if graceful {
		log.Println("[TASK] Queue stopped")
	} else {
		log.Println("[TASK] Queue stop timed out; unfinished tasks will be released on next start")
	}
	return graceful
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Enqueue saves a single task and returns its ID. Tasks for queues that
// were never registered are refused, since no worker would pick them up.
func (c *Client) Enqueue(task backlite.Task) (string, error) {
	name := task.Config().Name

	c.mu.Lock()
	_, known := c.queues[name]
	c.mu.Unlock()
	if !known {
		return "", fmt.Errorf("enqueue %s: queue is not registered", name)
	}

	ids, err := c.backlite.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", name, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue %s: no task id returned", name)
	}
	return ids[0], nil
}

func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.backlite.Status(ctx, taskID)
}

// StatusName renders a backlite status for API responses.
func StatusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] %s %v", message, params)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] %s %v", message, params)
}
