package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/lending"
	"github.com/mrlokans/librarian/internal/metadata"
)

type stubLookup struct {
	info *metadata.BookInfo
	err  error
}

func (s *stubLookup) Lookup(ctx context.Context, isbn string) (*metadata.BookInfo, error) {
	return s.info, s.err
}

type fakeQueue struct {
	mu     sync.Mutex
	tasks  []backlite.Task
	status backlite.TaskStatus
}

func (q *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return uuid.NewString(), nil
}

func (q *fakeQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return q.status, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type apiFixture struct {
	router  *gin.Engine
	catalog *catalog.Manager
	lookup  *stubLookup
	queue   *fakeQueue
	clock   *testClock
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()

	db, err := database.NewDatabaseWithLogger(filepath.Join(t.TempDir(), "api.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uow := database.NewUnitOfWork(db.DB)
	lookup := &stubLookup{}
	clock := &testClock{now: time.Now().UTC()}
	queue := &fakeQueue{status: backlite.TaskStatusPending}
	manager := catalog.NewManager(uow, lookup)
	engine := lending.NewEngine(uow, lending.WithClock(clock.Now))

	router := NewRouter(RouterConfig{
		Catalog:   manager,
		Lending:   engine,
		Database:  db,
		TaskQueue: queue,
		Version:   "test",
	})

	return &apiFixture{router: router, catalog: manager, lookup: lookup, queue: queue, clock: clock}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) createBook(t *testing.T, title, author, isbn string) entities.Book {
	t.Helper()
	book, err := f.catalog.Create(context.Background(), catalog.NewBook{Title: title, Author: author, ISBN: isbn})
	require.NoError(t, err)
	return *book
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
