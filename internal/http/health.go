package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// healthProbe reports a component state; a non-nil error marks the service unhealthy.
type healthProbe func(ctx context.Context) (string, error)

type HealthController struct {
	probes    map[string]healthProbe
	version   string
	startedAt time.Time
}

func NewHealthController(db *database.Database, queue TaskQueue, version string) *HealthController {
	return &HealthController{
		probes: map[string]healthProbe{
			"database":   databaseProbe(db),
			"task_queue": taskQueueProbe(queue),
		},
		version:   version,
		startedAt: time.Now(),
	}
}

func databaseProbe(db *database.Database) healthProbe {
	return func(ctx context.Context) (string, error) {
		if db == nil {
			return "not configured", nil
		}
		if err := db.Ping(ctx); err != nil {
			return "error: " + err.Error(), err
		}
		return "ok", nil
	}
}

// The queue shares the process; being disabled is not a failure.
func taskQueueProbe(queue TaskQueue) healthProbe {
	return func(context.Context) (string, error) {
		if queue == nil {
			return "disabled", nil
		}
		return "enabled", nil
	}
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Version: h.version,
		Checks:  make(map[string]string, len(h.probes)),
	}

	for name, probe := range h.probes {
		state, err := probe(ctx)
		response.Checks[name] = state
		if err != nil {
			response.Status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, response)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
