package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/treasurehunter/watcher/internal/domain"
	"github.com/treasurehunter/watcher/internal/usecase"
)

// StatusSource is the read-only view of the watch loop the handler reports on
type StatusSource interface {
	Status() usecase.SchedulerStatus
	Targets() []domain.WatchTarget
}

// MatchSource is the read-only view of remembered matches
type MatchSource interface {
	Size() int
	Snapshot() []domain.SeenMatch
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scheduler StatusSource
	registry  MatchSource
}

// NewHandler creates a new HTTP handler.
// A nil scheduler or registry makes the corresponding endpoints report 503.
func NewHandler(scheduler StatusSource, registry MatchSource) *Handler {
	return &Handler{
		scheduler: scheduler,
		registry:  registry,
	}
}

// StatusResponse is the body of GET /api/v1/status
type StatusResponse struct {
	usecase.SchedulerStatus
	RegistrySize int `json:"registrySize"`
}

// TargetView is a watch target together with the price tolerance applied to it
type TargetView struct {
	Name        string `json:"name"`
	TargetPrice int    `json:"targetPrice"`
	Tolerance   int    `json:"tolerance"`
	MinPrice    int    `json:"minPrice"`
	MaxPrice    int    `json:"maxPrice"`
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "treasure-hunter",
		"version": "3.0.0",
	})
}

// GetStatus reports scheduler progress and the number of remembered matches
func (h *Handler) GetStatus(c *gin.Context) {
	if h.scheduler == nil || h.registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Watch loop not running",
		})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		SchedulerStatus: h.scheduler.Status(),
		RegistrySize:    h.registry.Size(),
	})
}

// ListTargets returns the configured targets in watch order
func (h *Handler) ListTargets(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Watch loop not running",
		})
		return
	}

	targets := h.scheduler.Targets()
	views := make([]TargetView, 0, len(targets))
	for _, t := range targets {
		tol := usecase.Tolerance(t.TargetPrice)
		views = append(views, TargetView{
			Name:        t.Name,
			TargetPrice: t.TargetPrice,
			Tolerance:   tol,
			MinPrice:    t.TargetPrice - tol,
			MaxPrice:    t.TargetPrice + tol,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"targets": views,
		"count":   len(views),
	})
}

// ListMatches returns every alerted match in the order it was first seen
func (h *Handler) ListMatches(c *gin.Context) {
	if h.registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Watch loop not running",
		})
		return
	}

	matches := h.registry.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"count":   len(matches),
	})
}
