package api

import (
	"context"
	"net/http"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/check"
	"github.com/RishiKendai/aegis-origin/internal/config"
	"github.com/RishiKendai/aegis-origin/internal/fetch"
	"github.com/RishiKendai/aegis-origin/internal/infra/redis"
	"github.com/RishiKendai/aegis-origin/internal/models"
	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CheckRunner executes originality checks.
type CheckRunner interface {
	Execute(ctx context.Context, req *models.CheckRequest) (*check.Outcome, error)
}

// ReportReader loads stored check reports.
type ReportReader interface {
	GetReportByCheckID(ctx context.Context, checkID string) (*models.CheckReport, error)
}

// FileResultReader loads stored per-file results.
type FileResultReader interface {
	GetFileResultsByCheckID(ctx context.Context, checkID string) ([]*models.FileResultRecord, error)
}

// Handler holds dependencies for handlers
type Handler struct {
	runner       CheckRunner
	reports      ReportReader
	files        FileResultReader
	redisClient  *redis.Client
	checkSem     chan struct{} // Semaphore for bounded concurrency
	checkTimeout time.Duration
}

// NewHandler creates a new handler. redisClient may be nil, in which case
// live phases are not reported.
func NewHandler(
	cfg *config.Config,
	runner CheckRunner,
	reports ReportReader,
	files FileResultReader,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		runner:       runner,
		reports:      reports,
		files:        files,
		redisClient:  redisClient,
		checkSem:     make(chan struct{}, cfg.MaxConcurrentChecks),
		checkTimeout: cfg.CheckTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// CreateCheck accepts a repository for analysis and processes it asynchronously.
func (h *Handler) CreateCheck(c *gin.Context) {
	var req models.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := fetch.ValidateURL(req.RepoURL); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REPO_URL",
		})
		return
	}

	// Acquire semaphore (bounded concurrency)
	ctx := c.Request.Context()
	select {
	case h.checkSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	checkID := uuid.NewString()
	h.updateStatus(ctx, checkID, plagiarism.PhaseIdle)

	c.JSON(http.StatusAccepted, models.ComputeResponse{
		Step:    models.StepInitiated,
		CheckID: checkID,
	})

	go h.processCheck(&models.CheckRequest{
		CheckID: checkID,
		RepoURL: req.RepoURL,
	})
}

// processCheck runs a check in the background
func (h *Handler) processCheck(req *models.CheckRequest) {
	defer func() { <-h.checkSem }() // Release semaphore

	ctx, cancel := context.WithTimeout(context.Background(), h.checkTimeout)
	defer cancel()

	if _, err := h.runner.Execute(ctx, req); err != nil {
		log.Error().Err(err).Str("checkId", req.CheckID).Msg("Check failed")
		return
	}

	log.Debug().Str("checkId", req.CheckID).Msg("Check completed successfully")
}

// GetCheck returns the stored report together with the live phase.
func (h *Handler) GetCheck(c *gin.Context) {
	checkID := c.Param("checkId")
	ctx := c.Request.Context()

	report, err := h.reports.GetReportByCheckID(ctx, checkID)
	if err != nil {
		log.Error().Err(err).Str("checkId", checkID).Msg("Failed to load report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	phase, found := h.phase(ctx, checkID)
	if report == nil && !found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Check not found",
			Code:  "CHECK_NOT_FOUND",
		})
		return
	}
	if !found {
		phase = plagiarism.Phase(report.Phase)
	}

	c.JSON(http.StatusOK, models.CheckStatusResponse{
		CheckID: checkID,
		Phase:   string(phase),
		Report:  report,
	})
}

// GetCheckFiles returns the per-file results of a check, most similar first.
func (h *Handler) GetCheckFiles(c *gin.Context) {
	checkID := c.Param("checkId")
	ctx := c.Request.Context()

	records, err := h.files.GetFileResultsByCheckID(ctx, checkID)
	if err != nil {
		log.Error().Err(err).Str("checkId", checkID).Msg("Failed to load file results")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load file results",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if len(records) == 0 {
		report, err := h.reports.GetReportByCheckID(ctx, checkID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if report == nil {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Check not found",
				Code:  "CHECK_NOT_FOUND",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"checkId": checkID,
		"files":   records,
	})
}

func (h *Handler) updateStatus(ctx context.Context, checkID string, phase plagiarism.Phase) {
	if h.redisClient == nil {
		return
	}
	if err := plagiarism.UpdateStatus(ctx, h.redisClient, checkID, phase); err != nil {
		log.Warn().Err(err).Str("checkId", checkID).Msg("Failed to update check status")
	}
}

func (h *Handler) phase(ctx context.Context, checkID string) (plagiarism.Phase, bool) {
	if h.redisClient == nil {
		return plagiarism.PhaseIdle, false
	}
	phase, found, err := plagiarism.GetStatus(ctx, h.redisClient, checkID)
	if err != nil {
		log.Warn().Err(err).Str("checkId", checkID).Msg("Failed to read check status")
		return plagiarism.PhaseIdle, false
	}
	return phase, found
}
