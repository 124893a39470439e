package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pdfbabel/internal/models"
	"pdfbabel/internal/storage"
)

// JobHandler handles job status and admin requests.
type JobHandler struct {
	repo *storage.JobRepository
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(repo *storage.JobRepository) *JobHandler {
	return &JobHandler{repo: repo}
}

// StatusResponse is the client-facing job snapshot.
type StatusResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	OriginalFile   string `json:"original_file"`
	TranslatedFile string `json:"translated_file,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
	Error          string `json:"error,omitempty"`
}

func snapshot(job *models.TranslationJob) StatusResponse {
	resp := StatusResponse{
		ID:           job.ID,
		Status:       job.Status,
		Progress:     job.Progress,
		OriginalFile: job.Filename,
		Error:        job.Error,
	}
	if job.Status == models.JobStatusCompleted && job.TranslatedFile != "" {
		resp.TranslatedFile = job.TranslatedFile
		resp.DownloadURL = "/download/" + job.TranslatedFile
	}
	return resp
}

// Status returns the current job snapshot.
// GET /status/:id
func (h *JobHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	return c.JSON(http.StatusOK, snapshot(job))
}

// Events pushes job snapshots over server-sent events until the job reaches
// a terminal state or the client disconnects.
// GET /events/:id
func (h *JobHandler) Events(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(job *models.TranslationJob) error {
		payload, err := json.Marshal(snapshot(job))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		w.Flush()
		return nil
	}

	if err := send(job); err != nil {
		return nil
	}
	if models.IsTerminal(job.Status) {
		return nil
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			job, err := h.repo.GetByID(ctx, id)
			if err != nil || job == nil {
				return nil
			}
			if err := send(job); err != nil {
				return nil
			}
			if models.IsTerminal(job.Status) {
				return nil
			}
		}
	}
}

// List returns the most recent jobs.
// GET /api/jobs
func (h *JobHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	jobs, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if jobs == nil {
		jobs = []models.TranslationJob{}
	}

	return c.JSON(http.StatusOK, jobs)
}

// Stats returns the number of jobs per status.
// GET /api/jobs/stats
func (h *JobHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.repo.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, counts)
}

// Delete removes a job record.
// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}
