// Package api is the thin HTTP surface over the gateway and job store.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"lecture-insights-go/internal/export"
	"lecture-insights-go/internal/gateway"
	"lecture-insights-go/internal/jobstore"
	"lecture-insights-go/internal/logger"
	"lecture-insights-go/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Submitter accepts a new audio artifact and returns its job id.
type Submitter interface {
	Submit(ctx context.Context, filename string, audio []byte) (string, error)
}

// Handler serves the job endpoints.
type Handler struct {
	gateway Submitter
	store   jobstore.Store
	log     *logger.Logger
}

// NewHandler wires the HTTP handlers.
func NewHandler(gw Submitter, store jobstore.Store, log *logger.Logger) *Handler {
	return &Handler{gateway: gw, store: store, log: log}
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Upload accepts a multipart audio file and queues a new job.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("audio_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file required"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename not provided"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	jobID, err := h.gateway.Submit(c.Request.Context(), file.Filename, data)
	if err != nil {
		if errors.Is(err, gateway.ErrMissingFilename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Filename not provided"})
			return
		}
		h.log.WithRequest(c.Request).WithError(err).Error("submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": types.StatusPending})
}

// Status reports {status, step, error} for one job.
func (h *Handler) Status(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": job.Status, "step": job.Step, "error": job.Error})
}

// Results returns the full record once the job is done.
func (h *Handler) Results(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	if job.Status != types.StatusDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job not yet complete"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// Export streams the XLSX study pack for a finished job.
func (h *Handler) Export(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	if job.Status != types.StatusDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job not yet complete"})
		return
	}

	buf, err := export.Build(job)
	if err != nil {
		h.log.WithRequest(c.Request).WithError(err).Error("export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename)) + "_notes.xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) loadJob(c *gin.Context) (*types.Job, bool) {
	job, err := h.store.Load(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, jobstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			h.log.WithRequest(c.Request).WithError(err).Error("job load failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return job, true
}
