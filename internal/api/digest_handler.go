package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/service"
)

const htmlContentType = "text/html; charset=utf-8"

// DigestHandler handles digest rendering and archive endpoints
type DigestHandler struct {
	services *service.Services
	timeout  time.Duration
	log      zerolog.Logger
}

// NewDigestHandler creates a new DigestHandler
func NewDigestHandler(services *service.Services, timeout time.Duration, log zerolog.Logger) *DigestHandler {
	return &DigestHandler{
		services: services,
		timeout:  timeout,
		log:      log.With().Str("handler", "digest").Logger(),
	}
}

// DownloadDigest handles GET /v1/digests?startDate=...&endDate=...&locale=...
// Renders the digest for the window as an HTML attachment
func (h *DigestHandler) DownloadDigest(c *gin.Context) {
	var req models.DigestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	rendered, err := h.services.Digest.Render(ctx, req)
	if err != nil {
		respondQueryError(c, h.log, err)
		return
	}

	sendDigest(c, rendered.HTML)
}

// CreateDigest handles POST /v1/digests
// Renders the window and stores the result in the archive
func (h *DigestHandler) CreateDigest(c *gin.Context) {
	if !h.archiveEnabled(c) {
		return
	}

	var req models.DigestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	digest, err := h.services.Archive.Create(ctx, req)
	if err != nil {
		respondQueryError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, digest)
}

// GetDigest handles GET /v1/digests/:digest_id
func (h *DigestHandler) GetDigest(c *gin.Context) {
	digest, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, digest)
}

// DownloadArchived handles GET /v1/digests/:digest_id/download
func (h *DigestHandler) DownloadArchived(c *gin.Context) {
	digest, ok := h.lookup(c)
	if !ok {
		return
	}
	sendDigest(c, digest.HTML)
}

// ListArchive handles GET /v1/archive?limit=...&offset=...
func (h *DigestHandler) ListArchive(c *gin.Context) {
	if !h.archiveEnabled(c) {
		return
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be an integer"})
		return
	}

	page, err := h.services.Archive.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list archive")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list digests"})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DigestHandler) lookup(c *gin.Context) (*models.Digest, bool) {
	if !h.archiveEnabled(c) {
		return nil, false
	}

	id := c.Param("digest_id")
	digest, err := h.services.Archive.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("digest_id", id).Msg("Failed to get digest")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get digest"})
		return nil, false
	}
	if digest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Digest not found"})
		return nil, false
	}
	return digest, true
}

func (h *DigestHandler) archiveEnabled(c *gin.Context) bool {
	if h.services.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Digest archive is not enabled"})
		return false
	}
	return true
}

func sendDigest(c *gin.Context, html string) {
	c.Header("Content-Disposition", "attachment; filename="+models.DigestFileName)
	c.Data(http.StatusOK, htmlContentType, []byte(html))
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
