package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
	"github.com/submission-digest-api/internal/service"
)

// fetchFailedMessage is returned whenever the upstream feed cannot be used
const fetchFailedMessage = "Failed to fetch data"

// MagazineHandler handles the window query endpoints
type MagazineHandler struct {
	services *service.Services
	timeout  time.Duration
	log      zerolog.Logger
}

// NewMagazineHandler creates a new MagazineHandler
func NewMagazineHandler(services *service.Services, timeout time.Duration, log zerolog.Logger) *MagazineHandler {
	return &MagazineHandler{
		services: services,
		timeout:  timeout,
		log:      log.With().Str("handler", "magazine").Logger(),
	}
}

// ListMagazines handles GET /v1/magazines?startDate=...&endDate=...&locale=...
// Returns the ordered display records for the window
func (h *MagazineHandler) ListMagazines(c *gin.Context) {
	var req models.DigestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	result, err := h.services.Digest.Records(ctx, req)
	if err != nil {
		respondQueryError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result.Records)
}

// ListRejected handles GET /v1/magazines/rejected
// Reports upstream records with validation problems
func (h *MagazineHandler) ListRejected(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	problems, err := h.services.Digest.Rejected(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to validate feed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fetchFailedMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"errors": problems,
		"count":  len(problems),
	})
}

// respondQueryError maps window errors to 400 and everything else to 500
func respondQueryError(c *gin.Context, log zerolog.Logger, err error) {
	if errors.Is(err, pipeline.ErrInvalidWindow) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Msg("Window query failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": fetchFailedMessage})
}
