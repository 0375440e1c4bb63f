package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/kundali"
	"github.com/soulsync/soulsync/internal/domain/places"
	apperrors "github.com/soulsync/soulsync/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	placesSvc    places.Service
	horoscopeSvc horoscope.Service
	kundaliSvc   kundali.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(placesSvc places.Service, horoscopeSvc horoscope.Service, kundaliSvc kundali.Service, logger *slog.Logger) *Handler {
	return &Handler{
		placesSvc:    placesSvc,
		horoscopeSvc: horoscopeSvc,
		kundaliSvc:   kundaliSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Places proxies the city autocomplete lookup.
func (h *Handler) Places(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing query parameter", nil))
		return
	}

	results, err := h.placesSvc.Search(c.Request.Context(), query)
	if err != nil {
		status := http.StatusInternalServerError
		code := "places_failed"
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, clientMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": results})
}

// Horoscope resolves a zodiac sign and scrapes its horoscope.
func (h *Handler) Horoscope(c *gin.Context) {
	dateOfBirth := c.Query("dateOfBirth")
	variant := c.Query("type")
	if dateOfBirth == "" || variant == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing dateOfBirth or type parameter", nil))
		return
	}

	result, err := h.horoscopeSvc.Read(c.Request.Context(), dateOfBirth, variant)
	if err != nil {
		status := http.StatusInternalServerError
		code := "horoscope_failed"
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, clientMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateChart runs the full chart generation pipeline.
func (h *Handler) GenerateChart(c *gin.Context) {
	var req kundali.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid request body", err))
		return
	}

	resp, err := h.kundaliSvc.Generate(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "chart_failed"
		switch {
		case apperrors.IsCode(err, apperrors.CodeInvalidInput):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, apperrors.CodeUpstreamStatus):
			status = http.StatusBadRequest
			code = "upstream_status"
		}
		abortWithError(c, NewHTTPError(status, code, clientMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// clientMessage picks what a caller may see: the domain message only, never
// the wrapped cause chain. Causes carry hosts and dial errors and belong in
// the server log.
func clientMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}
