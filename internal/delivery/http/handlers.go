package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/service"
	"github.com/rs/zerolog"
)

type Handlers struct {
	cfg     *config.Config
	service *service.LeadService
	logger  zerolog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(cfg *config.Config, service *service.LeadService, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		cfg:     cfg,
		service: service,
		logger:  logger.With().Str("layer", "http_handler").Logger(),
	}
}

// RegisterRoutes sets up the routing for the contact API.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/api/hello", h.Hello)
	router.GET("/test", h.TestDatabase)
	router.POST("/api/email/test", h.EmailTest)
	router.POST("/api/contact", h.CreateContactLead)
}

// Root handles the bare greeting endpoint.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Hello from the Neon Labs backend!"})
}

// Hello handles the API greeting endpoint.
func (h *Handlers) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Hello from the backend API!"})
}

// TestDatabase reports document store availability and configuration.
// It never fails; every state renders as a status string.
func (h *Handlers) TestDatabase(c *gin.Context) {
	diag := h.service.CheckStore(c.Request.Context())
	c.JSON(http.StatusOK, toDiagnosticsResponse(h.cfg, diag))
}

// EmailTest sends a fixed diagnostic email to verify provider
// configuration, optionally to an overridden recipient.
func (h *Handlers) EmailTest(c *gin.Context) {
	var req EmailTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ok, to := h.service.SendTestEmail(c.Request.Context(), req.To)
	c.JSON(http.StatusOK, EmailTestResponse{OK: ok, To: to})
}

// CreateContactLead captures a contact-form submission. A persistence
// failure fails the request; a notification failure only flips email_sent.
func (h *Handlers) CreateContactLead(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	id, sent, err := h.service.SubmitLead(c.Request.Context(), req.Name, req.Email, req.Message, req.Source)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to submit lead")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store contact lead"})
		return
	}

	c.JSON(http.StatusOK, ContactResponse{Status: "ok", ID: id, EmailSent: sent})
}
