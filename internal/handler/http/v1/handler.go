package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/metrics"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	sessionService  service.SessionService
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
	metrics         *metrics.Metrics
}

func NewHandler(sessionService service.SessionService, incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config, m *metrics.Metrics) *Handler {
	return &Handler{
		sessionService:  sessionService,
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
		metrics:         m,
	}
}

// writeServiceError отображает ошибку сервиса в HTTP статус
func (h *Handler) writeServiceError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrIncidentNotFound):
		log.WithError(err).Warn("Incident not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	case errors.Is(err, service.ErrDuplicateIncident):
		log.WithError(err).Warn("Duplicate incident")
		c.JSON(http.StatusConflict, gin.H{"error": "incident already exists"})
	case errors.Is(err, service.ErrInvalidTransition):
		log.WithError(err).Warn("Invalid status transition")
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	case errors.Is(err, models.ErrInvalidValue):
		log.WithError(err).Warn("Invalid value")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Service call failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) sessionResponse() SessionResponse {
	resp := SessionResponse{Busy: h.sessionService.Busy()}
	if identity, ok := h.sessionService.CurrentIdentity(); ok {
		resp.Authenticated = true
		resp.Identity = ModelToIdentityResponse(identity)
	}
	return resp
}

// @Summary Sign in
// @Description Authenticate by email and password. Rate limited per client IP.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignInRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input SignInRequest
	log := h.logger.WithField("method", "signIn")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.sessionService.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	h.metrics.ObserveSignIn(ok)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse())
}

// @Summary Sign up
// @Description Register a new user account and sign in as it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body SignUpRequest true "Account data"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	log := h.logger.WithField("method", "signUp")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := &models.Profile{Name: input.Name, Phone: input.Phone}
	ok, err := h.sessionService.SignUp(c.Request.Context(), input.Email, input.Password, profile)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	c.JSON(http.StatusCreated, h.sessionResponse())
}

// @Summary Sign out
// @Tags Auth
// @Success 204 "No Content"
// @Router /auth/sign-out [post]
func (h *Handler) signOut(c *gin.Context) {
	h.sessionService.SignOut(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// @Summary Current session
// @Description Get the signed-in identity and the busy flag.
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /auth/session [get]
func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionResponse())
}

// @Summary Report an incident
// @Description Create a new incident report. The reporter is taken from the session unless the report is anonymous. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	if identity, ok := h.sessionService.CurrentIdentity(); ok && !model.IsAnonymous {
		model.OwnerID = identity.ID
	}

	if err := h.incidentService.CreateIncident(c.Request.Context(), model); err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	h.metrics.ObserveIncidentCreated(string(model.Category), string(model.Severity))
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Get all incidents, newest first, optionally filtered. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Status filter" Enums(reported, in-progress, resolved, rejected)
// @Param severity query string false "Severity filter" Enums(low, medium, high, critical)
// @Param responder_type query string false "Responder type filter" Enums(fire-dept, police, medical, emergency)
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	filter, err := parseFilter(c)
	if err != nil {
		log.WithError(err).Warn("Invalid filter")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

func parseFilter(c *gin.Context) (models.IncidentFilter, error) {
	var (
		filter models.IncidentFilter
		err    error
	)
	if v := c.Query("status"); v != "" {
		if filter.Status, err = models.ParseStatus(v); err != nil {
			return filter, err
		}
	}
	if v := c.Query("severity"); v != "" {
		if filter.Severity, err = models.ParseSeverity(v); err != nil {
			return filter, err
		}
	}
	if v := c.Query("responder_type"); v != "" {
		if filter.ResponderType, err = models.ParseResponderType(v); err != nil {
			return filter, err
		}
	}
	return filter, nil
}

// @Summary My incidents
// @Description Get non-anonymous incidents reported by the signed-in identity. Requires API key and session.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/mine [get]
func (h *Handler) listMyIncidents(c *gin.Context) {
	identity := currentIdentity(c)
	log := h.logger.WithField("method", "listMyIncidents").WithField("identity_id", identity.ID)

	incidents, err := h.incidentService.GetIncidentsByUser(c.Request.Context(), identity.ID)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update an incident
// @Description Partially update an incident. Absent fields are left unchanged. Requires API key and admin session.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [patch]
func (h *Handler) updateIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := DTOToIncidentPatch(input)
	updated, err := h.incidentService.UpdateIncident(c.Request.Context(), id, patch)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	if patch.Status != nil {
		h.metrics.ObserveStatusChange(string(updated.Status))
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(updated))
}

// @Summary Accept an incident
// @Description Move a reported incident to in-progress. Requires API key and responder or admin session.
// @Tags Responders
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /incidents/{id}/accept [post]
func (h *Handler) acceptIncident(c *gin.Context) {
	h.respond(c, "acceptIncident", h.incidentService.AcceptIncident)
}

// @Summary Resolve an incident
// @Description Move an in-progress incident to resolved. Requires API key and responder or admin session.
// @Tags Responders
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /incidents/{id}/resolve [post]
func (h *Handler) resolveIncident(c *gin.Context) {
	h.respond(c, "resolveIncident", h.incidentService.ResolveIncident)
}

// @Summary Reject an incident
// @Description Reject a reported incident. Requires API key and responder or admin session.
// @Tags Responders
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /incidents/{id}/reject [post]
func (h *Handler) rejectIncident(c *gin.Context) {
	h.respond(c, "rejectIncident", h.incidentService.RejectIncident)
}

// respond выполняет переход статуса от имени ответчика
func (h *Handler) respond(c *gin.Context, method string, op func(ctx context.Context, id string) (*models.Incident, error)) {
	id := c.Param("id")
	log := h.logger.WithField("method", method).WithField("id", id)
	if identity := currentIdentity(c); identity != nil {
		log = log.WithField("identity_id", identity.ID)
	}

	updated, err := op(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	h.metrics.ObserveStatusChange(string(updated.Status))
	c.JSON(http.StatusOK, ModelToIncidentResponse(updated))
}

// @Summary Get incident statistics
// @Description Get incident counts by status and severity. Requires API key and admin session.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, StatsToResponse(stats))
}

// @Summary List users
// @Description List registered identities with counts per role. Requires API key and admin session.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} UsersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	log := h.logger.WithField("method", "listUsers")

	identities, err := h.sessionService.ListIdentities(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}
	counts, err := h.sessionService.CountByRole(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}

	resp := UsersResponse{
		Users:  make([]*IdentityResponse, len(identities)),
		ByRole: make(map[string]int, len(counts)),
	}
	for i, identity := range identities {
		resp.Users[i] = ModelToIdentityResponse(identity)
	}
	for role, n := range counts {
		resp.ByRole[string(role)] = n
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Value catalog
// @Description Get incident types, responder types, severities and statuses with display labels.
// @Tags System
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /catalog [get]
func (h *Handler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, buildCatalog())
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
