package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/config"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/service"
)

type Handler struct {
	incidentService service.IncidentService
	userService     service.UserService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, userService service.UserService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		userService:     userService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// parseID разбирает числовой идентификатор из параметра пути
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// @Summary Register a new user
// @Description Register a new user with default alert preferences (email channel enabled).
// @Tags Users
// @Accept json
// @Produce json
// @Param user body RegisterUserRequest true "User registration request"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [post]
func (h *Handler) registerUser(c *gin.Context) {
	var input RegisterUserRequest
	log := h.logger.WithField("method", "registerUser")

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

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
	}
	if err := h.userService.Register(c.Request.Context(), user, input.Password); err != nil {
		log.WithError(err).Error("Failed to register user in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToUserResponse(user))
}

// @Summary Get user alert preferences
// @Description Get notification channel preferences for a user.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} PreferencesResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "Preferences not found"
// @Router /users/{id}/preferences [get]
func (h *Handler) getPreferences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getPreferences").WithField("user_id", id)

	pref, err := h.userService.GetPreferences(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get preferences from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "preferences not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToPreferencesResponse(pref))
}

// @Summary Update user alert preferences
// @Description Update notification channel preferences for a user.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param preferences body UpdatePreferencesRequest true "Preferences update request"
// @Success 200 {object} PreferencesResponse
// @Failure 400 {object} map[string]string "Invalid user ID or request body"
// @Failure 404 {object} map[string]string "Preferences not found"
// @Router /users/{id}/preferences [put]
func (h *Handler) updatePreferences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updatePreferences").WithField("user_id", id)

	var input UpdatePreferencesRequest
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

	pref := DTOToPreferenceModel(id, input)
	if err := h.userService.UpdatePreferences(c.Request.Context(), pref); err != nil {
		log.WithError(err).Warn("Failed to update preferences in service")
		c.JSON(http.StatusNotFound, gin.H{"error": "preferences not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToPreferencesResponse(pref))
}

// @Summary Report a new incident
// @Description Report a safety incident. The incident awaits admin approval before alerts go out.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body ReportIncidentRequest true "Incident report request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

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
	if err := h.incidentService.ReportIncident(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Get a paginated list of all incidents, including unapproved. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Approve an incident
// @Description Approve a reported incident and enqueue the alert fan-out to subscribers. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Incident ID"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/approve [post]
func (h *Handler) approveIncident(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "approveIncident").WithField("id", id)

	if err := h.incidentService.ApproveIncident(c.Request.Context(), id); err != nil {
		log.WithError(err).Warn("Failed to approve incident in service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Reject an incident
// @Description Reject a reported incident and remove it. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Incident ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [delete]
func (h *Handler) rejectIncident(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "rejectIncident").WithField("id", id)

	if err := h.incidentService.RejectIncident(c.Request.Context(), id); err != nil {
		log.WithError(err).Warn("Failed to reject incident in service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get approved incidents
// @Description Get all approved incidents (public risk feed).
// @Tags Incidents
// @Accept json
// @Produce json
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /risks [get]
func (h *Handler) listRisks(c *gin.Context) {
	log := h.logger.WithField("method", "listRisks")

	incidents, err := h.incidentService.ListRisks(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list risks from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get moderation statistics
// @Description Get counts of pending and approved incidents and total users. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		PendingIncidents:  stats.PendingIncidents,
		ApprovedIncidents: stats.ApprovedIncidents,
		TotalUsers:        stats.TotalUsers,
	})
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
