package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1. Админские маршруты
// модерации дополнительно защищены API-ключом.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Регистрация и настройки оповещений
	users := api.Group("/users")
	{
		users.POST("", h.registerUser)
		users.GET("/:id/preferences", h.getPreferences)
		users.PUT("/:id/preferences", h.updatePreferences)
	}

	// Публичные маршруты инцидентов
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.reportIncident)
		incidents.GET("/:id", h.getIncident)
	}

	// Админские маршруты модерации
	admin := api.Group("/incidents", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		admin.GET("", h.listIncidents)
		admin.POST("/:id/approve", h.approveIncident)
		admin.DELETE("/:id", h.rejectIncident)
		admin.GET("/stats", h.getStats)
	}

	// Публичная лента подтвержденных рисков
	api.GET("/risks", h.listRisks)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
