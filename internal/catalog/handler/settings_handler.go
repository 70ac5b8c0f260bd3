package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nosvasedis/ilios/internal/catalog/repository"
	"github.com/nosvasedis/ilios/internal/catalog/service"
)

// SettingsHandler exposes the global rates row.
type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get returns the current rates.
// GET /api/v1/catalog/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "settings not initialized")
			return
		}
		InternalError(c, "failed to load settings: "+err.Error())
		return
	}
	Success(c, settings)
}

// Update saves new rates and reprices the registry. The sweep result
// rides along so the caller can surface skipped products.
// PUT /api/v1/catalog/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var input service.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	settings, sweep, err := h.svc.Update(c.Request.Context(), &input)
	if err != nil {
		InternalError(c, "failed to save settings: "+err.Error())
		return
	}
	Success(c, gin.H{"settings": settings, "sweep": sweep})
}
