package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nosvasedis/ilios/internal/catalog/repository"
	"github.com/nosvasedis/ilios/internal/catalog/service"
)

// MaterialHandler exposes the raw-material registry.
type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// List returns all materials.
// GET /api/v1/catalog/materials
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to list materials: "+err.Error())
		return
	}
	Success(c, gin.H{"items": materials})
}

// Get returns one material.
// GET /api/v1/catalog/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "material not found")
			return
		}
		InternalError(c, "failed to load material: "+err.Error())
		return
	}
	Success(c, m)
}

// Create registers a material.
// POST /api/v1/catalog/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var input service.MaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		InternalError(c, "failed to create material: "+err.Error())
		return
	}
	Created(c, m)
}

// Update edits a material; a price change reprices the registry.
// PUT /api/v1/catalog/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	var input service.MaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "material not found")
			return
		}
		InternalError(c, "failed to update material: "+err.Error())
		return
	}
	Success(c, m)
}

// Delete soft-deletes a material.
// DELETE /api/v1/catalog/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "failed to delete material: "+err.Error())
		return
	}
	Success(c, gin.H{"deleted": true})
}
