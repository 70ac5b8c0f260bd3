package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nosvasedis/ilios/internal/catalog/costing"
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/repository"
	"github.com/nosvasedis/ilios/internal/catalog/service"
)

// ProductHandler exposes the product registry.
type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List returns the full registry, components included.
// GET /api/v1/catalog/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to list products: "+err.Error())
		return
	}
	Success(c, gin.H{"items": products})
}

// Get returns one product with its recipe and variants.
// GET /api/v1/catalog/products/:sku
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "product not found")
			return
		}
		InternalError(c, "failed to load product: "+err.Error())
		return
	}
	Success(c, p)
}

// Create registers a new product.
// POST /api/v1/catalog/products
func (h *ProductHandler) Create(c *gin.Context) {
	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		InternalError(c, "failed to create product: "+err.Error())
		return
	}
	Created(c, p)
}

// Update patches a product; cost-relevant edits reconcile its variants.
// PUT /api/v1/catalog/products/:sku
func (h *ProductHandler) Update(c *gin.Context) {
	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("sku"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "product not found")
			return
		}
		InternalError(c, "failed to update product: "+err.Error())
		return
	}
	Success(c, p)
}

// Delete soft-deletes a product.
// DELETE /api/v1/catalog/products/:sku
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("sku")); err != nil {
		InternalError(c, "failed to delete product: "+err.Error())
		return
	}
	Success(c, gin.H{"deleted": true})
}

// SaveRecipe replaces the product's bill of materials.
// PUT /api/v1/catalog/products/:sku/recipe
func (h *ProductHandler) SaveRecipe(c *gin.Context) {
	var input struct {
		Items []service.RecipeItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.svc.SaveRecipe(c.Request.Context(), c.Param("sku"), input.Items)
	if err != nil {
		var cyc *costing.CyclicRecipeError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "product not found")
		case errors.As(err, &cyc):
			Conflict(c, "recipe rejected: "+err.Error())
		case errors.Is(err, entity.ErrRecipeItemShape), errors.Is(err, entity.ErrRecipeItemQuantity):
			BadRequest(c, "invalid recipe: "+err.Error())
		default:
			InternalError(c, "failed to save recipe: "+err.Error())
		}
		return
	}
	Success(c, p)
}

// Cost resolves the master cost breakdown.
// GET /api/v1/catalog/products/:sku/cost
func (h *ProductHandler) Cost(c *gin.Context) {
	res, err := h.svc.Cost(c.Request.Context(), c.Param("sku"))
	if err != nil {
		InternalError(c, "failed to compute cost: "+err.Error())
		return
	}
	Success(c, res)
}

// AddVariant registers a variant and estimates its active price.
// POST /api/v1/catalog/products/:sku/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	var input service.VariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	v, err := h.svc.AddVariant(c.Request.Context(), c.Param("sku"), &input)
	if err != nil {
		InternalError(c, "failed to create variant: "+err.Error())
		return
	}
	Created(c, v)
}

// RemoveVariant deletes a variant row.
// DELETE /api/v1/catalog/variants/:id
func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	if err := h.svc.RemoveVariant(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "failed to delete variant: "+err.Error())
		return
	}
	Success(c, gin.H{"deleted": true})
}

// Reconcile recomputes one product's variant prices.
// POST /api/v1/catalog/products/:sku/reconcile
func (h *ProductHandler) Reconcile(c *gin.Context) {
	updated, err := h.svc.Reconcile(c.Request.Context(), c.Param("sku"))
	if err != nil {
		InternalError(c, "reconciliation failed: "+err.Error())
		return
	}
	Success(c, gin.H{"updated": updated})
}

// RecomputeAll sweeps the whole registry.
// POST /api/v1/catalog/products/recompute
func (h *ProductHandler) RecomputeAll(c *gin.Context) {
	res, err := h.svc.RecomputeAll(c.Request.Context())
	if err != nil {
		InternalError(c, "recompute sweep failed: "+err.Error())
		return
	}
	Success(c, res)
}
