package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nosvasedis/ilios/internal/catalog/service"
)

// PricingHandler exposes the read-only pricing tools.
type PricingHandler struct {
	svc *service.PricingService
}

func NewPricingHandler(svc *service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// Resolve matches a scanned or typed code against the registry.
// GET /api/v1/catalog/pricing/resolve?code=RN100XH
func (h *PricingHandler) Resolve(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "code is required")
		return
	}
	m, err := h.svc.Resolve(c.Request.Context(), code)
	if err != nil {
		InternalError(c, "failed to resolve code: "+err.Error())
		return
	}
	Success(c, m)
}

// Analyze decodes a full code into master, suffix and description.
// GET /api/v1/catalog/pricing/analyze?code=RN100XH&gender=women
func (h *PricingHandler) Analyze(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "code is required")
		return
	}
	a, err := h.svc.Analyze(c.Request.Context(), code, c.Query("gender"))
	if err != nil {
		InternalError(c, "failed to analyze code: "+err.Error())
		return
	}
	Success(c, a)
}

// EstimateVariant prices an arbitrary suffix of a product.
// GET /api/v1/catalog/pricing/estimate/:sku?suffix=XH
func (h *PricingHandler) EstimateVariant(c *gin.Context) {
	res, err := h.svc.EstimateVariant(c.Request.Context(), c.Param("sku"), c.Query("suffix"))
	if err != nil {
		InternalError(c, "failed to estimate variant: "+err.Error())
		return
	}
	Success(c, res)
}

// AnalyzeSupplier runs price forensics on a supplier quote.
// POST /api/v1/catalog/pricing/supplier/:sku
func (h *PricingHandler) AnalyzeSupplier(c *gin.Context) {
	var input service.SupplierQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.svc.AnalyzeSupplier(c.Request.Context(), c.Param("sku"), &input)
	if err != nil {
		InternalError(c, "supplier analysis failed: "+err.Error())
		return
	}
	Success(c, a)
}

// Reprice suggests a retail price from cost and margin.
// GET /api/v1/catalog/pricing/reprice/:sku?margin=0.65
func (h *PricingHandler) Reprice(c *gin.Context) {
	var margin *float64
	if q := c.Query("margin"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v < 0 || v >= 1 {
			BadRequest(c, "margin must be a fraction in [0, 1)")
			return
		}
		margin = &v
	}
	res, err := h.svc.Reprice(c.Request.Context(), c.Param("sku"), margin)
	if err != nil {
		InternalError(c, "repricing failed: "+err.Error())
		return
	}
	Success(c, res)
}

// PriceListHandler streams the xlsx price list.
type PriceListHandler struct {
	svc *service.PriceListService
}

func NewPriceListHandler(svc *service.PriceListService) *PriceListHandler {
	return &PriceListHandler{svc: svc}
}

// Export renders and streams the workbook.
// GET /api/v1/catalog/pricelist/export?margin=0.65
func (h *PriceListHandler) Export(c *gin.Context) {
	var margin *float64
	if q := c.Query("margin"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v < 0 || v >= 1 {
			BadRequest(c, "margin must be a fraction in [0, 1)")
			return
		}
		margin = &v
	}

	buf, err := h.svc.Export(c.Request.Context(), margin)
	if err != nil {
		InternalError(c, "price list export failed: "+err.Error())
		return
	}

	filename := fmt.Sprintf("pricelist_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
