package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nosvasedis/ilios/internal/catalog/service"
)

// Handlers is the catalog handler collection.
type Handlers struct {
	Product   *ProductHandler
	Material  *MaterialHandler
	Settings  *SettingsHandler
	Pricing   *PricingHandler
	PriceList *PriceListHandler
	SSE       *SSEHandler
}

// NewHandlers wires handlers onto the service collection.
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Product:   NewProductHandler(svc.Product),
		Material:  NewMaterialHandler(svc.Material),
		Settings:  NewSettingsHandler(svc.Settings),
		Pricing:   NewPricingHandler(svc.Pricing),
		PriceList: NewPriceListHandler(svc.PriceList),
		SSE:       NewSSEHandler(),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope; the HTTP status is the leading three
// digits of the business code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
