package handler

import (
	"net/http"

	"foodtruck_backend/internal/trucks/service"
	"foodtruck_backend/internal/trucks/transport"
	"foodtruck_backend/platform/httpkit"
	"foodtruck_backend/platform/logger"
	"foodtruck_backend/platform/metrics"
	"foodtruck_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
	log *logger.Logger
}

func New(svc *service.Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/name/:name", h.SearchByName)
	rg.GET("/address/:address", h.SearchByAddress)
	rg.POST("/nearest", h.FindNearest)
}

func (h *Handler) SearchByName(c *gin.Context) {
	var query transport.NameSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	results, err := h.svc.SearchByName(httpkit.PathParam(c, "name"), query.Status)
	if httpkit.HandleError(c, h.log, err) {
		return
	}

	h.respond(c, "name", results)
}

func (h *Handler) SearchByAddress(c *gin.Context) {
	results, err := h.svc.SearchByAddress(httpkit.PathParam(c, "address"))
	if httpkit.HandleError(c, h.log, err) {
		return
	}

	h.respond(c, "address", results)
}

func (h *Handler) FindNearest(c *gin.Context) {
	var req transport.NearestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	results, err := h.svc.FindNearest(*req.Latitude, *req.Longitude, req.IncludeAll())
	if httpkit.HandleError(c, h.log, err) {
		return
	}

	h.respond(c, "nearest", results)
}

func (h *Handler) respond(c *gin.Context, operation string, results []service.Result) {
	metrics.SearchResults.WithLabelValues(operation).Observe(float64(len(results)))
	httpkit.OK(c, transport.ToTruckResponses(results))
}
