package handler

import (
	"net/http"

	"paintpos/internal/apierror"
	"paintpos/internal/dto"
	"paintpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct {
	reportes service.ReporteService
}

func NewReportesHandler(reportes service.ReporteService) *ReportesHandler {
	return &ReportesHandler{reportes: reportes}
}

// Ventas godoc
// @Summary      Reporte de ventas
// @Description  Resumen de ventas del rango (hoy por defecto) con desglose por método de pago
// @Tags         reportes
// @Produce      json
// @Param        sucursal_id   query  string  false  "ID de la sucursal (vacío = todas)"
// @Param        fecha_inicio  query  string  false  "YYYY-MM-DD"
// @Param        fecha_fin     query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.ReporteVentasResponse
// @Failure      400  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /reportes/ventas [get]
func (h *ReportesHandler) Ventas(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.reportes.Ventas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) TopProductos(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.reportes.TopProductos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Valorizacion values the branch inventory at current base prices.
func (h *ReportesHandler) Valorizacion(c *gin.Context) {
	resp, err := h.reportes.Valorizacion(c.Request.Context(), c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
