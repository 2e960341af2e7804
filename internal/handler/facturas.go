package handler

import (
	"net/http"

	"paintpos/internal/apierror"
	"paintpos/internal/dto"
	"paintpos/internal/middleware"
	"paintpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacturasHandler struct {
	facturas service.FacturaService
}

func NewFacturasHandler(facturas service.FacturaService) *FacturasHandler {
	return &FacturasHandler{facturas: facturas}
}

// Crear godoc
// @Summary      Emitir factura
// @Description  Emite una factura con número correlativo de la serie activa de la sucursal, descuenta stock y encola la generación del PDF
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearFacturaRequest  true  "Datos de la factura"
// @Success      201  {object}  dto.FacturaResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      422  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.facturas.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar facturas
// @Description  Lista facturas del día por defecto, con filtros de sucursal, fecha y estado
// @Tags         facturas
// @Produce      json
// @Param        sucursal_id  query  string  false  "ID de la sucursal"
// @Param        fecha        query  string  false  "Fecha YYYY-MM-DD (vacío = hoy)"
// @Param        estado       query  string  false  "activa | anulada | all"
// @Success      200  {object}  dto.FacturaListResponse
// @Failure      400  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.facturas.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar facturas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.facturas.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular factura
// @Description  Anula la factura restituyendo el stock de cada línea. El número correlativo no se reutiliza
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.AnularFacturaRequest  true  "Motivo de anulación"
// @Success      200  {object}  dto.FacturaResponse
// @Failure      400  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /facturas/{id}/anular [post]
func (h *FacturasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.facturas.Anular(c.Request.Context(), id, usuarioID, req.Motivo)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) AgregarPago(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.PagoFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.facturas.AgregarPago(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
