package handler

import (
	"net/http"
	"strconv"

	"paintpos/internal/apierror"
	"paintpos/internal/dto"
	"paintpos/internal/middleware"
	"paintpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct {
	inventario service.InventarioService
}

func NewInventarioHandler(inventario service.InventarioService) *InventarioHandler {
	return &InventarioHandler{inventario: inventario}
}

// ListarPorSucursal godoc
// @Summary      Inventario de una sucursal
// @Description  Lista las existencias de la sucursal con stock disponible y filtros opcionales
// @Tags         inventario
// @Produce      json
// @Param        sucursalId    path   string  true   "ID de la sucursal"
// @Param        categoria_id  query  string  false  "Filtrar por categoría"
// @Param        buscar        query  string  false  "Buscar por nombre o código"
// @Param        stock_bajo    query  bool    false  "Solo items bajo el mínimo"
// @Success      200  {object}  dto.InventarioListResponse
// @Failure      400  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /sucursales/{sucursalId}/inventario [get]
func (h *InventarioHandler) ListarPorSucursal(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Param("sucursalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sucursal inválido"))
		return
	}
	var filter dto.InventarioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.inventario.ListarPorSucursal(c.Request.Context(), sucursalID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar inventario"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Fija el stock físico de un producto en la sucursal y registra el movimiento de ajuste
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Param        sucursalId  path  string                   true  "ID de la sucursal"
// @Param        productoId  path  string                   true  "ID del producto"
// @Param        unidadId    path  string                   true  "ID de la unidad"
// @Param        body        body  dto.AjustarStockRequest  true  "Nuevo stock y motivo"
// @Success      200  {object}  dto.InventarioResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      422  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /sucursales/{sucursalId}/inventario/{productoId}/{unidadId}/ajuste [put]
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Param("sucursalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sucursal inválido"))
		return
	}
	productoID, err := uuid.Parse(c.Param("productoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de producto inválido"))
		return
	}
	unidadID, err := uuid.Parse(c.Param("unidadId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de unidad inválido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.inventario.AjustarStock(c.Request.Context(), usuarioID, sucursalID, productoID, unidadID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas lists items at or below their minimum. Without ?sucursal_id it
// covers every branch.
func (h *InventarioHandler) Alertas(c *gin.Context) {
	var sucursalID *uuid.UUID
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ID de sucursal inválido"))
			return
		}
		sucursalID = &id
	}
	resp, err := h.inventario.ObtenerAlertas(c.Request.Context(), sucursalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Movimientos(c *gin.Context) {
	inventarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.inventario.ListarMovimientos(c.Request.Context(), inventarioID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
