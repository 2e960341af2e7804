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

type IngresosHandler struct {
	ingresos service.IngresoService
}

func NewIngresosHandler(ingresos service.IngresoService) *IngresosHandler {
	return &IngresosHandler{ingresos: ingresos}
}

// Crear godoc
// @Summary      Registrar ingreso de mercadería
// @Description  Crea un ingreso de proveedor en estado pendiente; el stock se afecta al procesarlo
// @Tags         ingresos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearIngresoRequest  true  "Datos del ingreso"
// @Success      201  {object}  dto.IngresoResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      422  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /ingresos [post]
func (h *IngresosHandler) Crear(c *gin.Context) {
	var req dto.CrearIngresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.ingresos.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *IngresosHandler) Listar(c *gin.Context) {
	var filter dto.IngresoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.ingresos.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ingresos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngresosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.ingresos.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Procesar godoc
// @Summary      Procesar ingreso
// @Description  Aplica las cantidades del ingreso al inventario de la sucursal en una sola transacción
// @Tags         ingresos
// @Produce      json
// @Param        id  path  string  true  "ID del ingreso"
// @Success      200  {object}  dto.IngresoResponse
// @Failure      400  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /ingresos/{id}/procesar [post]
func (h *IngresosHandler) Procesar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.ingresos.Procesar(c.Request.Context(), id, usuarioID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngresosHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.ingresos.Anular(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
