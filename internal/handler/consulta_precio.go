package handler

import (
	"net/http"

	"paintpos/internal/apierror"
	"paintpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConsultaPrecioHandler struct {
	productos service.ProductoService
}

func NewConsultaPrecioHandler(productos service.ProductoService) *ConsultaPrecioHandler {
	return &ConsultaPrecioHandler{productos: productos}
}

// Consultar godoc
// @Summary      Consulta de precio por código
// @Description  Resuelve precio vigente y stock disponible de una variación por su código de barras, con caché de cinco minutos
// @Tags         precios
// @Produce      json
// @Param        codigo       path   string  true  "Código de barras de la variación"
// @Param        sucursal_id  query  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.ConsultaPrecioResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      404  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /precios/{codigo} [get]
func (h *ConsultaPrecioHandler) Consultar(c *gin.Context) {
	codigo := c.Param("codigo")
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sucursal_id inválido"))
		return
	}
	resp, err := h.productos.ConsultaPrecio(c.Request.Context(), codigo, sucursalID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
