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

type CotizacionesHandler struct {
	cotizaciones service.CotizacionService
}

func NewCotizacionesHandler(cotizaciones service.CotizacionService) *CotizacionesHandler {
	return &CotizacionesHandler{cotizaciones: cotizaciones}
}

// Crear godoc
// @Summary      Crear cotización
// @Description  Crea una cotización con precios congelados y reserva el stock de cada línea durante su vigencia
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearCotizacionRequest  true  "Datos de la cotización"
// @Success      201  {object}  dto.CotizacionResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      422  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /cotizaciones [post]
func (h *CotizacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.cotizaciones.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CotizacionesHandler) Listar(c *gin.Context) {
	var filter dto.CotizacionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.cotizaciones.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cotizaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CotizacionesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.cotizaciones.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CotizacionesHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.cotizaciones.Anular(c.Request.Context(), id, usuarioID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Convertir godoc
// @Summary      Convertir cotización en factura
// @Description  Emite una factura a partir de una cotización vigente, a los precios congelados, consumiendo el stock reservado
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la cotización"
// @Param        body  body  dto.ConvertirCotizacionRequest  true  "Impuesto y pagos"
// @Success      201  {object}  dto.FacturaResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      422  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /cotizaciones/{id}/convertir [post]
func (h *CotizacionesHandler) Convertir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ConvertirCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.cotizaciones.Convertir(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
