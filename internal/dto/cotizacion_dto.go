package dto

import "github.com/shopspring/decimal"

type DetalleCotizacionRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	UnidadID       string          `json:"unidad_id"       validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"   validate:"min=0,max=100"`
}

type CrearCotizacionRequest struct {
	SucursalID    string                     `json:"sucursal_id" validate:"required,uuid"`
	ClienteID     string                     `json:"cliente_id"  validate:"required,uuid"`
	Descuento     decimal.Decimal            `json:"descuento"   validate:"min=0"`
	VigenciaDias  int                        `json:"vigencia_dias" validate:"omitempty,min=1,max=90"`
	Observaciones *string                    `json:"observaciones"`
	Detalles      []DetalleCotizacionRequest `json:"detalles" validate:"required,min=1,dive"`
}

// ConvertirCotizacionRequest carries the payments for the invoice that the
// quotation materializes into.
type ConvertirCotizacionRequest struct {
	Impuesto decimal.Decimal      `json:"impuesto" validate:"min=0"`
	Pagos    []PagoFacturaRequest `json:"pagos"    validate:"omitempty,dive"`
}

type DetalleCotizacionResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	UnidadID       string          `json:"unidad_id"`
	Unidad         string          `json:"unidad,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CotizacionResponse struct {
	ID            string                      `json:"id"`
	Numero        string                      `json:"numero"`
	SucursalID    string                      `json:"sucursal_id"`
	ClienteID     string                      `json:"cliente_id"`
	Cliente       string                      `json:"cliente,omitempty"`
	Subtotal      decimal.Decimal             `json:"subtotal"`
	Descuento     decimal.Decimal             `json:"descuento"`
	Total         decimal.Decimal             `json:"total"`
	VigenciaDias  int                         `json:"vigencia_dias"`
	Estado        string                      `json:"estado"`
	Vigente       bool                        `json:"vigente"`
	FacturaID     *string                     `json:"factura_id,omitempty"`
	Observaciones *string                     `json:"observaciones,omitempty"`
	Detalles      []DetalleCotizacionResponse `json:"detalles"`
	CreatedAt     string                      `json:"created_at"`
}

type CotizacionFilter struct {
	SucursalID string `form:"sucursal_id"`
	Estado     string `form:"estado"` // activa | vencida | facturada | anulada | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CotizacionListResponse struct {
	Data  []CotizacionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
