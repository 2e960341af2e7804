package dto

import "github.com/shopspring/decimal"

type DetalleFacturaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	UnidadID       string          `json:"unidad_id"       validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"   validate:"min=0,max=100"`
}

type PagoFacturaRequest struct {
	MetodoPagoID string          `json:"metodo_pago_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto"          validate:"required"`
	Referencia   *string         `json:"referencia"`
	Notas        *string         `json:"notas"`
}

type CrearFacturaRequest struct {
	SucursalID string                  `json:"sucursal_id" validate:"required,uuid"`
	ClienteID  string                  `json:"cliente_id"  validate:"required,uuid"`
	Descuento  decimal.Decimal         `json:"descuento"   validate:"min=0"`
	Impuesto   decimal.Decimal         `json:"impuesto"    validate:"min=0"`
	Detalles   []DetalleFacturaRequest `json:"detalles" validate:"required,min=1,dive"`
	Pagos      []PagoFacturaRequest    `json:"pagos"    validate:"omitempty,dive"`
	// ClienteEmail, when present, triggers the async PDF email job.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type AnularFacturaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

type DetalleFacturaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	UnidadID       string          `json:"unidad_id"`
	Unidad         string          `json:"unidad,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PagoFacturaResponse struct {
	MetodoPagoID string          `json:"metodo_pago_id"`
	MetodoPago   string          `json:"metodo_pago,omitempty"`
	Monto        decimal.Decimal `json:"monto"`
	Referencia   *string         `json:"referencia,omitempty"`
	Notas        *string         `json:"notas,omitempty"`
}

type FacturaResponse struct {
	ID           string                   `json:"id"`
	Numero       string                   `json:"numero"`
	SucursalID   string                   `json:"sucursal_id"`
	ClienteID    string                   `json:"cliente_id"`
	Cliente      string                   `json:"cliente,omitempty"`
	CotizacionID *string                  `json:"cotizacion_id,omitempty"`
	Subtotal     decimal.Decimal          `json:"subtotal"`
	Descuento    decimal.Decimal          `json:"descuento"`
	Impuesto     decimal.Decimal          `json:"impuesto"`
	Total        decimal.Decimal          `json:"total"`
	Estado       string                   `json:"estado"`
	Pagada       bool                     `json:"pagada"`
	Detalles     []DetalleFacturaResponse `json:"detalles"`
	Pagos        []PagoFacturaResponse    `json:"pagos"`
	MotivoAnulacion *string               `json:"motivo_anulacion,omitempty"`
	CreatedAt    string                   `json:"created_at"`
}

type FacturaFilter struct {
	SucursalID string `form:"sucursal_id"`
	Fecha      string `form:"fecha"`  // YYYY-MM-DD; empty = today
	Estado     string `form:"estado"` // activa | anulada | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
