package dto

import "github.com/shopspring/decimal"

type DetalleIngresoRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	UnidadID      string          `json:"unidad_id"      validate:"required,uuid"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
}

type CrearIngresoRequest struct {
	SucursalID      string                  `json:"sucursal_id"      validate:"required,uuid"`
	ProveedorID     string                  `json:"proveedor_id"     validate:"required,uuid"`
	NumeroDocumento string                  `json:"numero_documento" validate:"required"`
	Observaciones   *string                 `json:"observaciones"`
	Detalles        []DetalleIngresoRequest `json:"detalles" validate:"required,min=1,dive"`
}

type DetalleIngresoResponse struct {
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto,omitempty"`
	UnidadID      string          `json:"unidad_id"`
	Unidad        string          `json:"unidad,omitempty"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type IngresoResponse struct {
	ID              string                   `json:"id"`
	SucursalID      string                   `json:"sucursal_id"`
	ProveedorID     string                   `json:"proveedor_id"`
	Proveedor       string                   `json:"proveedor,omitempty"`
	NumeroDocumento string                   `json:"numero_documento"`
	Estado          string                   `json:"estado"`
	Total           decimal.Decimal          `json:"total"`
	Observaciones   *string                  `json:"observaciones,omitempty"`
	Detalles        []DetalleIngresoResponse `json:"detalles"`
	ProcesadoAt     *string                  `json:"procesado_at,omitempty"`
	CreatedAt       string                   `json:"created_at"`
}

type IngresoFilter struct {
	SucursalID string `form:"sucursal_id"`
	Estado     string `form:"estado"` // pendiente | procesado | anulado | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type IngresoListResponse struct {
	Data  []IngresoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
