package dto

import "github.com/shopspring/decimal"

// ReporteFilter bounds every report to a branch and/or date range.
type ReporteFilter struct {
	SucursalID  string `form:"sucursal_id"`
	FechaInicio string `form:"fecha_inicio"` // YYYY-MM-DD
	FechaFin    string `form:"fecha_fin"`    // YYYY-MM-DD
	Limit       int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type VentasPorMetodoItem struct {
	MetodoPago string          `json:"metodo_pago"`
	Monto      decimal.Decimal `json:"monto"`
}

type ReporteVentasResponse struct {
	SucursalID      string                `json:"sucursal_id,omitempty"`
	FechaInicio     string                `json:"fecha_inicio"`
	FechaFin        string                `json:"fecha_fin"`
	CantidadFacturas int64                `json:"cantidad_facturas"`
	CantidadAnuladas int64                `json:"cantidad_anuladas"`
	TotalVendido    decimal.Decimal       `json:"total_vendido"`
	PorMetodoPago   []VentasPorMetodoItem `json:"por_metodo_pago"`
}

type ProductoVendidoItem struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Unidad         string          `json:"unidad"`
	CantidadVendida int64          `json:"cantidad_vendida"`
	TotalVendido   decimal.Decimal `json:"total_vendido"`
}

type ReporteTopProductosResponse struct {
	Data []ProductoVendidoItem `json:"data"`
}

type ValorizacionItem struct {
	ProductoID  string          `json:"producto_id"`
	Producto    string          `json:"producto"`
	Unidad      string          `json:"unidad"`
	StockActual int             `json:"stock_actual"`
	PrecioBase  decimal.Decimal `json:"precio_base"`
	Valor       decimal.Decimal `json:"valor"`
}

type ReporteValorizacionResponse struct {
	SucursalID string             `json:"sucursal_id"`
	Total      decimal.Decimal    `json:"total"`
	Data       []ValorizacionItem `json:"data"`
}
