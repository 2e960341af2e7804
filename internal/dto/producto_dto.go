package dto

import "github.com/shopspring/decimal"

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	Marca       string `form:"marca"`
	CategoriaID string `form:"categoria_id"`
	Activo      string `form:"activo"` // "false" | "all" | default activos
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type DetallePinturaRequest struct {
	Color         string           `json:"color"        validate:"required"`
	CodigoColor   *string          `json:"codigo_color"`
	TipoPintura   string           `json:"tipo_pintura" validate:"required,oneof=latex esmalte barniz anticorrosiva"`
	Acabado       *string          `json:"acabado"      validate:"omitempty,oneof=mate satinado brillante"`
	Base          *string          `json:"base"`
	RendimientoM2 *decimal.Decimal `json:"rendimiento_m2" validate:"omitempty,gt=0"`
}

type DetalleAccesorioRequest struct {
	Material    *string `json:"material"`
	Dimensiones *string `json:"dimensiones"`
	Uso         *string `json:"uso"`
}

type CrearProductoRequest struct {
	CategoriaID  string          `json:"categoria_id" validate:"required,uuid"`
	Nombre       string          `json:"nombre"       validate:"required"`
	Marca        string          `json:"marca"        validate:"required"`
	Descripcion  *string         `json:"descripcion"`
	PrecioBase   decimal.Decimal `json:"precio_base"   validate:"min=0"`
	DescuentoPct decimal.Decimal `json:"descuento_pct" validate:"min=0,max=100"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
	// At most one of the two details may be present; which one is valid is
	// decided by the category (paints vs. accessories).
	DetallePintura   *DetallePinturaRequest   `json:"detalle_pintura"`
	DetalleAccesorio *DetalleAccesorioRequest `json:"detalle_accesorio"`
}

type ActualizarProductoRequest struct {
	Nombre       string           `json:"nombre"`
	Marca        string           `json:"marca"`
	Descripcion  *string          `json:"descripcion"`
	PrecioBase   *decimal.Decimal `json:"precio_base"   validate:"omitempty,min=0"`
	DescuentoPct *decimal.Decimal `json:"descuento_pct" validate:"omitempty,min=0,max=100"`
	StockMinimo  *int             `json:"stock_minimo"  validate:"omitempty,min=0"`
}

type CrearVariacionRequest struct {
	UnidadID    string          `json:"unidad_id"    validate:"required,uuid"`
	Codigo      string          `json:"codigo"       validate:"required"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
}

type VariacionResponse struct {
	ID          string          `json:"id"`
	UnidadID    string          `json:"unidad_id"`
	Unidad      string          `json:"unidad,omitempty"`
	Codigo      string          `json:"codigo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Activo      bool            `json:"activo"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	CategoriaID  string          `json:"categoria_id"`
	Categoria    string          `json:"categoria,omitempty"`
	Nombre       string          `json:"nombre"`
	Marca        string          `json:"marca"`
	Descripcion  *string         `json:"descripcion,omitempty"`
	PrecioBase   decimal.Decimal `json:"precio_base"`
	DescuentoPct decimal.Decimal `json:"descuento_pct"`
	StockMinimo  int             `json:"stock_minimo"`
	TipoDetalle  string          `json:"tipo_detalle"`
	DetallePintura   *DetallePinturaRequest   `json:"detalle_pintura,omitempty"`
	DetalleAccesorio *DetalleAccesorioRequest `json:"detalle_accesorio,omitempty"`
	Variaciones  []VariacionResponse          `json:"variaciones,omitempty"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPrecioResponse is the cached price/availability lookup payload.
type ConsultaPrecioResponse struct {
	Producto        string          `json:"producto"`
	Marca           string          `json:"marca"`
	Unidad          string          `json:"unidad"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockDisponible int             `json:"stock_disponible"`
}
