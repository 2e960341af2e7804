package dto

// InventarioFilter is bound from the query string of
// GET /v1/inventario/sucursal/:sucursal_id.
type InventarioFilter struct {
	CategoriaID string `form:"categoria_id"`
	Buscar      string `form:"buscar"`
	StockBajo   bool   `form:"stock_bajo"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type InventarioResponse struct {
	ID              string `json:"id"`
	SucursalID      string `json:"sucursal_id"`
	ProductoID      string `json:"producto_id"`
	Producto        string `json:"producto,omitempty"`
	Marca           string `json:"marca,omitempty"`
	UnidadID        string `json:"unidad_id"`
	Unidad          string `json:"unidad,omitempty"`
	StockActual     int    `json:"stock_actual"`
	StockReservado  int    `json:"stock_reservado"`
	StockDisponible int    `json:"stock_disponible"`
	StockMinimo     int    `json:"stock_minimo"`
	StockBajo       bool   `json:"stock_bajo"`
}

type InventarioListResponse struct {
	Data  []InventarioResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// AjustarStockRequest is the administrative stock override. It bypasses sale
// and receipt semantics; the motivo is mandatory for the audit trail.
type AjustarStockRequest struct {
	NuevoStock int    `json:"nuevo_stock" validate:"min=0"`
	Motivo     string `json:"motivo"      validate:"required"`
}

type AlertaStockResponse struct {
	SucursalID      string `json:"sucursal_id"`
	Sucursal        string `json:"sucursal,omitempty"`
	ProductoID      string `json:"producto_id"`
	Producto        string `json:"producto"`
	Unidad          string `json:"unidad"`
	StockActual     int    `json:"stock_actual"`
	StockMinimo     int    `json:"stock_minimo"`
}

type MovimientoResponse struct {
	ID            string  `json:"id"`
	InventarioID  string  `json:"inventario_id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo,omitempty"`
	ReferenciaID  *string `json:"referencia_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
