package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Aggregation rows scanned straight out of raw SQL. Reports never mutate, so
// this repository is read-only by construction.

type VentasResumenRow struct {
	CantidadFacturas int64
	CantidadAnuladas int64
	TotalVendido     decimal.Decimal
}

type VentasPorMetodoRow struct {
	MetodoPago string
	Monto      decimal.Decimal
}

type TopProductoRow struct {
	ProductoID      string
	Producto        string
	Unidad          string
	CantidadVendida int64
	TotalVendido    decimal.Decimal
}

type ValorizacionRow struct {
	ProductoID  string
	Producto    string
	Unidad      string
	StockActual int
	PrecioBase  decimal.Decimal
}

type ReporteRepository interface {
	ResumenVentas(ctx context.Context, sucursalID, desde, hasta string) (*VentasResumenRow, error)
	VentasPorMetodo(ctx context.Context, sucursalID, desde, hasta string) ([]VentasPorMetodoRow, error)
	TopProductos(ctx context.Context, sucursalID, desde, hasta string, limit int) ([]TopProductoRow, error)
	Valorizacion(ctx context.Context, sucursalID string) ([]ValorizacionRow, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

// ventasWhere builds the shared filter fragment. Voided invoices count in
// cantidad_anuladas but contribute nothing to totals; their total is zero.
func ventasArgs(sucursalID, desde, hasta string) (string, []interface{}) {
	where := "DATE(f.created_at) BETWEEN ? AND ?"
	args := []interface{}{desde, hasta}
	if sucursalID != "" {
		where += " AND f.sucursal_id = ?"
		args = append(args, sucursalID)
	}
	return where, args
}

func (r *reporteRepo) ResumenVentas(ctx context.Context, sucursalID, desde, hasta string) (*VentasResumenRow, error) {
	where, args := ventasArgs(sucursalID, desde, hasta)
	var row VentasResumenRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE f.estado = 'activa')  AS cantidad_facturas,
			COUNT(*) FILTER (WHERE f.estado = 'anulada') AS cantidad_anuladas,
			COALESCE(SUM(f.total) FILTER (WHERE f.estado = 'activa'), 0) AS total_vendido
		FROM facturas f
		WHERE `+where, args...).Scan(&row).Error
	return &row, err
}

func (r *reporteRepo) VentasPorMetodo(ctx context.Context, sucursalID, desde, hasta string) ([]VentasPorMetodoRow, error) {
	where, args := ventasArgs(sucursalID, desde, hasta)
	var rows []VentasPorMetodoRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT mp.nombre AS metodo_pago, COALESCE(SUM(p.monto), 0) AS monto
		FROM pagos_factura p
		JOIN facturas f ON f.id = p.factura_id
		JOIN metodos_pago mp ON mp.id = p.metodo_pago_id
		WHERE f.estado = 'activa' AND `+where+`
		GROUP BY mp.nombre
		ORDER BY monto DESC`, args...).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) TopProductos(ctx context.Context, sucursalID, desde, hasta string, limit int) ([]TopProductoRow, error) {
	where, args := ventasArgs(sucursalID, desde, hasta)
	args = append(args, limit)
	var rows []TopProductoRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT d.producto_id, p.nombre AS producto, u.nombre AS unidad,
			SUM(d.cantidad) AS cantidad_vendida,
			COALESCE(SUM(d.subtotal), 0) AS total_vendido
		FROM detalles_factura d
		JOIN facturas f ON f.id = d.factura_id
		JOIN productos p ON p.id = d.producto_id
		JOIN unidades_medida u ON u.id = d.unidad_id
		WHERE f.estado = 'activa' AND `+where+`
		GROUP BY d.producto_id, p.nombre, u.nombre
		ORDER BY cantidad_vendida DESC
		LIMIT ?`, args...).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) Valorizacion(ctx context.Context, sucursalID string) ([]ValorizacionRow, error) {
	var rows []ValorizacionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.producto_id, p.nombre AS producto, u.nombre AS unidad,
			i.stock_actual, p.precio_base
		FROM inventario_sucursal i
		JOIN productos p ON p.id = i.producto_id
		JOIN unidades_medida u ON u.id = i.unidad_id
		WHERE i.sucursal_id = ? AND i.stock_actual > 0
		ORDER BY p.nombre ASC`, sucursalID).Scan(&rows).Error
	return rows, err
}
