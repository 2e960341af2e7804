package repository

import (
	"context"
	"errors"

	"paintpos/internal/dto"
	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors surfaced by the guarded ledger mutations. Services translate
// them into caller-visible domain conflicts.
var (
	ErrStockInsuficiente   = errors.New("stock disponible insuficiente")
	ErrReservaInsuficiente = errors.New("stock reservado insuficiente")
)

// InventarioRepository owns the branch stock ledger. All mutations are single
// guarded UPDATEs: the availability predicate and the arithmetic execute in one
// statement, so two concurrent sales can never both pass the check and oversell.
// Methods with the Tx suffix take the caller's transaction handle.
type InventarioRepository interface {
	ObtenerOCrearTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID) (*model.InventarioSucursal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventarioSucursal, error)
	Find(ctx context.Context, sucursalID, productoID, unidadID uuid.UUID) (*model.InventarioSucursal, error)
	List(ctx context.Context, sucursalID uuid.UUID, filter dto.InventarioFilter) ([]model.InventarioSucursal, int64, error)
	ListStockBajo(ctx context.Context, sucursalID *uuid.UUID) ([]model.InventarioSucursal, error)

	AumentarTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	DescontarTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	ReservarTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	LiberarReservaTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	ConsumirReservaTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	FijarStockTx(tx *gorm.DB, id uuid.UUID, nuevoStock int) error

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error
	ListMovimientos(ctx context.Context, inventarioID uuid.UUID, limit int) ([]model.MovimientoInventario, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) ObtenerOCrearTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID) (*model.InventarioSucursal, error) {
	inv := model.InventarioSucursal{
		SucursalID: sucursalID,
		ProductoID: productoID,
		UnidadID:   unidadID,
	}
	// FirstOrCreate races benignly under the composite unique index: the loser
	// of a concurrent create gets a duplicate-key error and the caller retries
	// the whole transaction (infrastructure failure semantics).
	err := tx.Where("sucursal_id = ? AND producto_id = ? AND unidad_id = ?",
		sucursalID, productoID, unidadID).
		FirstOrCreate(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventarioSucursal, error) {
	var inv model.InventarioSucursal
	err := r.db.WithContext(ctx).
		Preload("Producto").Preload("Unidad").Preload("Sucursal").
		First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *inventarioRepo) Find(ctx context.Context, sucursalID, productoID, unidadID uuid.UUID) (*model.InventarioSucursal, error) {
	var inv model.InventarioSucursal
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND producto_id = ? AND unidad_id = ?", sucursalID, productoID, unidadID).
		First(&inv).Error
	return &inv, err
}

func (r *inventarioRepo) List(ctx context.Context, sucursalID uuid.UUID, filter dto.InventarioFilter) ([]model.InventarioSucursal, int64, error) {
	var rows []model.InventarioSucursal
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventarioSucursal{}).
		Joins("JOIN productos ON productos.id = inventario_sucursal.producto_id").
		Where("inventario_sucursal.sucursal_id = ?", sucursalID)

	if filter.CategoriaID != "" {
		q = q.Where("productos.categoria_id = ?", filter.CategoriaID)
	}
	if filter.Buscar != "" {
		q = q.Where("productos.nombre ILIKE ? OR productos.marca ILIKE ?",
			"%"+filter.Buscar+"%", "%"+filter.Buscar+"%")
	}
	if filter.StockBajo {
		q = q.Where("inventario_sucursal.stock_actual <= productos.stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Producto").Preload("Unidad").
		Order("productos.nombre ASC").
		Limit(filter.Limit).Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *inventarioRepo) ListStockBajo(ctx context.Context, sucursalID *uuid.UUID) ([]model.InventarioSucursal, error) {
	var rows []model.InventarioSucursal
	q := r.db.WithContext(ctx).Model(&model.InventarioSucursal{}).
		Joins("JOIN productos ON productos.id = inventario_sucursal.producto_id").
		Where("inventario_sucursal.stock_actual <= productos.stock_minimo").
		Where("productos.activo = true")
	if sucursalID != nil {
		q = q.Where("inventario_sucursal.sucursal_id = ?", *sucursalID)
	}
	err := q.Preload("Producto").Preload("Unidad").Preload("Sucursal").Find(&rows).Error
	return rows, err
}

func (r *inventarioRepo) AumentarTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.InventarioSucursal{}).Where("id = ?", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", cantidad)).Error
}

// DescontarTx subtracts from stock_actual only while availability holds.
// Zero rows affected means another transaction consumed the stock first.
func (r *inventarioRepo) DescontarTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.InventarioSucursal{}).
		Where("id = ? AND stock_actual - stock_reservado >= ?", id, cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *inventarioRepo) ReservarTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.InventarioSucursal{}).
		Where("id = ? AND stock_actual - stock_reservado >= ?", id, cantidad).
		Update("stock_reservado", gorm.Expr("stock_reservado + ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *inventarioRepo) LiberarReservaTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.InventarioSucursal{}).
		Where("id = ? AND stock_reservado >= ?", id, cantidad).
		Update("stock_reservado", gorm.Expr("stock_reservado - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReservaInsuficiente
	}
	return nil
}

// ConsumirReservaTx converts a reservation into an actual outflow: both
// counters drop together so the invariant stock_actual ≥ stock_reservado holds
// throughout.
func (r *inventarioRepo) ConsumirReservaTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.InventarioSucursal{}).
		Where("id = ? AND stock_reservado >= ? AND stock_actual >= ?", id, cantidad, cantidad).
		Updates(map[string]interface{}{
			"stock_actual":    gorm.Expr("stock_actual - ?", cantidad),
			"stock_reservado": gorm.Expr("stock_reservado - ?", cantidad),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReservaInsuficiente
	}
	return nil
}

// FijarStockTx is the administrative override: sets stock_actual to an exact
// value, refusing to drop below the reserved amount.
func (r *inventarioRepo) FijarStockTx(tx *gorm.DB, id uuid.UUID, nuevoStock int) error {
	res := tx.Model(&model.InventarioSucursal{}).
		Where("id = ? AND stock_reservado <= ?", id, nuevoStock).
		Update("stock_actual", nuevoStock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReservaInsuficiente
	}
	return nil
}

func (r *inventarioRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *inventarioRepo) ListMovimientos(ctx context.Context, inventarioID uuid.UUID, limit int) ([]model.MovimientoInventario, error) {
	if limit <= 0 {
		limit = 100
	}
	var movs []model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Where("inventario_id = ?", inventarioID).
		Order("created_at DESC").Limit(limit).
		Find(&movs).Error
	return movs, err
}
