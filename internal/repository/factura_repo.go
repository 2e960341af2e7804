package repository

import (
	"context"
	"errors"

	"paintpos/internal/dto"
	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSerieNoActiva is returned when a branch has no active invoice series.
var ErrSerieNoActiva = errors.New("la sucursal no tiene una serie de factura activa")

type FacturaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	UpdateTx(tx *gorm.DB, f *model.Factura) error
	CreatePagoTx(tx *gorm.DB, p *model.PagoFactura) error

	// NextCorrelativoTx advances the branch series atomically and returns the
	// new value. Must run inside the caller's transaction.
	NextCorrelativoTx(tx *gorm.DB, sucursalID uuid.UUID) (serieID uuid.UUID, correlativo int64, err error)
	FindSerieActiva(ctx context.Context, sucursalID uuid.UUID) (*model.SerieFactura, error)
	CrearSerie(ctx context.Context, s *model.SerieFactura) error

	FindMetodoPago(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error)
	ListMetodosPago(ctx context.Context) ([]model.MetodoPago, error)
	CrearMetodoPago(ctx context.Context, m *model.MetodoPago) error

	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	// Detalles and Pagos are inserted with the header; referenced rows
	// (serie, cliente, sucursal) already exist and must not be upserted.
	return tx.WithContext(ctx).
		Omit("Serie", "Cliente", "Sucursal").
		Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Serie").
		Preload("Cliente").
		Preload("Sucursal").
		Preload("Detalles.Producto").
		Preload("Detalles.Unidad").
		Preload("Pagos.MetodoPago").
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})

	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Serie").Preload("Cliente").
		Preload("Detalles.Producto").Preload("Detalles.Unidad").
		Preload("Pagos.MetodoPago").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) UpdateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Model(&model.Factura{}).Where("id = ?", f.ID).
		Updates(map[string]interface{}{
			"estado":           f.Estado,
			"total":            f.Total,
			"anulada_at":       f.AnuladaAt,
			"motivo_anulacion": f.MotivoAnulacion,
			"anulada_por":      f.AnuladaPor,
		}).Error
}

func (r *facturaRepo) CreatePagoTx(tx *gorm.DB, p *model.PagoFactura) error {
	return tx.Omit("MetodoPago").Create(p).Error
}

// NextCorrelativoTx is a single read-increment-write: the UPDATE takes a row
// lock on the series, so concurrent sales serialize here and each one gets a
// distinct correlativo.
func (r *facturaRepo) NextCorrelativoTx(tx *gorm.DB, sucursalID uuid.UUID) (uuid.UUID, int64, error) {
	var row struct {
		ID                uuid.UUID
		CorrelativoActual int64
	}
	err := tx.Raw(`
		UPDATE series_factura
		SET correlativo_actual = correlativo_actual + 1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM series_factura
			WHERE sucursal_id = ? AND activo = true
			ORDER BY letra ASC
			LIMIT 1
		)
		RETURNING id, correlativo_actual`, sucursalID).Scan(&row).Error
	if err != nil {
		return uuid.Nil, 0, err
	}
	if row.ID == uuid.Nil {
		return uuid.Nil, 0, ErrSerieNoActiva
	}
	return row.ID, row.CorrelativoActual, nil
}

func (r *facturaRepo) FindSerieActiva(ctx context.Context, sucursalID uuid.UUID) (*model.SerieFactura, error) {
	var s model.SerieFactura
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND activo = true", sucursalID).
		Order("letra ASC").First(&s).Error
	return &s, err
}

func (r *facturaRepo) CrearSerie(ctx context.Context, s *model.SerieFactura) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *facturaRepo) FindMetodoPago(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	var m model.MetodoPago
	err := r.db.WithContext(ctx).First(&m, "id = ? AND activo = true", id).Error
	return &m, err
}

func (r *facturaRepo) ListMetodosPago(ctx context.Context) ([]model.MetodoPago, error) {
	var list []model.MetodoPago
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *facturaRepo) CrearMetodoPago(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Create(m).Error
}
