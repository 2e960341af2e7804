package repository

import (
	"context"
	"time"

	"paintpos/internal/dto"
	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CotizacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error)
	List(ctx context.Context, filter dto.CotizacionFilter) ([]model.Cotizacion, int64, error)
	UpdateTx(tx *gorm.DB, c *model.Cotizacion) error

	// NextNumeroTx atomically advances the month counter and returns the new
	// sequence value. Must run inside the caller's transaction.
	NextNumeroTx(tx *gorm.DB, periodo string) (int64, error)

	// ListVencibles returns quotations still activa whose validity window
	// closed before the cutoff. Used by the expiry cron.
	ListVencibles(ctx context.Context, cutoff time.Time, limit int) ([]model.Cotizacion, error)

	DB() *gorm.DB
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) DB() *gorm.DB { return r.db }

func (r *cotizacionRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Sucursal").
		Preload("Detalles.Producto").
		Preload("Detalles.Unidad").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cotizacionRepo) List(ctx context.Context, filter dto.CotizacionFilter) ([]model.Cotizacion, int64, error) {
	var list []model.Cotizacion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cotizacion{})
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Cliente").Preload("Detalles.Producto").Preload("Detalles.Unidad").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *cotizacionRepo) UpdateTx(tx *gorm.DB, c *model.Cotizacion) error {
	return tx.Model(&model.Cotizacion{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"estado":     c.Estado,
			"factura_id": c.FacturaID,
		}).Error
}

// NextNumeroTx upserts the month row and increments in one statement, so two
// concurrent quotations in the same month always draw distinct numbers.
func (r *cotizacionRepo) NextNumeroTx(tx *gorm.DB, periodo string) (int64, error) {
	var contador int64
	err := tx.Raw(`
		INSERT INTO secuencias_cotizacion (periodo, contador)
		VALUES (?, 1)
		ON CONFLICT (periodo)
		DO UPDATE SET contador = secuencias_cotizacion.contador + 1
		RETURNING contador`, periodo).Scan(&contador).Error
	return contador, err
}

func (r *cotizacionRepo) ListVencibles(ctx context.Context, cutoff time.Time, limit int) ([]model.Cotizacion, error) {
	var list []model.Cotizacion
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("estado = ?", model.CotizacionActiva).
		Where("created_at + (vigencia_dias || ' days')::interval < ?", cutoff).
		Limit(limit).
		Find(&list).Error
	return list, err
}
