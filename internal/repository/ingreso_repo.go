package repository

import (
	"context"

	"paintpos/internal/dto"
	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngresoRepository interface {
	Create(ctx context.Context, i *model.IngresoInventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.IngresoInventario, error)
	List(ctx context.Context, filter dto.IngresoFilter) ([]model.IngresoInventario, int64, error)
	UpdateTx(tx *gorm.DB, i *model.IngresoInventario) error
	DB() *gorm.DB
}

type ingresoRepo struct{ db *gorm.DB }

func NewIngresoRepository(db *gorm.DB) IngresoRepository { return &ingresoRepo{db: db} }

func (r *ingresoRepo) DB() *gorm.DB { return r.db }

func (r *ingresoRepo) Create(ctx context.Context, i *model.IngresoInventario) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ingresoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.IngresoInventario, error) {
	var ing model.IngresoInventario
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Detalles.Producto").
		Preload("Detalles.Unidad").
		First(&ing, "id = ?", id).Error
	return &ing, err
}

func (r *ingresoRepo) List(ctx context.Context, filter dto.IngresoFilter) ([]model.IngresoInventario, int64, error) {
	var list []model.IngresoInventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.IngresoInventario{})
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
	err := q.Preload("Proveedor").Preload("Detalles.Producto").Preload("Detalles.Unidad").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&list).Error
	return list, total, err
}

func (r *ingresoRepo) UpdateTx(tx *gorm.DB, i *model.IngresoInventario) error {
	return tx.Model(&model.IngresoInventario{}).Where("id = ?", i.ID).
		Updates(map[string]interface{}{
			"estado":       i.Estado,
			"total":        i.Total,
			"procesado_at": i.ProcesadoAt,
		}).Error
}
