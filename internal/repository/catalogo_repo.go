package repository

import (
	"context"

	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository covers categories and their units of measure. Units are
// created through their category and are immutable in practice.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	Desactivar(ctx context.Context, id uuid.UUID) error

	CrearUnidad(ctx context.Context, u *model.UnidadMedida) error
	ListarUnidades(ctx context.Context, categoriaID uuid.UUID) ([]model.UnidadMedida, error)
	ObtenerUnidad(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error)
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Preload("Unidades").Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).Preload("Unidades").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepository) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *categoriaRepository) CrearUnidad(ctx context.Context, u *model.UnidadMedida) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *categoriaRepository) ListarUnidades(ctx context.Context, categoriaID uuid.UUID) ([]model.UnidadMedida, error) {
	var list []model.UnidadMedida
	err := r.db.WithContext(ctx).
		Where("categoria_id = ? AND activo = true", categoriaID).
		Order("factor_conversion asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerUnidad(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	var u model.UnidadMedida
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SucursalRepository is plain CRUD for branches.
type SucursalRepository interface {
	Crear(ctx context.Context, s *model.Sucursal) error
	Listar(ctx context.Context) ([]model.Sucursal, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	Actualizar(ctx context.Context, s *model.Sucursal) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type sucursalRepository struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository {
	return &sucursalRepository{db: db}
}

func (r *sucursalRepository) Crear(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sucursalRepository) Listar(ctx context.Context) ([]model.Sucursal, error) {
	var list []model.Sucursal
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *sucursalRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sucursalRepository) Actualizar(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sucursalRepository) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Sucursal{}).Where("id = ?", id).Update("activo", false).Error
}
