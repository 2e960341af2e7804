package repository

import (
	"context"

	"paintpos/internal/dto"
	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Variaciones
	CrearVariacion(ctx context.Context, v *model.Variacion) error
	FindVariacion(ctx context.Context, productoID, unidadID uuid.UUID) (*model.Variacion, error)
	FindVariacionPorCodigo(ctx context.Context, codigo string) (*model.Variacion, error)
	ListVariaciones(ctx context.Context, productoID uuid.UUID) ([]model.Variacion, error)
	DesactivarVariacion(ctx context.Context, id uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	// Creates the detail record in the same insert via GORM associations.
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").
		Preload("DetallePintura").
		Preload("DetalleAccesorio").
		Preload("Variaciones.Unidad").
		First(&p, id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Marca != "" {
		q = q.Where("marca ILIKE ?", "%"+filter.Marca+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Categoria").Preload("Variaciones.Unidad").
		Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) CrearVariacion(ctx context.Context, v *model.Variacion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *productoRepo) FindVariacion(ctx context.Context, productoID, unidadID uuid.UUID) (*model.Variacion, error) {
	var v model.Variacion
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND unidad_id = ? AND activo = true", productoID, unidadID).
		First(&v).Error
	return &v, err
}

func (r *productoRepo) FindVariacionPorCodigo(ctx context.Context, codigo string) (*model.Variacion, error) {
	var v model.Variacion
	err := r.db.WithContext(ctx).
		Preload("Producto").Preload("Unidad").
		Where("codigo = ? AND activo = true", codigo).
		First(&v).Error
	return &v, err
}

func (r *productoRepo) ListVariaciones(ctx context.Context, productoID uuid.UUID) ([]model.Variacion, error) {
	var list []model.Variacion
	err := r.db.WithContext(ctx).Preload("Unidad").
		Where("producto_id = ?", productoID).Find(&list).Error
	return list, err
}

func (r *productoRepo) DesactivarVariacion(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Variacion{}).Where("id = ?", id).Update("activo", false).Error
}
