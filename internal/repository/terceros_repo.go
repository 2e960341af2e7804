package repository

import (
	"context"

	"paintpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteRepository is plain CRUD for invoice/quotation counterparties.
type ClienteRepository interface {
	Crear(ctx context.Context, c *model.Cliente) error
	Listar(ctx context.Context, buscar string) ([]model.Cliente, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ObtenerPorNIT(ctx context.Context, nit string) (*model.Cliente, error)
	Actualizar(ctx context.Context, c *model.Cliente) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteRepository struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository {
	return &clienteRepository{db: db}
}

func (r *clienteRepository) Crear(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepository) Listar(ctx context.Context, buscar string) ([]model.Cliente, error) {
	var list []model.Cliente
	q := r.db.WithContext(ctx).Where("activo = true")
	if buscar != "" {
		q = q.Where("nombre ILIKE ? OR nit ILIKE ?", "%"+buscar+"%", "%"+buscar+"%")
	}
	err := q.Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *clienteRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepository) ObtenerPorNIT(ctx context.Context, nit string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("nit = ?", nit).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepository) Actualizar(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepository) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}

// ProveedorRepository is plain CRUD for suppliers.
type ProveedorRepository interface {
	Crear(ctx context.Context, p *model.Proveedor) error
	Listar(ctx context.Context) ([]model.Proveedor, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	Actualizar(ctx context.Context, p *model.Proveedor) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorRepository struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository {
	return &proveedorRepository{db: db}
}

func (r *proveedorRepository) Crear(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepository) Listar(ctx context.Context) ([]model.Proveedor, error) {
	var list []model.Proveedor
	err := r.db.WithContext(ctx).Where("activo = true").Order("razon_social asc").Find(&list).Error
	return list, err
}

func (r *proveedorRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepository) Actualizar(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepository) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("id = ?", id).Update("activo", false).Error
}
