package service

import (
	"context"
	"errors"
	"fmt"

	"paintpos/internal/dto"
	"paintpos/internal/model"
	"paintpos/internal/repository"

	"github.com/google/uuid"
)

// CatalogoService covers the small reference tables: categorías with their
// unidades de medida, and sucursales.
type CatalogoService interface {
	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
	ObtenerCategoria(ctx context.Context, id uuid.UUID) (*dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	DesactivarCategoria(ctx context.Context, id uuid.UUID) error

	CrearUnidad(ctx context.Context, req dto.CrearUnidadRequest) (*dto.UnidadResponse, error)
	ListarUnidades(ctx context.Context, categoriaID uuid.UUID) ([]dto.UnidadResponse, error)

	CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error)
	ListarSucursales(ctx context.Context) ([]dto.SucursalResponse, error)
	ObtenerSucursal(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error)
	DesactivarSucursal(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	categoriaRepo repository.CategoriaRepository
	sucursalRepo  repository.SucursalRepository
}

func NewCatalogoService(categoriaRepo repository.CategoriaRepository, sucursalRepo repository.SucursalRepository) CatalogoService {
	return &catalogoService{categoriaRepo: categoriaRepo, sucursalRepo: sucursalRepo}
}

func (s *catalogoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{
		Nombre:          req.Nombre,
		Descripcion:     req.Descripcion,
		RequiereMedidas: req.RequiereMedidas,
		Activo:          true,
	}
	if err := s.categoriaRepo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return categoriaToResponse(c), nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.categoriaRepo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, *categoriaToResponse(&categorias[i]))
	}
	return out, nil
}

func (s *catalogoService) ObtenerCategoria(ctx context.Context, id uuid.UUID) (*dto.CategoriaResponse, error) {
	c, err := s.categoriaRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	return categoriaToResponse(c), nil
}

func (s *catalogoService) ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.categoriaRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.RequiereMedidas != nil {
		c.RequiereMedidas = *req.RequiereMedidas
	}
	if err := s.categoriaRepo.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	return categoriaToResponse(c), nil
}

func (s *catalogoService) DesactivarCategoria(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoriaRepo.ObtenerPorID(ctx, id); err != nil {
		return errors.New("categoría no encontrada")
	}
	return s.categoriaRepo.Desactivar(ctx, id)
}

func (s *catalogoService) CrearUnidad(ctx context.Context, req dto.CrearUnidadRequest) (*dto.UnidadResponse, error) {
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("categoria_id inválido: %w", err)
	}
	if _, err := s.categoriaRepo.ObtenerPorID(ctx, categoriaID); err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	u := &model.UnidadMedida{
		CategoriaID:      categoriaID,
		Nombre:           req.Nombre,
		Abreviatura:      req.Abreviatura,
		FactorConversion: req.FactorConversion,
		Activo:           true,
	}
	if err := s.categoriaRepo.CrearUnidad(ctx, u); err != nil {
		return nil, err
	}
	return unidadToResponse(u), nil
}

func (s *catalogoService) ListarUnidades(ctx context.Context, categoriaID uuid.UUID) ([]dto.UnidadResponse, error) {
	unidades, err := s.categoriaRepo.ListarUnidades(ctx, categoriaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnidadResponse, 0, len(unidades))
	for i := range unidades {
		out = append(out, *unidadToResponse(&unidades[i]))
	}
	return out, nil
}

func (s *catalogoService) CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error) {
	suc := &model.Sucursal{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Latitud:   req.Latitud,
		Longitud:  req.Longitud,
		Activo:    true,
	}
	if err := s.sucursalRepo.Crear(ctx, suc); err != nil {
		return nil, err
	}
	return sucursalToResponse(suc), nil
}

func (s *catalogoService) ListarSucursales(ctx context.Context) ([]dto.SucursalResponse, error) {
	sucursales, err := s.sucursalRepo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SucursalResponse, 0, len(sucursales))
	for i := range sucursales {
		out = append(out, *sucursalToResponse(&sucursales[i]))
	}
	return out, nil
}

func (s *catalogoService) ObtenerSucursal(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error) {
	suc, err := s.sucursalRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}
	return sucursalToResponse(suc), nil
}

func (s *catalogoService) DesactivarSucursal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sucursalRepo.ObtenerPorID(ctx, id); err != nil {
		return errors.New("sucursal no encontrada")
	}
	return s.sucursalRepo.Desactivar(ctx, id)
}

func categoriaToResponse(c *model.Categoria) *dto.CategoriaResponse {
	resp := &dto.CategoriaResponse{
		ID:              c.ID.String(),
		Nombre:          c.Nombre,
		Descripcion:     c.Descripcion,
		RequiereMedidas: c.RequiereMedidas,
		Activo:          c.Activo,
	}
	for i := range c.Unidades {
		resp.Unidades = append(resp.Unidades, *unidadToResponse(&c.Unidades[i]))
	}
	return resp
}

func unidadToResponse(u *model.UnidadMedida) *dto.UnidadResponse {
	return &dto.UnidadResponse{
		ID:               u.ID.String(),
		CategoriaID:      u.CategoriaID.String(),
		Nombre:           u.Nombre,
		Abreviatura:      u.Abreviatura,
		FactorConversion: u.FactorConversion,
		Activo:           u.Activo,
	}
}

func sucursalToResponse(s *model.Sucursal) *dto.SucursalResponse {
	return &dto.SucursalResponse{
		ID:        s.ID.String(),
		Nombre:    s.Nombre,
		Direccion: s.Direccion,
		Telefono:  s.Telefono,
		Latitud:   s.Latitud,
		Longitud:  s.Longitud,
		Activo:    s.Activo,
	}
}
