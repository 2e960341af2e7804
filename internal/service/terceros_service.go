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

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, buscar string) ([]dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	ObtenerPorNIT(ctx context.Context, nit string) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if _, err := s.repo.ObtenerPorNIT(ctx, req.NIT); err == nil {
		return nil, fmt.Errorf("ya existe un cliente con NIT %s", req.NIT)
	}
	c := &model.Cliente{
		Nombre:    req.Nombre,
		NIT:       req.NIT,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, buscar string) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.Listar(ctx, buscar)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorNIT(ctx context.Context, nit string) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorNIT(ctx, nit)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	if req.NIT != c.NIT {
		if _, err := s.repo.ObtenerPorNIT(ctx, req.NIT); err == nil {
			return nil, fmt.Errorf("ya existe un cliente con NIT %s", req.NIT)
		}
	}
	c.Nombre = req.Nombre
	c.NIT = req.NIT
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	if err := s.repo.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return errors.New("cliente no encontrado")
	}
	return s.repo.Desactivar(ctx, id)
}

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		RazonSocial: req.RazonSocial,
		NIT:         req.NIT,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		out = append(out, *proveedorToResponse(&proveedores[i]))
	}
	return out, nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	p.RazonSocial = req.RazonSocial
	p.NIT = req.NIT
	p.Telefono = req.Telefono
	p.Email = req.Email
	p.Direccion = req.Direccion
	if err := s.repo.Actualizar(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return errors.New("proveedor no encontrado")
	}
	return s.repo.Desactivar(ctx, id)
}

// MetodoPagoService manages the configurable payment methods catalog.
type MetodoPagoService interface {
	Crear(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error)
	Listar(ctx context.Context) ([]dto.MetodoPagoResponse, error)
}

type metodoPagoService struct {
	repo repository.FacturaRepository
}

func NewMetodoPagoService(repo repository.FacturaRepository) MetodoPagoService {
	return &metodoPagoService{repo: repo}
}

func (s *metodoPagoService) Crear(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error) {
	m := &model.MetodoPago{
		Nombre:             req.Nombre,
		RequiereReferencia: req.RequiereReferencia,
		Activo:             true,
	}
	if err := s.repo.CrearMetodoPago(ctx, m); err != nil {
		return nil, err
	}
	return metodoPagoToResponse(m), nil
}

func (s *metodoPagoService) Listar(ctx context.Context) ([]dto.MetodoPagoResponse, error) {
	metodos, err := s.repo.ListMetodosPago(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MetodoPagoResponse, 0, len(metodos))
	for i := range metodos {
		out = append(out, *metodoPagoToResponse(&metodos[i]))
	}
	return out, nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		NIT:       c.NIT,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Activo:    c.Activo,
	}
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:          p.ID.String(),
		RazonSocial: p.RazonSocial,
		NIT:         p.NIT,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Direccion:   p.Direccion,
		Activo:      p.Activo,
	}
}

func metodoPagoToResponse(m *model.MetodoPago) *dto.MetodoPagoResponse {
	return &dto.MetodoPagoResponse{
		ID:                 m.ID.String(),
		Nombre:             m.Nombre,
		RequiereReferencia: m.RequiereReferencia,
		Activo:             m.Activo,
	}
}
