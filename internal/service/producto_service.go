package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paintpos/internal/dto"
	"paintpos/internal/model"
	"paintpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// precioCacheTTL bounds staleness of the price lookup cache. Writes that touch
// a variation delete its key, so the TTL only covers out-of-band edits.
const precioCacheTTL = 5 * time.Minute

func precioCacheKey(codigo string, sucursalID uuid.UUID) string {
	return fmt.Sprintf("precio:%s:%s", codigo, sucursalID)
}

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	CrearVariacion(ctx context.Context, productoID uuid.UUID, req dto.CrearVariacionRequest) (*dto.VariacionResponse, error)
	DesactivarVariacion(ctx context.Context, productoID, variacionID uuid.UUID) error

	// ConsultaPrecio is the cashier's barcode lookup: price and availability by
	// variation code at a branch, served from cache when warm.
	ConsultaPrecio(ctx context.Context, codigo string, sucursalID uuid.UUID) (*dto.ConsultaPrecioResponse, error)
}

type productoService struct {
	repo           repository.ProductoRepository
	categoriaRepo  repository.CategoriaRepository
	inventarioRepo repository.InventarioRepository
	rdb            *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	categoriaRepo repository.CategoriaRepository,
	inventarioRepo repository.InventarioRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{
		repo:           repo,
		categoriaRepo:  categoriaRepo,
		inventarioRepo: inventarioRepo,
		rdb:            rdb,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("categoria_id inválido: %w", err)
	}
	categoria, err := s.categoriaRepo.ObtenerPorID(ctx, categoriaID)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	if req.DetallePintura != nil && req.DetalleAccesorio != nil {
		return nil, errors.New("un producto no puede tener detalle de pintura y de accesorio a la vez")
	}

	p := &model.Producto{
		CategoriaID:  categoriaID,
		Nombre:       req.Nombre,
		Marca:        req.Marca,
		Descripcion:  req.Descripcion,
		PrecioBase:   req.PrecioBase,
		DescuentoPct: req.DescuentoPct,
		StockMinimo:  req.StockMinimo,
		TipoDetalle:  model.DetalleNinguno,
		Activo:       true,
	}

	// The category decides which detail kind is admissible. Paint categories
	// require the paint detail; accessory detail is optional elsewhere.
	switch {
	case req.DetallePintura != nil:
		if !categoria.RequiereMedidas {
			return nil, fmt.Errorf("la categoría %s no admite detalle de pintura", categoria.Nombre)
		}
		p.TipoDetalle = model.DetallePinturaTipo
		p.DetallePintura = &model.DetallePintura{
			Color:         req.DetallePintura.Color,
			CodigoColor:   req.DetallePintura.CodigoColor,
			TipoPintura:   req.DetallePintura.TipoPintura,
			Acabado:       req.DetallePintura.Acabado,
			Base:          req.DetallePintura.Base,
			RendimientoM2: req.DetallePintura.RendimientoM2,
		}
	case req.DetalleAccesorio != nil:
		if categoria.RequiereMedidas {
			return nil, fmt.Errorf("la categoría %s requiere detalle de pintura, no de accesorio", categoria.Nombre)
		}
		p.TipoDetalle = model.DetalleAccesorioTipo
		p.DetalleAccesorio = &model.DetalleAccesorio{
			Material:    req.DetalleAccesorio.Material,
			Dimensiones: req.DetalleAccesorio.Dimensiones,
			Uso:         req.DetalleAccesorio.Uso,
		}
	case categoria.RequiereMedidas:
		return nil, fmt.Errorf("la categoría %s requiere detalle de pintura", categoria.Nombre)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Categoria = categoria
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Marca != "" {
		p.Marca = req.Marca
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	precioCambio := false
	if req.PrecioBase != nil {
		p.PrecioBase = *req.PrecioBase
		precioCambio = true
	}
	if req.DescuentoPct != nil {
		p.DescuentoPct = *req.DescuentoPct
		precioCambio = true
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if precioCambio {
		s.invalidarPrecios(ctx, p.Variaciones)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecios(ctx, p.Variaciones)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) CrearVariacion(ctx context.Context, productoID uuid.UUID, req dto.CrearVariacionRequest) (*dto.VariacionResponse, error) {
	if _, err := s.repo.FindByID(ctx, productoID); err != nil {
		return nil, errors.New("producto no encontrado")
	}
	unidadID, err := uuid.Parse(req.UnidadID)
	if err != nil {
		return nil, fmt.Errorf("unidad_id inválido: %w", err)
	}
	if _, err := s.categoriaRepo.ObtenerUnidad(ctx, unidadID); err != nil {
		return nil, errors.New("unidad de medida no encontrada")
	}
	if _, err := s.repo.FindVariacion(ctx, productoID, unidadID); err == nil {
		return nil, errors.New("ya existe una variación para esa unidad")
	}
	if _, err := s.repo.FindVariacionPorCodigo(ctx, req.Codigo); err == nil {
		return nil, fmt.Errorf("el código %s ya está en uso", req.Codigo)
	}

	v := &model.Variacion{
		ProductoID:  productoID,
		UnidadID:    unidadID,
		Codigo:      req.Codigo,
		PrecioVenta: req.PrecioVenta,
		Activo:      true,
	}
	if err := s.repo.CrearVariacion(ctx, v); err != nil {
		return nil, err
	}
	return variacionToResponse(v), nil
}

func (s *productoService) DesactivarVariacion(ctx context.Context, productoID, variacionID uuid.UUID) error {
	variaciones, err := s.repo.ListVariaciones(ctx, productoID)
	if err != nil {
		return err
	}
	for _, v := range variaciones {
		if v.ID == variacionID {
			if err := s.repo.DesactivarVariacion(ctx, variacionID); err != nil {
				return err
			}
			s.invalidarPrecios(ctx, []model.Variacion{v})
			return nil
		}
	}
	return errors.New("variación no encontrada para ese producto")
}

func (s *productoService) ConsultaPrecio(ctx context.Context, codigo string, sucursalID uuid.UUID) (*dto.ConsultaPrecioResponse, error) {
	key := precioCacheKey(codigo, sucursalID)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.ConsultaPrecioResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	v, err := s.repo.FindVariacionPorCodigo(ctx, codigo)
	if err != nil {
		return nil, errors.New("código no encontrado")
	}
	if v.Producto == nil || !v.Producto.Activo {
		return nil, errors.New("producto inactivo")
	}

	resp := &dto.ConsultaPrecioResponse{
		Producto:    v.Producto.Nombre,
		Marca:       v.Producto.Marca,
		PrecioVenta: v.PrecioVenta,
	}
	if v.Unidad != nil {
		resp.Unidad = v.Unidad.Nombre
	}
	if inv, err := s.inventarioRepo.Find(ctx, sucursalID, v.ProductoID, v.UnidadID); err == nil {
		resp.StockDisponible = inv.StockDisponible()
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo cachear consulta de precio")
			}
		}
	}
	return resp, nil
}

// invalidarPrecios drops the cached lookups for the given variations across
// all branches. Best-effort; a miss just means one cold read.
func (s *productoService) invalidarPrecios(ctx context.Context, variaciones []model.Variacion) {
	if s.rdb == nil || len(variaciones) == 0 {
		return
	}
	for _, v := range variaciones {
		pattern := fmt.Sprintf("precio:%s:*", v.Codigo)
		iter := s.rdb.Scan(ctx, 0, pattern, 50).Iterator()
		for iter.Next(ctx) {
			if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				log.Warn().Err(err).Str("key", iter.Val()).Msg("no se pudo invalidar precio cacheado")
			}
		}
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		CategoriaID:  p.CategoriaID.String(),
		Nombre:       p.Nombre,
		Marca:        p.Marca,
		Descripcion:  p.Descripcion,
		PrecioBase:   p.PrecioBase,
		DescuentoPct: p.DescuentoPct,
		StockMinimo:  p.StockMinimo,
		TipoDetalle:  p.TipoDetalle,
		Activo:       p.Activo,
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	if p.DetallePintura != nil {
		resp.DetallePintura = &dto.DetallePinturaRequest{
			Color:         p.DetallePintura.Color,
			CodigoColor:   p.DetallePintura.CodigoColor,
			TipoPintura:   p.DetallePintura.TipoPintura,
			Acabado:       p.DetallePintura.Acabado,
			Base:          p.DetallePintura.Base,
			RendimientoM2: p.DetallePintura.RendimientoM2,
		}
	}
	if p.DetalleAccesorio != nil {
		resp.DetalleAccesorio = &dto.DetalleAccesorioRequest{
			Material:    p.DetalleAccesorio.Material,
			Dimensiones: p.DetalleAccesorio.Dimensiones,
			Uso:         p.DetalleAccesorio.Uso,
		}
	}
	for i := range p.Variaciones {
		resp.Variaciones = append(resp.Variaciones, *variacionToResponse(&p.Variaciones[i]))
	}
	return resp
}

func variacionToResponse(v *model.Variacion) *dto.VariacionResponse {
	resp := &dto.VariacionResponse{
		ID:          v.ID.String(),
		UnidadID:    v.UnidadID.String(),
		Codigo:      v.Codigo,
		PrecioVenta: v.PrecioVenta,
		Activo:      v.Activo,
	}
	if v.Unidad != nil {
		resp.Unidad = v.Unidad.Nombre
	}
	return resp
}
