package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paintpos/internal/dto"
	"paintpos/internal/model"
	"paintpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngresoService manages supplier goods receipts and their application to the
// branch ledger.
type IngresoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearIngresoRequest) (*dto.IngresoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.IngresoResponse, error)
	Listar(ctx context.Context, filter dto.IngresoFilter) (*dto.IngresoListResponse, error)
	Procesar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.IngresoResponse, error)
	Anular(ctx context.Context, id uuid.UUID) error
}

type ingresoService struct {
	repo          repository.IngresoRepository
	inventario    InventarioService
	productoRepo  repository.ProductoRepository
	proveedorRepo repository.ProveedorRepository
}

func NewIngresoService(
	repo repository.IngresoRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	proveedorRepo repository.ProveedorRepository,
) IngresoService {
	return &ingresoService{
		repo:          repo,
		inventario:    inventario,
		productoRepo:  productoRepo,
		proveedorRepo: proveedorRepo,
	}
}

// Crear registers the receipt in estado pendiente. Line subtotals and the
// header total are fixed here, at entry time, so later reads never re-derive
// them.
func (s *ingresoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearIngresoRequest) (*dto.IngresoResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("sucursal_id inválido: %w", err)
	}
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	if _, err := s.proveedorRepo.ObtenerPorID(ctx, proveedorID); err != nil {
		return nil, errors.New("proveedor no encontrado")
	}

	ingreso := model.IngresoInventario{
		SucursalID:      sucursalID,
		ProveedorID:     proveedorID,
		UsuarioID:       usuarioID,
		NumeroDocumento: req.NumeroDocumento,
		Estado:          model.IngresoPendiente,
		Observaciones:   req.Observaciones,
	}

	total := decimal.Zero
	for _, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		uid, err := uuid.Parse(d.UnidadID)
		if err != nil {
			return nil, fmt.Errorf("unidad_id inválido: %w", err)
		}
		if _, err := s.productoRepo.FindByID(ctx, pid); err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", d.ProductoID)
		}

		subtotal := d.CostoUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		total = total.Add(subtotal)
		ingreso.Detalles = append(ingreso.Detalles, model.DetalleIngreso{
			ProductoID:    pid,
			UnidadID:      uid,
			Cantidad:      d.Cantidad,
			CostoUnitario: d.CostoUnitario,
			Subtotal:      subtotal,
		})
	}
	ingreso.Total = total

	if err := s.repo.Create(ctx, &ingreso); err != nil {
		return nil, err
	}
	return ingresoToResponse(&ingreso), nil
}

func (s *ingresoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.IngresoResponse, error) {
	ingreso, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("ingreso no encontrado")
	}
	return ingresoToResponse(ingreso), nil
}

func (s *ingresoService) Listar(ctx context.Context, filter dto.IngresoFilter) (*dto.IngresoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.IngresoResponse, 0, len(list))
	for i := range list {
		data = append(data, *ingresoToResponse(&list[i]))
	}
	return &dto.IngresoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Procesar applies every line to the ledger and flips the estado, all inside
// one transaction. A failure on any line rolls the whole receipt back.
func (s *ingresoService) Procesar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.IngresoResponse, error) {
	ingreso, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("ingreso no encontrado")
	}
	if ingreso.Estado != model.IngresoPendiente {
		return nil, errors.New("solo se pueden procesar ingresos pendientes")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		refID := ingreso.ID
		uid := usuarioID
		for _, d := range ingreso.Detalles {
			motivo := fmt.Sprintf("Ingreso %s", ingreso.NumeroDocumento)
			if err := s.inventario.AumentarTx(tx, ingreso.SucursalID, d.ProductoID, d.UnidadID,
				d.Cantidad, MovIngreso, motivo, &refID, &uid); err != nil {
				return fmt.Errorf("error aplicando detalle del ingreso: %w", err)
			}
		}
		now := time.Now()
		ingreso.Estado = model.IngresoProcesado
		ingreso.ProcesadoAt = &now
		return s.repo.UpdateTx(tx, ingreso)
	})
	if txErr != nil {
		return nil, txErr
	}
	return ingresoToResponse(ingreso), nil
}

// Anular aborts a pending receipt without touching the ledger.
func (s *ingresoService) Anular(ctx context.Context, id uuid.UUID) error {
	ingreso, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("ingreso no encontrado")
	}
	if ingreso.Estado != model.IngresoPendiente {
		return errors.New("solo se pueden anular ingresos pendientes")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ingreso.Estado = model.IngresoAnulado
		return s.repo.UpdateTx(tx, ingreso)
	})
}

func ingresoToResponse(i *model.IngresoInventario) *dto.IngresoResponse {
	detalles := make([]dto.DetalleIngresoResponse, 0, len(i.Detalles))
	for _, d := range i.Detalles {
		item := dto.DetalleIngresoResponse{
			ProductoID:    d.ProductoID.String(),
			UnidadID:      d.UnidadID.String(),
			Cantidad:      d.Cantidad,
			CostoUnitario: d.CostoUnitario,
			Subtotal:      d.Subtotal,
		}
		if d.Producto != nil {
			item.Producto = d.Producto.Nombre
		}
		if d.Unidad != nil {
			item.Unidad = d.Unidad.Nombre
		}
		detalles = append(detalles, item)
	}
	resp := &dto.IngresoResponse{
		ID:              i.ID.String(),
		SucursalID:      i.SucursalID.String(),
		ProveedorID:     i.ProveedorID.String(),
		NumeroDocumento: i.NumeroDocumento,
		Estado:          i.Estado,
		Total:           i.Total,
		Observaciones:   i.Observaciones,
		Detalles:        detalles,
		CreatedAt:       i.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if i.Proveedor != nil {
		resp.Proveedor = i.Proveedor.RazonSocial
	}
	if i.ProcesadoAt != nil {
		t := i.ProcesadoAt.Format("2006-01-02T15:04:05Z")
		resp.ProcesadoAt = &t
	}
	return resp
}
