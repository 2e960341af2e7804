package service

import (
	"context"
	"errors"
	"fmt"

	"paintpos/internal/dto"
	"paintpos/internal/model"
	"paintpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement types written to the inventory audit trail.
const (
	MovVenta            = "venta"
	MovIngreso          = "ingreso"
	MovAjusteManual     = "ajuste_manual"
	MovRestoreAnulacion = "restore_anulacion"
	MovReserva          = "reserva"
	MovLiberacion       = "liberacion_reserva"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// InventarioService owns the branch stock ledger. The Tx methods are the only
// way the rest of the system mutates stock; each one applies the guarded
// repository update and writes the matching audit movement, inside the
// caller's transaction.
type InventarioService interface {
	ListarPorSucursal(ctx context.Context, sucursalID uuid.UUID, filter dto.InventarioFilter) (*dto.InventarioListResponse, error)
	AjustarStock(ctx context.Context, usuarioID, sucursalID, productoID, unidadID uuid.UUID, req dto.AjustarStockRequest) (*dto.InventarioResponse, error)
	ObtenerAlertas(ctx context.Context, sucursalID *uuid.UUID) ([]dto.AlertaStockResponse, error)
	ListarMovimientos(ctx context.Context, inventarioID uuid.UUID, limit int) ([]dto.MovimientoResponse, error)

	// Called inside sale / receipt / quotation transactions.
	AumentarTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, tipo, motivo string, refID, usuarioID *uuid.UUID) error
	DescontarTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error
	ReservarTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error
	LiberarReservaTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error
	ConsumirReservaTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error
}

type inventarioService struct {
	repo         repository.InventarioRepository
	productoRepo repository.ProductoRepository
}

func NewInventarioService(repo repository.InventarioRepository, productoRepo repository.ProductoRepository) InventarioService {
	return &inventarioService{repo: repo, productoRepo: productoRepo}
}

func (s *inventarioService) ListarPorSucursal(ctx context.Context, sucursalID uuid.UUID, filter dto.InventarioFilter) (*dto.InventarioListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	rows, total, err := s.repo.List(ctx, sucursalID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventarioResponse, 0, len(rows))
	for i := range rows {
		data = append(data, inventarioToResponse(&rows[i]))
	}
	return &dto.InventarioListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// AjustarStock is the administrative correction path. It bypasses sale and
// receipt semantics but still refuses to break the reservation invariant and
// still leaves an audit movement.
func (s *inventarioService) AjustarStock(ctx context.Context, usuarioID, sucursalID, productoID, unidadID uuid.UUID, req dto.AjustarStockRequest) (*dto.InventarioResponse, error) {
	if req.NuevoStock < 0 {
		return nil, errors.New("el stock no puede ser negativo")
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, errors.New("producto no encontrado")
	}

	var resp dto.InventarioResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.repo.ObtenerOCrearTx(tx, sucursalID, productoID, unidadID)
		if err != nil {
			return err
		}
		anterior := inv.StockActual

		if err := s.repo.FijarStockTx(tx, inv.ID, req.NuevoStock); err != nil {
			if errors.Is(err, repository.ErrReservaInsuficiente) {
				return fmt.Errorf("no se puede fijar stock en %d: hay %d unidades reservadas", req.NuevoStock, inv.StockReservado)
			}
			return err
		}

		uid := usuarioID
		mov := &model.MovimientoInventario{
			InventarioID:  inv.ID,
			Tipo:          MovAjusteManual,
			Cantidad:      req.NuevoStock - anterior,
			StockAnterior: anterior,
			StockNuevo:    req.NuevoStock,
			Motivo:        req.Motivo,
			UsuarioID:     &uid,
		}
		if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}

		inv.StockActual = req.NuevoStock
		resp = inventarioToResponse(inv)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &resp, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context, sucursalID *uuid.UUID) ([]dto.AlertaStockResponse, error) {
	rows, err := s.repo.ListStockBajo(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(rows))
	for _, inv := range rows {
		a := dto.AlertaStockResponse{
			SucursalID:  inv.SucursalID.String(),
			ProductoID:  inv.ProductoID.String(),
			StockActual: inv.StockActual,
		}
		if inv.Sucursal != nil {
			a.Sucursal = inv.Sucursal.Nombre
		}
		if inv.Producto != nil {
			a.Producto = inv.Producto.Nombre
			a.StockMinimo = inv.Producto.StockMinimo
		}
		if inv.Unidad != nil {
			a.Unidad = inv.Unidad.Nombre
		}
		alertas = append(alertas, a)
	}
	return alertas, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, inventarioID uuid.UUID, limit int) ([]dto.MovimientoResponse, error) {
	movs, err := s.repo.ListMovimientos(ctx, inventarioID, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimientoResponse{
			ID:            m.ID.String(),
			InventarioID:  m.InventarioID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			item.ReferenciaID = &ref
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ─── Transactional primitives ────────────────────────────────────────────────

func (s *inventarioService) AumentarTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, tipo, motivo string, refID, usuarioID *uuid.UUID) error {
	if cantidad <= 0 {
		return errors.New("la cantidad debe ser mayor a cero")
	}
	inv, err := s.repo.ObtenerOCrearTx(tx, sucursalID, productoID, unidadID)
	if err != nil {
		return err
	}
	if err := s.repo.AumentarTx(tx, inv.ID, cantidad); err != nil {
		return err
	}
	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		InventarioID:  inv.ID,
		Tipo:          tipo,
		Cantidad:      cantidad,
		StockAnterior: inv.StockActual,
		StockNuevo:    inv.StockActual + cantidad,
		Motivo:        motivo,
		ReferenciaID:  refID,
		UsuarioID:     usuarioID,
	})
}

func (s *inventarioService) DescontarTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error {
	if cantidad <= 0 {
		return errors.New("la cantidad debe ser mayor a cero")
	}
	inv, err := s.repo.ObtenerOCrearTx(tx, sucursalID, productoID, unidadID)
	if err != nil {
		return err
	}
	if err := s.repo.DescontarTx(tx, inv.ID, cantidad); err != nil {
		return err
	}
	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		InventarioID:  inv.ID,
		Tipo:          MovVenta,
		Cantidad:      -cantidad,
		StockAnterior: inv.StockActual,
		StockNuevo:    inv.StockActual - cantidad,
		Motivo:        motivo,
		ReferenciaID:  refID,
		UsuarioID:     usuarioID,
	})
}

func (s *inventarioService) ReservarTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error {
	if cantidad <= 0 {
		return errors.New("la cantidad debe ser mayor a cero")
	}
	inv, err := s.repo.ObtenerOCrearTx(tx, sucursalID, productoID, unidadID)
	if err != nil {
		return err
	}
	if err := s.repo.ReservarTx(tx, inv.ID, cantidad); err != nil {
		return err
	}
	// Reservations move stock between buckets; stock_actual stays put.
	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		InventarioID:  inv.ID,
		Tipo:          MovReserva,
		Cantidad:      0,
		StockAnterior: inv.StockActual,
		StockNuevo:    inv.StockActual,
		Motivo:        motivo,
		ReferenciaID:  refID,
		UsuarioID:     usuarioID,
	})
}

func (s *inventarioService) LiberarReservaTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error {
	if cantidad <= 0 {
		return errors.New("la cantidad debe ser mayor a cero")
	}
	inv, err := s.repo.ObtenerOCrearTx(tx, sucursalID, productoID, unidadID)
	if err != nil {
		return err
	}
	if err := s.repo.LiberarReservaTx(tx, inv.ID, cantidad); err != nil {
		return err
	}
	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		InventarioID:  inv.ID,
		Tipo:          MovLiberacion,
		Cantidad:      0,
		StockAnterior: inv.StockActual,
		StockNuevo:    inv.StockActual,
		Motivo:        motivo,
		ReferenciaID:  refID,
		UsuarioID:     usuarioID,
	})
}

func (s *inventarioService) ConsumirReservaTx(tx *gorm.DB, sucursalID, productoID, unidadID uuid.UUID, cantidad int, motivo string, refID, usuarioID *uuid.UUID) error {
	if cantidad <= 0 {
		return errors.New("la cantidad debe ser mayor a cero")
	}
	inv, err := s.repo.ObtenerOCrearTx(tx, sucursalID, productoID, unidadID)
	if err != nil {
		return err
	}
	if err := s.repo.ConsumirReservaTx(tx, inv.ID, cantidad); err != nil {
		return err
	}
	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		InventarioID:  inv.ID,
		Tipo:          MovVenta,
		Cantidad:      -cantidad,
		StockAnterior: inv.StockActual,
		StockNuevo:    inv.StockActual - cantidad,
		Motivo:        motivo,
		ReferenciaID:  refID,
		UsuarioID:     usuarioID,
	})
}

func inventarioToResponse(inv *model.InventarioSucursal) dto.InventarioResponse {
	resp := dto.InventarioResponse{
		ID:              inv.ID.String(),
		SucursalID:      inv.SucursalID.String(),
		ProductoID:      inv.ProductoID.String(),
		UnidadID:        inv.UnidadID.String(),
		StockActual:     inv.StockActual,
		StockReservado:  inv.StockReservado,
		StockDisponible: inv.StockDisponible(),
	}
	if inv.Producto != nil {
		resp.Producto = inv.Producto.Nombre
		resp.Marca = inv.Producto.Marca
		resp.StockMinimo = inv.Producto.StockMinimo
		resp.StockBajo = inv.EsStockBajo(inv.Producto.StockMinimo)
	}
	if inv.Unidad != nil {
		resp.Unidad = inv.Unidad.Nombre
	}
	return resp
}
