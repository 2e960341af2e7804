package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paintpos/internal/dto"
	"paintpos/internal/model"
	"paintpos/internal/repository"
	"paintpos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cien = decimal.NewFromInt(100)

// subtotalLinea computes cantidad × precio × (1 − descuento/100), rounded to
// two decimals. Shared by invoice and quotation lines.
func subtotalLinea(cantidad int, precio, descuentoPct decimal.Decimal) decimal.Decimal {
	bruto := precio.Mul(decimal.NewFromInt(int64(cantidad)))
	factor := decimal.NewFromInt(1).Sub(descuentoPct.Div(cien))
	return bruto.Mul(factor).Round(2)
}

type FacturaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	Anular(ctx context.Context, id, usuarioID uuid.UUID, motivo string) (*dto.FacturaResponse, error)
	AgregarPago(ctx context.Context, id uuid.UUID, req dto.PagoFacturaRequest) (*dto.FacturaResponse, error)
}

type facturaService struct {
	repo         repository.FacturaRepository
	inventario   InventarioService
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	dispatcher   *worker.Dispatcher
}

func NewFacturaService(
	repo repository.FacturaRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	dispatcher *worker.Dispatcher,
) FacturaService {
	return &facturaService{
		repo:         repo,
		inventario:   inventario,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		dispatcher:   dispatcher,
	}
}

// resolvedDetalle is a pre-flight line: product resolved, price settled,
// subtotal computed. Built outside the transaction so validation failures
// never open one.
type resolvedDetalle struct {
	productoID uuid.UUID
	unidadID   uuid.UUID
	nombre     string
	cantidad   int
	precio     decimal.Decimal
	descuento  decimal.Decimal
	subtotal   decimal.Decimal
}

func (s *facturaService) resolverDetalles(ctx context.Context, detalles []dto.DetalleFacturaRequest) ([]resolvedDetalle, error) {
	resolved := make([]resolvedDetalle, 0, len(detalles))
	for _, d := range detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		unid, err := uuid.Parse(d.UnidadID)
		if err != nil {
			return nil, fmt.Errorf("unidad_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", d.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}

		precio := d.PrecioUnitario
		if precio.IsZero() {
			// Price omitted: use the unit variation, falling back to the base price.
			if v, err := s.productoRepo.FindVariacion(ctx, pid, unid); err == nil {
				precio = v.PrecioVenta
			} else {
				precio = p.PrecioBase
			}
		}
		descuento := d.DescuentoPct
		if descuento.IsZero() && !p.DescuentoPct.IsZero() {
			descuento = p.DescuentoPct
		}

		resolved = append(resolved, resolvedDetalle{
			productoID: pid,
			unidadID:   unid,
			nombre:     p.Nombre,
			cantidad:   d.Cantidad,
			precio:     precio,
			descuento:  descuento,
			subtotal:   subtotalLinea(d.Cantidad, precio, descuento),
		})
	}
	return resolved, nil
}

// validarPagos checks every payment method exists and carries a reference when
// the method demands one. Returns the resolved method names for the response.
func (s *facturaService) validarPagos(ctx context.Context, pagos []dto.PagoFacturaRequest) ([]model.PagoFactura, error) {
	out := make([]model.PagoFactura, 0, len(pagos))
	for _, p := range pagos {
		mid, err := uuid.Parse(p.MetodoPagoID)
		if err != nil {
			return nil, fmt.Errorf("metodo_pago_id inválido: %w", err)
		}
		metodo, err := s.repo.FindMetodoPago(ctx, mid)
		if err != nil {
			return nil, errors.New("método de pago no encontrado")
		}
		if p.Monto.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("el monto del pago debe ser mayor a cero")
		}
		if metodo.RequiereReferencia && (p.Referencia == nil || *p.Referencia == "") {
			return nil, fmt.Errorf("el método de pago %s requiere número de referencia", metodo.Nombre)
		}
		out = append(out, model.PagoFactura{
			MetodoPagoID: mid,
			Monto:        p.Monto,
			Referencia:   p.Referencia,
			Notas:        p.Notas,
		})
	}
	return out, nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. Atomic correlativo from the branch series
//  2. Insert factura + detalles + pagos
//  3. Per-line guarded stock decrement (insufficient stock aborts everything)
// Then, outside the transaction, the PDF/email job is dispatched best-effort.

func (s *facturaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("sucursal_id inválido: %w", err)
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clienteRepo.ObtenerPorID(ctx, clienteID)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	serie, err := s.repo.FindSerieActiva(ctx, sucursalID)
	if err != nil {
		return nil, errors.New("la sucursal no tiene una serie de facturación activa")
	}

	resolved, err := s.resolverDetalles(ctx, req.Detalles)
	if err != nil {
		return nil, err
	}
	pagos, err := s.validarPagos(ctx, req.Pagos)
	if err != nil {
		return nil, err
	}

	var factura model.Factura
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		serieID, correlativo, err := s.repo.NextCorrelativoTx(tx, sucursalID)
		if err != nil {
			return err
		}

		factura = model.Factura{
			SerieID:     serieID,
			Correlativo: correlativo,
			SucursalID:  sucursalID,
			ClienteID:   clienteID,
			UsuarioID:   usuarioID,
			Descuento:   req.Descuento,
			Impuesto:    req.Impuesto,
			Estado:      model.FacturaActiva,
			Serie:       serie,
		}
		for _, r := range resolved {
			factura.Detalles = append(factura.Detalles, model.DetalleFactura{
				ProductoID:     r.productoID,
				UnidadID:       r.unidadID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				DescuentoPct:   r.descuento,
				Subtotal:       r.subtotal,
			})
		}
		factura.Pagos = pagos
		factura.CalcularTotal()

		if err := s.repo.Create(ctx, tx, &factura); err != nil {
			return err
		}

		refID := factura.ID
		uid := usuarioID
		for _, r := range resolved {
			motivo := fmt.Sprintf("Venta factura %s", factura.NumeroMostrado())
			if err := s.inventario.DescontarTx(tx, sucursalID, r.productoID, r.unidadID,
				r.cantidad, motivo, &refID, &uid); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("stock insuficiente para %s", r.nombre)
				}
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async PDF + email — best-effort, fire & forget.
	if s.dispatcher != nil {
		payload := worker.FacturaPDFPayload{FacturaID: factura.ID.String()}
		if req.ClienteEmail != nil && *req.ClienteEmail != "" {
			payload.ClienteEmail = req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueFacturaPDF(ctx, payload)
	}

	if s.repo.DB() != nil {
		return s.ObtenerPorID(ctx, factura.ID)
	}
	factura.Cliente = cliente
	resp := facturaToResponse(&factura)
	for i, r := range resolved {
		resp.Detalles[i].Producto = r.nombre
	}
	return resp, nil
}

func (s *facturaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	return facturaToResponse(f), nil
}

func (s *facturaService) Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = model.FacturaActiva
	}
	facturas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		data = append(data, *facturaToResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Restores stock for every line, voids the header and zeroes the total, in one
// transaction. Voiding twice is a domain conflict and never double-restores.

func (s *facturaService) Anular(ctx context.Context, id, usuarioID uuid.UUID, motivo string) (*dto.FacturaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	if factura.Estado == model.FacturaAnulada {
		return nil, errors.New("la factura ya está anulada")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		refID := factura.ID
		uid := usuarioID
		for _, d := range factura.Detalles {
			motivoMov := fmt.Sprintf("Anulación factura %s — %s", factura.NumeroMostrado(), motivo)
			if err := s.inventario.AumentarTx(tx, factura.SucursalID, d.ProductoID, d.UnidadID,
				d.Cantidad, MovRestoreAnulacion, motivoMov, &refID, &uid); err != nil {
				return err
			}
		}

		now := time.Now()
		factura.Estado = model.FacturaAnulada
		factura.AnuladaAt = &now
		factura.MotivoAnulacion = &motivo
		factura.AnuladaPor = &uid
		// Voided invoices display total 0; the historical amount stays
		// recoverable from the lines.
		factura.Total = decimal.Zero
		return s.repo.UpdateTx(tx, factura)
	})
	if txErr != nil {
		return nil, txErr
	}
	return facturaToResponse(factura), nil
}

// AgregarPago registers an additional payment against an active invoice.
func (s *facturaService) AgregarPago(ctx context.Context, id uuid.UUID, req dto.PagoFacturaRequest) (*dto.FacturaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	if factura.Estado != model.FacturaActiva {
		return nil, errors.New("no se pueden registrar pagos sobre una factura anulada")
	}
	pagos, err := s.validarPagos(ctx, []dto.PagoFacturaRequest{req})
	if err != nil {
		return nil, err
	}

	pago := pagos[0]
	pago.FacturaID = factura.ID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreatePagoTx(tx, &pago)
	})
	if txErr != nil {
		return nil, txErr
	}
	if s.repo.DB() != nil {
		return s.ObtenerPorID(ctx, factura.ID)
	}
	factura.Pagos = append(factura.Pagos, pago)
	return facturaToResponse(factura), nil
}

func facturaToResponse(f *model.Factura) *dto.FacturaResponse {
	detalles := make([]dto.DetalleFacturaResponse, 0, len(f.Detalles))
	for _, d := range f.Detalles {
		item := dto.DetalleFacturaResponse{
			ProductoID:     d.ProductoID.String(),
			UnidadID:       d.UnidadID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			DescuentoPct:   d.DescuentoPct,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			item.Producto = d.Producto.Nombre
		}
		if d.Unidad != nil {
			item.Unidad = d.Unidad.Nombre
		}
		detalles = append(detalles, item)
	}
	pagos := make([]dto.PagoFacturaResponse, 0, len(f.Pagos))
	for _, p := range f.Pagos {
		item := dto.PagoFacturaResponse{
			MetodoPagoID: p.MetodoPagoID.String(),
			Monto:        p.Monto,
			Referencia:   p.Referencia,
			Notas:        p.Notas,
		}
		if p.MetodoPago != nil {
			item.MetodoPago = p.MetodoPago.Nombre
		}
		pagos = append(pagos, item)
	}
	resp := &dto.FacturaResponse{
		ID:              f.ID.String(),
		Numero:          f.NumeroMostrado(),
		SucursalID:      f.SucursalID.String(),
		ClienteID:       f.ClienteID.String(),
		Subtotal:        f.Subtotal,
		Descuento:       f.Descuento,
		Impuesto:        f.Impuesto,
		Total:           f.Total,
		Estado:          f.Estado,
		Pagada:          f.EstaPagada(),
		Detalles:        detalles,
		Pagos:           pagos,
		MotivoAnulacion: f.MotivoAnulacion,
		CreatedAt:       f.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if f.Cliente != nil {
		resp.Cliente = f.Cliente.Nombre
	}
	if f.CotizacionID != nil {
		c := f.CotizacionID.String()
		resp.CotizacionID = &c
	}
	return resp
}
