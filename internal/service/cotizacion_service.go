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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CotizacionService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error)
	Listar(ctx context.Context, filter dto.CotizacionFilter) (*dto.CotizacionListResponse, error)
	Anular(ctx context.Context, id, usuarioID uuid.UUID) (*dto.CotizacionResponse, error)
	// Convertir turns a vigente quotation into an invoice in one transaction,
	// consuming the stock it had reserved.
	Convertir(ctx context.Context, id, usuarioID uuid.UUID, req dto.ConvertirCotizacionRequest) (*dto.FacturaResponse, error)
	// ExpirarVencidas marks quotations past their vigencia as vencida and
	// releases their reservations. Called from the background sweep.
	ExpirarVencidas(ctx context.Context) (int, error)
}

type cotizacionService struct {
	repo         repository.CotizacionRepository
	facturaRepo  repository.FacturaRepository
	inventario   InventarioService
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	vigenciaDias int
}

func NewCotizacionService(
	repo repository.CotizacionRepository,
	facturaRepo repository.FacturaRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	vigenciaDias int,
) CotizacionService {
	if vigenciaDias <= 0 {
		vigenciaDias = 15
	}
	return &cotizacionService{
		repo:         repo,
		facturaRepo:  facturaRepo,
		inventario:   inventario,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		vigenciaDias: vigenciaDias,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Assigns the COT-YYYYMM#### number from the per-month counter and reserves
// stock for every line, all inside one transaction. A line that cannot be
// reserved aborts the whole quotation.

func (s *cotizacionService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("sucursal_id inválido: %w", err)
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	if _, err := s.clienteRepo.ObtenerPorID(ctx, clienteID); err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	type lineaResuelta struct {
		productoID uuid.UUID
		unidadID   uuid.UUID
		nombre     string
		cantidad   int
		precio     decimal.Decimal
		descuento  decimal.Decimal
		subtotal   decimal.Decimal
	}
	resolved := make([]lineaResuelta, 0, len(req.Detalles))
	for _, d := range req.Detalles {
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
			return nil, fmt.Errorf("producto %s está inactivo", p.Nombre)
		}
		precio := d.PrecioUnitario
		if precio.IsZero() {
			if v, err := s.productoRepo.FindVariacion(ctx, pid, unid); err == nil {
				precio = v.PrecioVenta
			} else {
				precio = p.PrecioBase
			}
		}
		resolved = append(resolved, lineaResuelta{
			productoID: pid,
			unidadID:   unid,
			nombre:     p.Nombre,
			cantidad:   d.Cantidad,
			precio:     precio,
			descuento:  d.DescuentoPct,
			subtotal:   subtotalLinea(d.Cantidad, precio, d.DescuentoPct),
		})
	}

	vigencia := s.vigenciaDias
	if req.VigenciaDias > 0 {
		vigencia = req.VigenciaDias
	}

	var cot model.Cotizacion
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		periodo := time.Now().Format("200601")
		contador, err := s.repo.NextNumeroTx(tx, periodo)
		if err != nil {
			return err
		}

		cot = model.Cotizacion{
			Numero:        fmt.Sprintf("COT-%s%04d", periodo, contador),
			SucursalID:    sucursalID,
			ClienteID:     clienteID,
			UsuarioID:     usuarioID,
			Descuento:     req.Descuento,
			Estado:        model.CotizacionActiva,
			VigenciaDias:  vigencia,
			Observaciones: req.Observaciones,
		}
		for _, r := range resolved {
			cot.Detalles = append(cot.Detalles, model.DetalleCotizacion{
				ProductoID:     r.productoID,
				UnidadID:       r.unidadID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				DescuentoPct:   r.descuento,
				Subtotal:       r.subtotal,
			})
		}
		cot.CalcularTotal()

		if err := s.repo.Create(ctx, tx, &cot); err != nil {
			return err
		}

		refID := cot.ID
		uid := usuarioID
		for _, r := range resolved {
			motivo := fmt.Sprintf("Reserva cotización %s", cot.Numero)
			if err := s.inventario.ReservarTx(tx, sucursalID, r.productoID, r.unidadID,
				r.cantidad, motivo, &refID, &uid); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("stock insuficiente para reservar %s", r.nombre)
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.repo.DB() != nil {
		return s.ObtenerPorID(ctx, cot.ID)
	}
	return cotizacionToResponse(&cot), nil
}

func (s *cotizacionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error) {
	cot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cotización no encontrada")
	}
	return cotizacionToResponse(cot), nil
}

func (s *cotizacionService) Listar(ctx context.Context, filter dto.CotizacionFilter) (*dto.CotizacionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	cots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CotizacionResponse, 0, len(cots))
	for i := range cots {
		data = append(data, *cotizacionToResponse(&cots[i]))
	}
	return &dto.CotizacionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *cotizacionService) Anular(ctx context.Context, id, usuarioID uuid.UUID) (*dto.CotizacionResponse, error) {
	cot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cotización no encontrada")
	}
	if cot.Estado != model.CotizacionActiva {
		return nil, fmt.Errorf("solo se pueden anular cotizaciones activas, estado actual: %s", cot.Estado)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.liberarReservasTx(tx, cot, usuarioID, "Anulación cotización "+cot.Numero); err != nil {
			return err
		}
		cot.Estado = model.CotizacionAnulada
		return s.repo.UpdateTx(tx, cot)
	})
	if txErr != nil {
		return nil, txErr
	}
	return cotizacionToResponse(cot), nil
}

// liberarReservasTx returns every reserved line of the quotation to available
// stock. Reservations for rows that were since adjusted below the reserved
// amount surface as ErrReservaInsuficiente and abort the transaction.
func (s *cotizacionService) liberarReservasTx(tx *gorm.DB, cot *model.Cotizacion, usuarioID uuid.UUID, motivo string) error {
	refID := cot.ID
	uid := usuarioID
	for _, d := range cot.Detalles {
		if err := s.inventario.LiberarReservaTx(tx, cot.SucursalID, d.ProductoID, d.UnidadID,
			d.Cantidad, motivo, &refID, &uid); err != nil {
			return err
		}
	}
	return nil
}

// ── Convertir ─────────────────────────────────────────────────────────────────
// Prices and quantities are carried over frozen from the quotation. The same
// transaction draws the invoice number, inserts the invoice and consumes the
// reservation, so a crash can never leave a half-converted quotation.

func (s *cotizacionService) Convertir(ctx context.Context, id, usuarioID uuid.UUID, req dto.ConvertirCotizacionRequest) (*dto.FacturaResponse, error) {
	cot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cotización no encontrada")
	}
	if cot.Estado == model.CotizacionFacturada {
		return nil, errors.New("la cotización ya fue facturada")
	}
	if !cot.EstaVigente(time.Now()) {
		return nil, errors.New("la cotización no está vigente")
	}

	serie, err := s.facturaRepo.FindSerieActiva(ctx, cot.SucursalID)
	if err != nil {
		return nil, errors.New("la sucursal no tiene una serie de facturación activa")
	}

	// Payment validation mirrors direct sales: referenced methods need a
	// reference before anything touches the database.
	pagos := make([]model.PagoFactura, 0, len(req.Pagos))
	for _, p := range req.Pagos {
		mid, err := uuid.Parse(p.MetodoPagoID)
		if err != nil {
			return nil, fmt.Errorf("metodo_pago_id inválido: %w", err)
		}
		metodo, err := s.facturaRepo.FindMetodoPago(ctx, mid)
		if err != nil {
			return nil, errors.New("método de pago no encontrado")
		}
		if metodo.RequiereReferencia && (p.Referencia == nil || *p.Referencia == "") {
			return nil, fmt.Errorf("el método de pago %s requiere número de referencia", metodo.Nombre)
		}
		pagos = append(pagos, model.PagoFactura{
			MetodoPagoID: mid,
			Monto:        p.Monto,
			Referencia:   p.Referencia,
			Notas:        p.Notas,
		})
	}

	var factura model.Factura
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		serieID, correlativo, err := s.facturaRepo.NextCorrelativoTx(tx, cot.SucursalID)
		if err != nil {
			return err
		}

		cotID := cot.ID
		factura = model.Factura{
			SerieID:      serieID,
			Correlativo:  correlativo,
			SucursalID:   cot.SucursalID,
			ClienteID:    cot.ClienteID,
			UsuarioID:    usuarioID,
			CotizacionID: &cotID,
			Descuento:    cot.Descuento,
			Impuesto:     req.Impuesto,
			Estado:       model.FacturaActiva,
			Pagos:        pagos,
			Serie:        serie,
		}
		for _, d := range cot.Detalles {
			factura.Detalles = append(factura.Detalles, model.DetalleFactura{
				ProductoID:     d.ProductoID,
				UnidadID:       d.UnidadID,
				Cantidad:       d.Cantidad,
				PrecioUnitario: d.PrecioUnitario,
				DescuentoPct:   d.DescuentoPct,
				Subtotal:       d.Subtotal,
			})
		}
		factura.CalcularTotal()

		if err := s.facturaRepo.Create(ctx, tx, &factura); err != nil {
			return err
		}

		refID := factura.ID
		uid := usuarioID
		for _, d := range cot.Detalles {
			motivo := fmt.Sprintf("Venta factura %s (cotización %s)", factura.NumeroMostrado(), cot.Numero)
			if err := s.inventario.ConsumirReservaTx(tx, cot.SucursalID, d.ProductoID, d.UnidadID,
				d.Cantidad, motivo, &refID, &uid); err != nil {
				return err
			}
		}

		cot.Estado = model.CotizacionFacturada
		cot.FacturaID = &factura.ID
		return s.repo.UpdateTx(tx, cot)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.repo.DB() != nil {
		f, err := s.facturaRepo.FindByID(ctx, factura.ID)
		if err != nil {
			return nil, err
		}
		return facturaToResponse(f), nil
	}
	return facturaToResponse(&factura), nil
}

// ExpirarVencidas is the sweep behind the expiry cron: each vencida quotation
// gets its own transaction so one bad row does not wedge the rest.
func (s *cotizacionService) ExpirarVencidas(ctx context.Context) (int, error) {
	vencibles, err := s.repo.ListVencibles(ctx, time.Now(), 200)
	if err != nil {
		return 0, err
	}

	expiradas := 0
	for i := range vencibles {
		cot := &vencibles[i]
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.liberarReservasTx(tx, cot, cot.UsuarioID, "Vencimiento cotización "+cot.Numero); err != nil {
				return err
			}
			cot.Estado = model.CotizacionVencida
			return s.repo.UpdateTx(tx, cot)
		})
		if err != nil {
			log.Error().Err(err).Str("cotizacion", cot.Numero).Msg("error expirando cotización")
			continue
		}
		expiradas++
	}
	return expiradas, nil
}

func cotizacionToResponse(c *model.Cotizacion) *dto.CotizacionResponse {
	detalles := make([]dto.DetalleCotizacionResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		item := dto.DetalleCotizacionResponse{
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
	resp := &dto.CotizacionResponse{
		ID:           c.ID.String(),
		Numero:       c.Numero,
		SucursalID:   c.SucursalID.String(),
		ClienteID:    c.ClienteID.String(),
		Subtotal:     c.Subtotal,
		Descuento:    c.Descuento,
		Total:        c.Total,
		Estado:       c.Estado,
		VigenciaDias: c.VigenciaDias,
		Vigente:      c.EstaVigente(time.Now()),
		Detalles:     detalles,
		Observaciones: c.Observaciones,
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.Cliente != nil {
		resp.Cliente = c.Cliente.Nombre
	}
	if c.FacturaID != nil {
		f := c.FacturaID.String()
		resp.FacturaID = &f
	}
	return resp
}
