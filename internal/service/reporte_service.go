package service

import (
	"context"
	"errors"
	"time"

	"paintpos/internal/dto"
	"paintpos/internal/repository"

	"github.com/shopspring/decimal"
)

type ReporteService interface {
	Ventas(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteVentasResponse, error)
	TopProductos(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteTopProductosResponse, error)
	Valorizacion(ctx context.Context, sucursalID string) (*dto.ReporteValorizacionResponse, error)
}

type reporteService struct {
	repo repository.ReporteRepository
}

func NewReporteService(repo repository.ReporteRepository) ReporteService {
	return &reporteService{repo: repo}
}

// rangoFechas defaults the window to today and validates the bounds.
func rangoFechas(filter dto.ReporteFilter) (string, string, error) {
	hoy := time.Now().Format("2006-01-02")
	desde := filter.FechaInicio
	hasta := filter.FechaFin
	if desde == "" {
		desde = hoy
	}
	if hasta == "" {
		hasta = hoy
	}
	di, err := time.Parse("2006-01-02", desde)
	if err != nil {
		return "", "", errors.New("fecha_inicio inválida, formato esperado YYYY-MM-DD")
	}
	df, err := time.Parse("2006-01-02", hasta)
	if err != nil {
		return "", "", errors.New("fecha_fin inválida, formato esperado YYYY-MM-DD")
	}
	if df.Before(di) {
		return "", "", errors.New("fecha_fin no puede ser anterior a fecha_inicio")
	}
	return desde, hasta, nil
}

func (s *reporteService) Ventas(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteVentasResponse, error) {
	desde, hasta, err := rangoFechas(filter)
	if err != nil {
		return nil, err
	}

	resumen, err := s.repo.ResumenVentas(ctx, filter.SucursalID, desde, hasta)
	if err != nil {
		return nil, err
	}
	porMetodo, err := s.repo.VentasPorMetodo(ctx, filter.SucursalID, desde, hasta)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VentasPorMetodoItem, 0, len(porMetodo))
	for _, m := range porMetodo {
		items = append(items, dto.VentasPorMetodoItem{MetodoPago: m.MetodoPago, Monto: m.Monto})
	}
	return &dto.ReporteVentasResponse{
		SucursalID:       filter.SucursalID,
		FechaInicio:      desde,
		FechaFin:         hasta,
		CantidadFacturas: resumen.CantidadFacturas,
		CantidadAnuladas: resumen.CantidadAnuladas,
		TotalVendido:     resumen.TotalVendido,
		PorMetodoPago:    items,
	}, nil
}

func (s *reporteService) TopProductos(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteTopProductosResponse, error) {
	desde, hasta, err := rangoFechas(filter)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	rows, err := s.repo.TopProductos(ctx, filter.SucursalID, desde, hasta, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoVendidoItem, 0, len(rows))
	for _, r := range rows {
		data = append(data, dto.ProductoVendidoItem{
			ProductoID:      r.ProductoID,
			Producto:        r.Producto,
			Unidad:          r.Unidad,
			CantidadVendida: r.CantidadVendida,
			TotalVendido:    r.TotalVendido,
		})
	}
	return &dto.ReporteTopProductosResponse{Data: data}, nil
}

// Valorizacion prices the on-hand stock of a branch at precio base. Reserved
// stock is still owned stock, so it counts.
func (s *reporteService) Valorizacion(ctx context.Context, sucursalID string) (*dto.ReporteValorizacionResponse, error) {
	if sucursalID == "" {
		return nil, errors.New("sucursal_id es requerido")
	}
	rows, err := s.repo.Valorizacion(ctx, sucursalID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	data := make([]dto.ValorizacionItem, 0, len(rows))
	for _, r := range rows {
		valor := r.PrecioBase.Mul(decimal.NewFromInt(int64(r.StockActual)))
		total = total.Add(valor)
		data = append(data, dto.ValorizacionItem{
			ProductoID:  r.ProductoID,
			Producto:    r.Producto,
			Unidad:      r.Unidad,
			StockActual: r.StockActual,
			PrecioBase:  r.PrecioBase,
			Valor:       valor,
		})
	}
	return &dto.ReporteValorizacionResponse{SucursalID: sucursalID, Total: total, Data: data}, nil
}
