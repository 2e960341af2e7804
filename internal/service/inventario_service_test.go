package service

import (
	"context"
	"testing"

	"paintpos/internal/dto"
	"paintpos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventarioSvc() (InventarioService, *stubInventarioRepo, *stubProductoRepo) {
	invRepo := newStubInventarioRepo()
	productoRepo := newStubProductoRepo()
	return NewInventarioService(invRepo, productoRepo), invRepo, productoRepo
}

func TestDescontarTx_RespetaReserva(t *testing.T) {
	svc, invRepo, productoRepo := buildInventarioSvc()
	sucursalID, unidadID := uuid.New(), uuid.New()
	p := seedProducto(productoRepo, "Látex Blanco", 150)
	seedStock(invRepo, sucursalID, p, unidadID, 10)

	// Reserve 8 of the 10: only 2 remain sellable.
	require.NoError(t, svc.ReservarTx(nil, sucursalID, p.ID, unidadID, 8, "reserva", nil, nil))

	err := svc.DescontarTx(nil, sucursalID, p.ID, unidadID, 5, "venta", nil, nil)
	assert.ErrorIs(t, err, repository.ErrStockInsuficiente)

	require.NoError(t, svc.DescontarTx(nil, sucursalID, p.ID, unidadID, 2, "venta", nil, nil))
	actual, reservado := invRepo.stock(sucursalID, p.ID, unidadID)
	assert.Equal(t, 8, actual)
	assert.Equal(t, 8, reservado)
}

func TestLiberarReserva_NuncaNegativa(t *testing.T) {
	svc, invRepo, productoRepo := buildInventarioSvc()
	sucursalID, unidadID := uuid.New(), uuid.New()
	p := seedProducto(productoRepo, "Esmalte Negro", 95)
	seedStock(invRepo, sucursalID, p, unidadID, 10)

	require.NoError(t, svc.ReservarTx(nil, sucursalID, p.ID, unidadID, 3, "reserva", nil, nil))

	err := svc.LiberarReservaTx(nil, sucursalID, p.ID, unidadID, 5, "liberacion", nil, nil)
	assert.ErrorIs(t, err, repository.ErrReservaInsuficiente)

	require.NoError(t, svc.LiberarReservaTx(nil, sucursalID, p.ID, unidadID, 3, "liberacion", nil, nil))
	_, reservado := invRepo.stock(sucursalID, p.ID, unidadID)
	assert.Equal(t, 0, reservado)
}

func TestConsumirReserva_DescuentaAmbosContadores(t *testing.T) {
	svc, invRepo, productoRepo := buildInventarioSvc()
	sucursalID, unidadID := uuid.New(), uuid.New()
	p := seedProducto(productoRepo, "Barniz Marino", 120)
	seedStock(invRepo, sucursalID, p, unidadID, 6)

	require.NoError(t, svc.ReservarTx(nil, sucursalID, p.ID, unidadID, 4, "reserva", nil, nil))
	require.NoError(t, svc.ConsumirReservaTx(nil, sucursalID, p.ID, unidadID, 4, "venta", nil, nil))

	actual, reservado := invRepo.stock(sucursalID, p.ID, unidadID)
	assert.Equal(t, 2, actual)
	assert.Equal(t, 0, reservado)
}

func TestAjustarStock_RechazaBajoReserva(t *testing.T) {
	svc, invRepo, productoRepo := buildInventarioSvc()
	sucursalID, unidadID := uuid.New(), uuid.New()
	p := seedProducto(productoRepo, "Anticorrosiva Gris", 180)
	seedStock(invRepo, sucursalID, p, unidadID, 10)
	require.NoError(t, svc.ReservarTx(nil, sucursalID, p.ID, unidadID, 6, "reserva", nil, nil))

	_, err := svc.AjustarStock(context.Background(), uuid.New(), sucursalID, p.ID, unidadID,
		dto.AjustarStockRequest{NuevoStock: 4, Motivo: "conteo físico"})
	assert.ErrorContains(t, err, "reservadas")

	resp, err := svc.AjustarStock(context.Background(), uuid.New(), sucursalID, p.ID, unidadID,
		dto.AjustarStockRequest{NuevoStock: 7, Motivo: "conteo físico"})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.StockActual)
}

func TestAjustarStock_RegistraMovimiento(t *testing.T) {
	svc, invRepo, productoRepo := buildInventarioSvc()
	sucursalID, unidadID := uuid.New(), uuid.New()
	p := seedProducto(productoRepo, "Sellador Acrílico", 60)
	seedStock(invRepo, sucursalID, p, unidadID, 12)

	usuarioID := uuid.New()
	_, err := svc.AjustarStock(context.Background(), usuarioID, sucursalID, p.ID, unidadID,
		dto.AjustarStockRequest{NuevoStock: 9, Motivo: "merma por derrame"})
	require.NoError(t, err)

	require.Len(t, invRepo.movimientos, 1)
	m := invRepo.movimientos[0]
	assert.Equal(t, MovAjusteManual, m.Tipo)
	assert.Equal(t, -3, m.Cantidad)
	assert.Equal(t, 12, m.StockAnterior)
	assert.Equal(t, 9, m.StockNuevo)
	assert.Equal(t, "merma por derrame", m.Motivo)
	require.NotNil(t, m.UsuarioID)
	assert.Equal(t, usuarioID, *m.UsuarioID)
}

func TestObtenerAlertas_StockBajoMinimo(t *testing.T) {
	svc, invRepo, productoRepo := buildInventarioSvc()
	sucursalID, unidadID := uuid.New(), uuid.New()

	bajo := seedProducto(productoRepo, "Látex Marfil", 140) // StockMinimo = 5
	sano := seedProducto(productoRepo, "Látex Celeste", 140)
	seedStock(invRepo, sucursalID, bajo, unidadID, 3)
	seedStock(invRepo, sucursalID, sano, unidadID, 40)

	alertas, err := svc.ObtenerAlertas(context.Background(), &sucursalID)
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, "Látex Marfil", alertas[0].Producto)
	assert.Equal(t, 3, alertas[0].StockActual)
}
