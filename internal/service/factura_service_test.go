package service

import (
	"context"
	"testing"

	"paintpos/internal/dto"
	"paintpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type facturaFixture struct {
	svc          FacturaService
	facturaRepo  *stubFacturaRepo
	invRepo      *stubInventarioRepo
	productoRepo *stubProductoRepo
	clienteRepo  *stubClienteRepo
	sucursalID   uuid.UUID
	unidadID     uuid.UUID
	cliente      *model.Cliente
	efectivo     *model.MetodoPago
	tarjeta      *model.MetodoPago
}

func buildFacturaFixture(t *testing.T) *facturaFixture {
	t.Helper()
	facturaRepo := newStubFacturaRepo()
	invRepo := newStubInventarioRepo()
	productoRepo := newStubProductoRepo()
	clienteRepo := newStubClienteRepo()
	inventarioSvc := NewInventarioService(invRepo, productoRepo)

	f := &facturaFixture{
		svc:          NewFacturaService(facturaRepo, inventarioSvc, productoRepo, clienteRepo, nil),
		facturaRepo:  facturaRepo,
		invRepo:      invRepo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		sucursalID:   uuid.New(),
		unidadID:     uuid.New(),
		cliente:      seedCliente(clienteRepo),
		efectivo:     seedMetodoPago(facturaRepo, "Efectivo", false),
		tarjeta:      seedMetodoPago(facturaRepo, "Tarjeta", true),
	}
	seedSerie(facturaRepo, f.sucursalID)
	return f
}

func TestSubtotalLinea_DescuentoPorcentual(t *testing.T) {
	// 2 × 100.00 con 10% de descuento = 180.00
	got := subtotalLinea(2, decimal.NewFromInt(100), decimal.NewFromInt(10))
	assert.Equal(t, "180", got.String())

	// 3 × 33.33 sin descuento = 99.99
	got = subtotalLinea(3, decimal.NewFromFloat(33.33), decimal.Zero)
	assert.Equal(t, "99.99", got.String())
}

func TestCrearFactura_DescuentaStockYNumera(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Látex Blanco Galón", 100)
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 20)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 2, DescuentoPct: decimal.NewFromInt(10)},
		},
		Pagos: []dto.PagoFacturaRequest{
			{MetodoPagoID: f.efectivo.ID.String(), Monto: decimal.NewFromInt(180)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "A00000001", resp.Numero)
	assert.Equal(t, "180", resp.Total.String())
	assert.True(t, resp.Pagada)

	actual, _ := f.invRepo.stock(f.sucursalID, p.ID, f.unidadID)
	assert.Equal(t, 18, actual)

	// A venta movement per line, negative quantity.
	require.Len(t, f.invRepo.movimientos, 1)
	assert.Equal(t, MovVenta, f.invRepo.movimientos[0].Tipo)
	assert.Equal(t, -2, f.invRepo.movimientos[0].Cantidad)
}

func TestCrearFactura_CorrelativoConsecutivo(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Rodillo 9\"", 35)
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 50)

	req := dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 1},
		},
	}
	r1, err := f.svc.Crear(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	r2, err := f.svc.Crear(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	assert.Equal(t, "A00000001", r1.Numero)
	assert.Equal(t, "A00000002", r2.Numero)
}

func TestCrearFactura_PrecioDeVariacion(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Látex Blanco", 150) // precio base galón
	cuarto := uuid.New()
	f.productoRepo.variaciones = append(f.productoRepo.variaciones, &model.Variacion{
		ID: uuid.New(), ProductoID: p.ID, UnidadID: cuarto,
		Codigo: "7401000000017", PrecioVenta: decimal.NewFromInt(45), Activo: true,
	})
	seedStock(f.invRepo, f.sucursalID, p, cuarto, 10)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: cuarto.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "90", resp.Total.String())
}

func TestCrearFactura_StockInsuficienteAbortaTodo(t *testing.T) {
	f := buildFacturaFixture(t)
	conStock := seedProducto(f.productoRepo, "Brocha 3\"", 25)
	sinStock := seedProducto(f.productoRepo, "Esmalte Rojo", 110)
	seedStock(f.invRepo, f.sucursalID, conStock, f.unidadID, 30)
	seedStock(f.invRepo, f.sucursalID, sinStock, f.unidadID, 1)

	_, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: conStock.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 2},
			{ProductoID: sinStock.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 5},
		},
	})
	assert.ErrorContains(t, err, "stock insuficiente para Esmalte Rojo")
}

func TestCrearFactura_ReferenciaObligatoria(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Thinner Litro", 18)
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 10)

	req := dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 1},
		},
		Pagos: []dto.PagoFacturaRequest{
			{MetodoPagoID: f.tarjeta.ID.String(), Monto: decimal.NewFromInt(18)},
		},
	}
	_, err := f.svc.Crear(context.Background(), uuid.New(), req)
	assert.ErrorContains(t, err, "requiere número de referencia")

	// Stock untouched: validation failed before the transaction opened.
	actual, _ := f.invRepo.stock(f.sucursalID, p.ID, f.unidadID)
	assert.Equal(t, 10, actual)

	ref := "AUTH-9921"
	req.Pagos[0].Referencia = &ref
	_, err = f.svc.Crear(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
}

func TestCrearFactura_ProductoInactivo(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Removedor Descontinuado", 40)
	p.Activo = false
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 5)

	_, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 1},
		},
	})
	assert.ErrorContains(t, err, "inactivo")
}

func TestAnularFactura_RestauraStockYCeraTotal(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Látex Gris Perla", 130)
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 15)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 4},
		},
	})
	require.NoError(t, err)
	actual, _ := f.invRepo.stock(f.sucursalID, p.ID, f.unidadID)
	require.Equal(t, 11, actual)

	supervisorID := uuid.New()
	anulada, err := f.svc.Anular(context.Background(), uuid.MustParse(resp.ID), supervisorID, "error de digitación")
	require.NoError(t, err)

	assert.Equal(t, model.FacturaAnulada, anulada.Estado)
	assert.True(t, anulada.Total.IsZero())
	// Lines keep the historical amounts.
	assert.Equal(t, "520", anulada.Detalles[0].Subtotal.String())

	actual, _ = f.invRepo.stock(f.sucursalID, p.ID, f.unidadID)
	assert.Equal(t, 15, actual)

	stored, _ := f.facturaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NotNil(t, stored.AnuladaAt)
	require.NotNil(t, stored.MotivoAnulacion)
	assert.Equal(t, "error de digitación", *stored.MotivoAnulacion)
}

func TestAnularFactura_DobleAnulacionNoRestauraDosVeces(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Esmalte Azul", 85)
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 10)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 3},
		},
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	_, err = f.svc.Anular(context.Background(), id, uuid.New(), "cliente desistió")
	require.NoError(t, err)

	_, err = f.svc.Anular(context.Background(), id, uuid.New(), "reintento")
	assert.ErrorContains(t, err, "ya está anulada")

	actual, _ := f.invRepo.stock(f.sucursalID, p.ID, f.unidadID)
	assert.Equal(t, 10, actual)
}

func TestAgregarPago_SoloFacturasActivas(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Látex Beige", 100)
	seedStock(f.invRepo, f.sucursalID, p, f.unidadID, 10)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: f.sucursalID.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 2},
		},
		Pagos: []dto.PagoFacturaRequest{
			{MetodoPagoID: f.efectivo.ID.String(), Monto: decimal.NewFromInt(150)},
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.Pagada) // 150 de 200

	id := uuid.MustParse(resp.ID)
	conPago, err := f.svc.AgregarPago(context.Background(), id, dto.PagoFacturaRequest{
		MetodoPagoID: f.efectivo.ID.String(), Monto: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, conPago.Pagada)

	_, err = f.svc.Anular(context.Background(), id, uuid.New(), "devolución")
	require.NoError(t, err)
	_, err = f.svc.AgregarPago(context.Background(), id, dto.PagoFacturaRequest{
		MetodoPagoID: f.efectivo.ID.String(), Monto: decimal.NewFromInt(10),
	})
	assert.ErrorContains(t, err, "anulada")
}

func TestCrearFactura_SinSerieActiva(t *testing.T) {
	f := buildFacturaFixture(t)
	p := seedProducto(f.productoRepo, "Látex Verde", 100)
	otraSucursal := uuid.New() // sin serie
	seedStock(f.invRepo, otraSucursal, p, f.unidadID, 10)

	_, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearFacturaRequest{
		SucursalID: otraSucursal.String(),
		ClienteID:  f.cliente.ID.String(),
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: p.ID.String(), UnidadID: f.unidadID.String(), Cantidad: 1},
		},
	})
	assert.ErrorContains(t, err, "serie de facturación activa")
}
