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

type productoFixture struct {
	svc           ProductoService
	productoRepo  *stubProductoRepo
	categoriaRepo *stubCategoriaRepo
	invRepo       *stubInventarioRepo
	pinturas      *model.Categoria
	accesorios    *model.Categoria
	galon         *model.UnidadMedida
}

func buildProductoFixture(t *testing.T) *productoFixture {
	t.Helper()
	productoRepo := newStubProductoRepo()
	categoriaRepo := newStubCategoriaRepo()
	invRepo := newStubInventarioRepo()

	pinturas := &model.Categoria{Nombre: "Pinturas", RequiereMedidas: true, Activo: true}
	accesorios := &model.Categoria{Nombre: "Accesorios", Activo: true}
	require.NoError(t, categoriaRepo.Crear(context.Background(), pinturas))
	require.NoError(t, categoriaRepo.Crear(context.Background(), accesorios))

	galon := &model.UnidadMedida{CategoriaID: pinturas.ID, Nombre: "Galón", Activo: true}
	require.NoError(t, categoriaRepo.CrearUnidad(context.Background(), galon))

	// nil redis: cache misses every time, which is what unit tests want.
	return &productoFixture{
		svc:           NewProductoService(productoRepo, categoriaRepo, invRepo, nil),
		productoRepo:  productoRepo,
		categoriaRepo: categoriaRepo,
		invRepo:       invRepo,
		pinturas:      pinturas,
		accesorios:    accesorios,
		galon:         galon,
	}
}

func pinturaRequest(categoriaID uuid.UUID) dto.CrearProductoRequest {
	return dto.CrearProductoRequest{
		CategoriaID: categoriaID.String(),
		Nombre:      "Látex Interior Blanco",
		Marca:       "Corona",
		PrecioBase:  decimal.NewFromInt(145),
		StockMinimo: 4,
		DetallePintura: &dto.DetallePinturaRequest{
			Color:       "Blanco",
			TipoPintura: "latex",
		},
	}
}

func TestCrearProducto_PinturaRequiereSuDetalle(t *testing.T) {
	f := buildProductoFixture(t)

	resp, err := f.svc.Crear(context.Background(), pinturaRequest(f.pinturas.ID))
	require.NoError(t, err)
	assert.Equal(t, model.DetallePinturaTipo, resp.TipoDetalle)
	require.NotNil(t, resp.DetallePintura)
	assert.Equal(t, "latex", resp.DetallePintura.TipoPintura)

	// Same category without the paint detail is rejected.
	req := pinturaRequest(f.pinturas.ID)
	req.DetallePintura = nil
	_, err = f.svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "requiere detalle de pintura")
}

func TestCrearProducto_DetalleEquivocadoParaCategoria(t *testing.T) {
	f := buildProductoFixture(t)

	// Paint detail on an accessory category.
	req := pinturaRequest(f.accesorios.ID)
	_, err := f.svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "no admite detalle de pintura")

	// Accessory detail on a paint category.
	material := "nylon"
	_, err = f.svc.Crear(context.Background(), dto.CrearProductoRequest{
		CategoriaID:      f.pinturas.ID.String(),
		Nombre:           "Brocha 4\"",
		Marca:            "Truper",
		PrecioBase:       decimal.NewFromInt(25),
		DetalleAccesorio: &dto.DetalleAccesorioRequest{Material: &material},
	})
	assert.ErrorContains(t, err, "no de accesorio")
}

func TestCrearProducto_AmbosDetallesRechazado(t *testing.T) {
	f := buildProductoFixture(t)

	req := pinturaRequest(f.pinturas.ID)
	material := "nylon"
	req.DetalleAccesorio = &dto.DetalleAccesorioRequest{Material: &material}
	_, err := f.svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "a la vez")
}

func TestCrearProducto_AccesorioSinDetalleEsValido(t *testing.T) {
	f := buildProductoFixture(t)

	resp, err := f.svc.Crear(context.Background(), dto.CrearProductoRequest{
		CategoriaID: f.accesorios.ID.String(),
		Nombre:      "Cinta de Enmascarar",
		Marca:       "3M",
		PrecioBase:  decimal.NewFromInt(18),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DetalleNinguno, resp.TipoDetalle)
	assert.Nil(t, resp.DetalleAccesorio)
}

func TestCrearVariacion_UnicidadPorUnidadYCodigo(t *testing.T) {
	f := buildProductoFixture(t)
	resp, err := f.svc.Crear(context.Background(), pinturaRequest(f.pinturas.ID))
	require.NoError(t, err)
	productoID := uuid.MustParse(resp.ID)

	v, err := f.svc.CrearVariacion(context.Background(), productoID, dto.CrearVariacionRequest{
		UnidadID:    f.galon.ID.String(),
		Codigo:      "LAT-BL-GAL",
		PrecioVenta: decimal.NewFromInt(160),
	})
	require.NoError(t, err)
	assert.True(t, v.Activo)

	// Second variation for the same unit.
	_, err = f.svc.CrearVariacion(context.Background(), productoID, dto.CrearVariacionRequest{
		UnidadID:    f.galon.ID.String(),
		Codigo:      "LAT-BL-GAL-2",
		PrecioVenta: decimal.NewFromInt(160),
	})
	assert.ErrorContains(t, err, "ya existe una variación")

	// Reusing the code on another product.
	otro, err := f.svc.Crear(context.Background(), pinturaRequest(f.pinturas.ID))
	require.NoError(t, err)
	_, err = f.svc.CrearVariacion(context.Background(), uuid.MustParse(otro.ID), dto.CrearVariacionRequest{
		UnidadID:    f.galon.ID.String(),
		Codigo:      "LAT-BL-GAL",
		PrecioVenta: decimal.NewFromInt(155),
	})
	assert.ErrorContains(t, err, "ya está en uso")
}

func TestConsultaPrecio_DevuelveDisponible(t *testing.T) {
	f := buildProductoFixture(t)
	sucursalID := uuid.New()

	p := seedProducto(f.productoRepo, "Esmalte Rojo Óxido", 92)
	v := &model.Variacion{
		ProductoID:  p.ID,
		UnidadID:    f.galon.ID,
		Codigo:      "ESM-RO-GAL",
		PrecioVenta: decimal.NewFromInt(98),
		Activo:      true,
		Producto:    p,
		Unidad:      f.galon,
	}
	require.NoError(t, f.productoRepo.CrearVariacion(context.Background(), v))
	seedStock(f.invRepo, sucursalID, p, f.galon.ID, 12)

	// Part of the stock is reserved; only the difference is sellable.
	require.NoError(t, NewInventarioService(f.invRepo, f.productoRepo).
		ReservarTx(nil, sucursalID, p.ID, f.galon.ID, 5, "reserva", nil, nil))

	resp, err := f.svc.ConsultaPrecio(context.Background(), "ESM-RO-GAL", sucursalID)
	require.NoError(t, err)
	assert.Equal(t, "Esmalte Rojo Óxido", resp.Producto)
	assert.Equal(t, "Galón", resp.Unidad)
	assert.Equal(t, "98", resp.PrecioVenta.String())
	assert.Equal(t, 7, resp.StockDisponible)
}

func TestConsultaPrecio_CodigoDesconocidoOInactivo(t *testing.T) {
	f := buildProductoFixture(t)

	_, err := f.svc.ConsultaPrecio(context.Background(), "NO-EXISTE", uuid.New())
	assert.ErrorContains(t, err, "código no encontrado")

	p := seedProducto(f.productoRepo, "Descontinuado", 10)
	p.Activo = false
	v := &model.Variacion{
		ProductoID:  p.ID,
		UnidadID:    f.galon.ID,
		Codigo:      "DESC-01",
		PrecioVenta: decimal.NewFromInt(10),
		Activo:      true,
		Producto:    p,
	}
	require.NoError(t, f.productoRepo.CrearVariacion(context.Background(), v))

	_, err = f.svc.ConsultaPrecio(context.Background(), "DESC-01", uuid.New())
	assert.ErrorContains(t, err, "producto inactivo")
}
