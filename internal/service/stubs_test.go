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

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories reproducing the guarded-update semantics of the real
// SQL layer. All tests run with DB() == nil, so runTx calls the closure with a
// nil transaction handle.

type invKey struct {
	sucursalID, productoID, unidadID uuid.UUID
}

type stubInventarioRepo struct {
	rows        map[uuid.UUID]*model.InventarioSucursal
	index       map[invKey]uuid.UUID
	movimientos []model.MovimientoInventario
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{
		rows:  make(map[uuid.UUID]*model.InventarioSucursal),
		index: make(map[invKey]uuid.UUID),
	}
}

func (r *stubInventarioRepo) DB() *gorm.DB { return nil }

func (r *stubInventarioRepo) ObtenerOCrearTx(_ *gorm.DB, sucursalID, productoID, unidadID uuid.UUID) (*model.InventarioSucursal, error) {
	k := invKey{sucursalID, productoID, unidadID}
	id, ok := r.index[k]
	if !ok {
		inv := &model.InventarioSucursal{
			ID:         uuid.New(),
			SucursalID: sucursalID,
			ProductoID: productoID,
			UnidadID:   unidadID,
		}
		r.rows[inv.ID] = inv
		r.index[k] = inv.ID
		id = inv.ID
	}
	// Return a copy: callers read the pre-mutation counters from it.
	cp := *r.rows[id]
	return &cp, nil
}

func (r *stubInventarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventarioSucursal, error) {
	inv, ok := r.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return inv, nil
}

func (r *stubInventarioRepo) Find(_ context.Context, sucursalID, productoID, unidadID uuid.UUID) (*model.InventarioSucursal, error) {
	id, ok := r.index[invKey{sucursalID, productoID, unidadID}]
	if !ok {
		return nil, errors.New("not found")
	}
	return r.rows[id], nil
}

func (r *stubInventarioRepo) List(_ context.Context, sucursalID uuid.UUID, _ dto.InventarioFilter) ([]model.InventarioSucursal, int64, error) {
	var out []model.InventarioSucursal
	for _, inv := range r.rows {
		if inv.SucursalID == sucursalID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInventarioRepo) ListStockBajo(_ context.Context, sucursalID *uuid.UUID) ([]model.InventarioSucursal, error) {
	var out []model.InventarioSucursal
	for _, inv := range r.rows {
		if sucursalID != nil && inv.SucursalID != *sucursalID {
			continue
		}
		if inv.Producto != nil && inv.EsStockBajo(inv.Producto.StockMinimo) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventarioRepo) AumentarTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	inv, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	inv.StockActual += cantidad
	return nil
}

func (r *stubInventarioRepo) DescontarTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	inv, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	if inv.StockActual-inv.StockReservado < cantidad {
		return repository.ErrStockInsuficiente
	}
	inv.StockActual -= cantidad
	return nil
}

func (r *stubInventarioRepo) ReservarTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	inv, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	if inv.StockActual-inv.StockReservado < cantidad {
		return repository.ErrStockInsuficiente
	}
	inv.StockReservado += cantidad
	return nil
}

func (r *stubInventarioRepo) LiberarReservaTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	inv, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	if inv.StockReservado < cantidad {
		return repository.ErrReservaInsuficiente
	}
	inv.StockReservado -= cantidad
	return nil
}

func (r *stubInventarioRepo) ConsumirReservaTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	inv, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	if inv.StockReservado < cantidad || inv.StockActual < cantidad {
		return repository.ErrReservaInsuficiente
	}
	inv.StockActual -= cantidad
	inv.StockReservado -= cantidad
	return nil
}

func (r *stubInventarioRepo) FijarStockTx(_ *gorm.DB, id uuid.UUID, nuevoStock int) error {
	inv, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	if inv.StockReservado > nuevoStock {
		return repository.ErrReservaInsuficiente
	}
	inv.StockActual = nuevoStock
	return nil
}

func (r *stubInventarioRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubInventarioRepo) ListMovimientos(_ context.Context, inventarioID uuid.UUID, _ int) ([]model.MovimientoInventario, error) {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.InventarioID == inventarioID {
			out = append(out, m)
		}
	}
	return out, nil
}

// stock returns the current counters for a ledger key, zero if the row was
// never touched.
func (r *stubInventarioRepo) stock(sucursalID, productoID, unidadID uuid.UUID) (actual, reservado int) {
	id, ok := r.index[invKey{sucursalID, productoID, unidadID}]
	if !ok {
		return 0, 0
	}
	return r.rows[id].StockActual, r.rows[id].StockReservado
}

var _ repository.InventarioRepository = (*stubInventarioRepo)(nil)

// ── Producto ──────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos   map[uuid.UUID]*model.Producto
	variaciones []*model.Variacion
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) CrearVariacion(_ context.Context, v *model.Variacion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variaciones = append(r.variaciones, v)
	return nil
}

func (r *stubProductoRepo) FindVariacion(_ context.Context, productoID, unidadID uuid.UUID) (*model.Variacion, error) {
	for _, v := range r.variaciones {
		if v.ProductoID == productoID && v.UnidadID == unidadID && v.Activo {
			return v, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductoRepo) FindVariacionPorCodigo(_ context.Context, codigo string) (*model.Variacion, error) {
	for _, v := range r.variaciones {
		if v.Codigo == codigo && v.Activo {
			return v, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductoRepo) ListVariaciones(_ context.Context, productoID uuid.UUID) ([]model.Variacion, error) {
	var out []model.Variacion
	for _, v := range r.variaciones {
		if v.ProductoID == productoID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) DesactivarVariacion(_ context.Context, id uuid.UUID) error {
	for _, v := range r.variaciones {
		if v.ID == id {
			v.Activo = false
		}
	}
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Factura ───────────────────────────────────────────────────────────────────

type stubFacturaRepo struct {
	facturas map[uuid.UUID]*model.Factura
	series   map[uuid.UUID]*model.SerieFactura // keyed by sucursalID
	metodos  map[uuid.UUID]*model.MetodoPago
	pagos    []model.PagoFactura // rows inserted via CreatePagoTx
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{
		facturas: make(map[uuid.UUID]*model.Factura),
		series:   make(map[uuid.UUID]*model.SerieFactura),
		metodos:  make(map[uuid.UUID]*model.MetodoPago),
	}
}

func (r *stubFacturaRepo) DB() *gorm.DB { return nil }

func (r *stubFacturaRepo) Create(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	r.facturas[f.ID] = f
	return nil
}

func (r *stubFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return f, nil
}

func (r *stubFacturaRepo) List(_ context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if filter.Estado != "" && filter.Estado != "all" && f.Estado != filter.Estado {
			continue
		}
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (r *stubFacturaRepo) UpdateTx(_ *gorm.DB, f *model.Factura) error {
	r.facturas[f.ID] = f
	return nil
}

func (r *stubFacturaRepo) CreatePagoTx(_ *gorm.DB, p *model.PagoFactura) error {
	if _, ok := r.facturas[p.FacturaID]; !ok {
		return errors.New("not found")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubFacturaRepo) NextCorrelativoTx(_ *gorm.DB, sucursalID uuid.UUID) (uuid.UUID, int64, error) {
	s, ok := r.series[sucursalID]
	if !ok || !s.Activo {
		return uuid.Nil, 0, repository.ErrSerieNoActiva
	}
	s.CorrelativoActual++
	return s.ID, s.CorrelativoActual, nil
}

func (r *stubFacturaRepo) FindSerieActiva(_ context.Context, sucursalID uuid.UUID) (*model.SerieFactura, error) {
	s, ok := r.series[sucursalID]
	if !ok || !s.Activo {
		return nil, repository.ErrSerieNoActiva
	}
	return s, nil
}

func (r *stubFacturaRepo) CrearSerie(_ context.Context, s *model.SerieFactura) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.series[s.SucursalID] = s
	return nil
}

func (r *stubFacturaRepo) FindMetodoPago(_ context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	m, ok := r.metodos[id]
	if !ok || !m.Activo {
		return nil, errors.New("not found")
	}
	return m, nil
}

func (r *stubFacturaRepo) ListMetodosPago(_ context.Context) ([]model.MetodoPago, error) {
	var out []model.MetodoPago
	for _, m := range r.metodos {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubFacturaRepo) CrearMetodoPago(_ context.Context, m *model.MetodoPago) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.metodos[m.ID] = m
	return nil
}

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

// ── Cotización ────────────────────────────────────────────────────────────────

type stubCotizacionRepo struct {
	cots      map[uuid.UUID]*model.Cotizacion
	contadores map[string]int64
}

func newStubCotizacionRepo() *stubCotizacionRepo {
	return &stubCotizacionRepo{
		cots:       make(map[uuid.UUID]*model.Cotizacion),
		contadores: make(map[string]int64),
	}
}

func (r *stubCotizacionRepo) DB() *gorm.DB { return nil }

func (r *stubCotizacionRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cotizacion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.cots[c.ID] = c
	return nil
}

func (r *stubCotizacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	c, ok := r.cots[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCotizacionRepo) List(_ context.Context, filter dto.CotizacionFilter) ([]model.Cotizacion, int64, error) {
	var out []model.Cotizacion
	for _, c := range r.cots {
		if filter.Estado != "" && filter.Estado != "all" && c.Estado != filter.Estado {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCotizacionRepo) UpdateTx(_ *gorm.DB, c *model.Cotizacion) error {
	r.cots[c.ID] = c
	return nil
}

func (r *stubCotizacionRepo) NextNumeroTx(_ *gorm.DB, periodo string) (int64, error) {
	r.contadores[periodo]++
	return r.contadores[periodo], nil
}

func (r *stubCotizacionRepo) ListVencibles(_ context.Context, cutoff time.Time, limit int) ([]model.Cotizacion, error) {
	var out []model.Cotizacion
	for _, c := range r.cots {
		if len(out) >= limit {
			break
		}
		if c.Estado == model.CotizacionActiva && c.CreatedAt.AddDate(0, 0, c.VigenciaDias).Before(cutoff) {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CotizacionRepository = (*stubCotizacionRepo)(nil)

// ── Ingreso ───────────────────────────────────────────────────────────────────

type stubIngresoRepo struct {
	ingresos map[uuid.UUID]*model.IngresoInventario
}

func newStubIngresoRepo() *stubIngresoRepo {
	return &stubIngresoRepo{ingresos: make(map[uuid.UUID]*model.IngresoInventario)}
}

func (r *stubIngresoRepo) DB() *gorm.DB { return nil }

func (r *stubIngresoRepo) Create(_ context.Context, i *model.IngresoInventario) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.ingresos[i.ID] = i
	return nil
}

func (r *stubIngresoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.IngresoInventario, error) {
	i, ok := r.ingresos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return i, nil
}

func (r *stubIngresoRepo) List(_ context.Context, _ dto.IngresoFilter) ([]model.IngresoInventario, int64, error) {
	var out []model.IngresoInventario
	for _, i := range r.ingresos {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (r *stubIngresoRepo) UpdateTx(_ *gorm.DB, i *model.IngresoInventario) error {
	r.ingresos[i.ID] = i
	return nil
}

var _ repository.IngresoRepository = (*stubIngresoRepo)(nil)

// ── Terceros ──────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Crear(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Listar(_ context.Context, _ string) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubClienteRepo) ObtenerPorNIT(_ context.Context, nit string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.NIT == nit {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubClienteRepo) Actualizar(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Crear(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) Listar(_ context.Context) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProveedorRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProveedorRepo) Actualizar(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.proveedores[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
	unidades   map[uuid.UUID]*model.UnidadMedida
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{
		categorias: make(map[uuid.UUID]*model.Categoria),
		unidades:   make(map[uuid.UUID]*model.UnidadMedida),
	}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.categorias[id]; ok {
		c.Activo = false
	}
	return nil
}

func (r *stubCategoriaRepo) CrearUnidad(_ context.Context, u *model.UnidadMedida) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.unidades[u.ID] = u
	return nil
}

func (r *stubCategoriaRepo) ListarUnidades(_ context.Context, categoriaID uuid.UUID) ([]model.UnidadMedida, error) {
	var out []model.UnidadMedida
	for _, u := range r.unidades {
		if u.CategoriaID == categoriaID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerUnidad(_ context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	u, ok := r.unidades[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

var seedSeq int

func seedProducto(repo *stubProductoRepo, nombre string, precioBase float64) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		CategoriaID: uuid.New(),
		Nombre:      nombre,
		Marca:       "Genérica",
		PrecioBase:  decimal.NewFromFloat(precioBase),
		StockMinimo: 5,
		Activo:      true,
	}
	repo.productos[p.ID] = p
	return p
}

func seedStock(repo *stubInventarioRepo, sucursalID uuid.UUID, p *model.Producto, unidadID uuid.UUID, actual int) {
	inv, _ := repo.ObtenerOCrearTx(nil, sucursalID, p.ID, unidadID)
	repo.rows[inv.ID].StockActual = actual
	repo.rows[inv.ID].Producto = p
}

func seedCliente(repo *stubClienteRepo) *model.Cliente {
	seedSeq++
	c := &model.Cliente{
		ID:     uuid.New(),
		Nombre: "Cliente Prueba",
		NIT:    fmt.Sprintf("1234567-%d", seedSeq),
		Activo: true,
	}
	repo.clientes[c.ID] = c
	return c
}

func seedSerie(repo *stubFacturaRepo, sucursalID uuid.UUID) *model.SerieFactura {
	s := &model.SerieFactura{
		ID:         uuid.New(),
		SucursalID: sucursalID,
		Letra:      "A",
		Activo:     true,
	}
	repo.series[sucursalID] = s
	return s
}

func seedMetodoPago(repo *stubFacturaRepo, nombre string, requiereRef bool) *model.MetodoPago {
	m := &model.MetodoPago{
		ID:                 uuid.New(),
		Nombre:             nombre,
		RequiereReferencia: requiereRef,
		Activo:             true,
	}
	repo.metodos[m.ID] = m
	return m
}
