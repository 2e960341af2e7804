package router

import (
	"time"

	"paintpos/internal/config"
	"paintpos/internal/handler"
	"paintpos/internal/middleware"
	"paintpos/internal/repository"
	"paintpos/internal/service"
	"paintpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	ingresoRepo := repository.NewIngresoRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(categoriaRepo, sucursalRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, inventarioRepo, rdb)
	inventarioSvc := service.NewInventarioService(inventarioRepo, productoRepo)
	ingresoSvc := service.NewIngresoService(ingresoRepo, inventarioSvc, productoRepo, proveedorRepo)
	facturaSvc := service.NewFacturaService(facturaRepo, inventarioSvc, productoRepo, clienteRepo, dispatcher)
	cotizacionSvc := service.NewCotizacionService(cotizacionRepo, facturaRepo, inventarioSvc, productoRepo, clienteRepo, cfg.VigenciaDiasDefault)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	metodoPagoSvc := service.NewMetodoPagoService(facturaRepo)
	reporteSvc := service.NewReporteService(reporteRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ingresosH := handler.NewIngresosHandler(ingresoSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	cotizacionesH := handler.NewCotizacionesHandler(cotizacionSvc)
	tercerosH := handler.NewTercerosHandler(clienteSvc, proveedorSvc, metodoPagoSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	consultaH := handler.NewConsultaPrecioHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check kiosk — no auth required
	r.GET("/v1/precios/:codigo", consultaH.Consultar)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		lectura := middleware.RequireRole("cajero", "supervisor", "administrador")
		supervision := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// Facturación — cajeros venden, supervisores anulan
		v1.POST("/facturas", lectura, facturasH.Crear)
		v1.GET("/facturas", lectura, facturasH.Listar)
		v1.GET("/facturas/:id", lectura, facturasH.Obtener)
		v1.POST("/facturas/:id/pagos", lectura, facturasH.AgregarPago)
		v1.POST("/facturas/:id/anular", supervision, facturasH.Anular)

		// Cotizaciones
		v1.POST("/cotizaciones", lectura, cotizacionesH.Crear)
		v1.GET("/cotizaciones", lectura, cotizacionesH.Listar)
		v1.GET("/cotizaciones/:id", lectura, cotizacionesH.Obtener)
		v1.POST("/cotizaciones/:id/convertir", lectura, cotizacionesH.Convertir)
		v1.POST("/cotizaciones/:id/anular", supervision, cotizacionesH.Anular)

		// Productos — lectura para todos, escritura administrador
		v1.GET("/productos", lectura, productosH.Listar)
		v1.GET("/productos/:id", lectura, productosH.Obtener)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.POST("/:id/variaciones", productosH.CrearVariacion)
			prods.DELETE("/:id/variaciones/:variacionId", productosH.DesactivarVariacion)
		}

		// Inventario por sucursal
		v1.GET("/sucursales/:sucursalId/inventario", lectura, inventarioH.ListarPorSucursal)
		v1.PUT("/sucursales/:sucursalId/inventario/:productoId/:unidadId/ajuste", supervision, inventarioH.AjustarStock)
		v1.GET("/inventario/alertas", supervision, inventarioH.Alertas)
		v1.GET("/inventario/:id/movimientos", supervision, inventarioH.Movimientos)

		// Ingresos de mercadería
		ing := v1.Group("/ingresos", supervision)
		{
			ing.POST("", ingresosH.Crear)
			ing.GET("", ingresosH.Listar)
			ing.GET("/:id", ingresosH.Obtener)
			ing.POST("/:id/procesar", ingresosH.Procesar)
			ing.POST("/:id/anular", ingresosH.Anular)
		}

		// Clientes — cajeros los crean en caja
		v1.POST("/clientes", lectura, tercerosH.CrearCliente)
		v1.GET("/clientes", lectura, tercerosH.ListarClientes)
		v1.GET("/clientes/nit/:nit", lectura, tercerosH.ObtenerClientePorNIT)
		v1.GET("/clientes/:id", lectura, tercerosH.ObtenerCliente)
		v1.PUT("/clientes/:id", supervision, tercerosH.ActualizarCliente)
		v1.DELETE("/clientes/:id", admin, tercerosH.DesactivarCliente)

		prov := v1.Group("/proveedores", admin)
		{
			prov.POST("", tercerosH.CrearProveedor)
			prov.GET("", tercerosH.ListarProveedores)
			prov.GET("/:id", tercerosH.ObtenerProveedor)
			prov.PUT("/:id", tercerosH.ActualizarProveedor)
			prov.DELETE("/:id", tercerosH.DesactivarProveedor)
		}

		// Métodos de pago
		v1.GET("/metodos-pago", lectura, tercerosH.ListarMetodosPago)
		v1.POST("/metodos-pago", admin, tercerosH.CrearMetodoPago)

		// Catálogo base
		v1.GET("/categorias", lectura, catalogoH.ListarCategorias)
		v1.GET("/categorias/:id", lectura, catalogoH.ObtenerCategoria)
		v1.GET("/categorias/:id/unidades", lectura, catalogoH.ListarUnidades)
		cats := v1.Group("/categorias", admin)
		{
			cats.POST("", catalogoH.CrearCategoria)
			cats.PUT("/:id", catalogoH.ActualizarCategoria)
			cats.DELETE("/:id", catalogoH.DesactivarCategoria)
		}
		v1.POST("/unidades", admin, catalogoH.CrearUnidad)

		v1.GET("/sucursales", lectura, catalogoH.ListarSucursales)
		v1.GET("/sucursales/:sucursalId", lectura, catalogoH.ObtenerSucursal)
		v1.POST("/sucursales", admin, catalogoH.CrearSucursal)
		v1.DELETE("/sucursales/:sucursalId", admin, catalogoH.DesactivarSucursal)

		// Reportes
		rep := v1.Group("/reportes", supervision)
		{
			rep.GET("/ventas", reportesH.Ventas)
			rep.GET("/top-productos", reportesH.TopProductos)
			rep.GET("/valorizacion", reportesH.Valorizacion)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
