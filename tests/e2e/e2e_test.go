//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"paintpos/internal/config"
	"paintpos/internal/infra"
	"paintpos/internal/router"
	"paintpos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type idResp struct {
	ID string `json:"id"`
}

func createJSON(t *testing.T, env *testEnv, path string, body any) string {
	t.Helper()
	resp := do(t, env.server, "POST", path, jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "POST %s", path)
	var out idResp
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.ID)
	return out.ID
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	engine *gin.Engine

	sucursalID  string
	categoriaID string
	unidadID    string
	clienteID   string
	efectivoID  string
	productoID  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("paintpos_test"),
		tcPostgres.WithUsername("paintpos"),
		tcPostgres.WithPassword("paintpos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTExpirationHours:  8,
		JWTRefreshHours:     24,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		WorkerPoolSize:      1,
		PDFStoragePath:      t.TempDir(),
		EmpresaNombre:       "PaintPOS Test",
		VigenciaDiasDefault: 15,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("paintpos2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		 VALUES (gen_random_uuid(), 'admin@e2e.test', 'Admin E2E', ?, 'administrador', true, NOW(), NOW())
		 ON CONFLICT DO NOTHING`, string(hash)).Error)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "paintpos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	env := &testEnv{server: srv, token: loginBody.AccessToken, engine: r}

	// Base catalog every scenario needs: branch + serie, paint category with a
	// unit, one paint product with a gallon variation, a customer and cash.
	env.sucursalID = createJSON(t, env, "/v1/sucursales", map[string]any{
		"nombre": "Sucursal E2E", "direccion": "Zona 1",
	})
	require.NoError(t, db.Exec(
		`INSERT INTO series_factura (id, sucursal_id, letra, correlativo_actual, activo, created_at, updated_at)
		 VALUES (gen_random_uuid(), ?, 'A', 0, true, NOW(), NOW())`, env.sucursalID).Error)

	env.categoriaID = createJSON(t, env, "/v1/categorias", map[string]any{
		"nombre": "Pinturas", "requiere_medidas": true,
	})
	env.unidadID = createJSON(t, env, "/v1/unidades", map[string]any{
		"categoria_id": env.categoriaID, "nombre": "Galón", "abreviatura": "gal", "factor_conversion": 1,
	})
	env.productoID = createJSON(t, env, "/v1/productos", map[string]any{
		"categoria_id": env.categoriaID,
		"nombre":       "Látex Interior Blanco",
		"marca":        "Corona",
		"precio_base":  145.0,
		"stock_minimo": 4,
		"detalle_pintura": map[string]any{
			"color": "Blanco", "tipo_pintura": "latex", "acabado": "mate",
		},
	})
	createJSON(t, env, "/v1/productos/"+env.productoID+"/variaciones", map[string]any{
		"unidad_id": env.unidadID, "codigo": "LAT-BL-GAL", "precio_venta": 160.0,
	})
	env.clienteID = createJSON(t, env, "/v1/clientes", map[string]any{
		"nombre": "Consumidor Final", "nit": "CF",
	})
	env.efectivoID = createJSON(t, env, "/v1/metodos-pago", map[string]any{
		"nombre": "Efectivo",
	})

	// Stock inicial: 20 galones
	ajuste := do(t, srv, "PUT",
		fmt.Sprintf("/v1/sucursales/%s/inventario/%s/%s/ajuste", env.sucursalID, env.productoID, env.unidadID),
		jsonBody(t, map[string]any{"nuevo_stock": 20, "motivo": "carga inicial e2e"}),
		env.token)
	require.Equal(t, http.StatusOK, ajuste.StatusCode)

	return env
}

func (env *testEnv) stockActual(t *testing.T) (actual, reservado int) {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/sucursales/"+env.sucursalID+"/inventario", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Data []struct {
			ProductoID     string `json:"producto_id"`
			StockActual    int    `json:"stock_actual"`
			StockReservado int    `json:"stock_reservado"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &list)
	for _, row := range list.Data {
		if row.ProductoID == env.productoID {
			return row.StockActual, row.StockReservado
		}
	}
	t.Fatalf("producto %s sin fila de inventario", env.productoID)
	return 0, 0
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Venta directa: factura numerada, pagada, stock descontado.
func TestE2E_VentaDirecta(t *testing.T) {
	env := setupTestEnv(t)

	ventaResp := do(t, env.server, "POST", "/v1/facturas",
		jsonBody(t, map[string]any{
			"sucursal_id": env.sucursalID,
			"cliente_id":  env.clienteID,
			"detalles": []map[string]any{
				{"producto_id": env.productoID, "unidad_id": env.unidadID, "cantidad": 2},
			},
			"pagos": []map[string]any{
				{"metodo_pago_id": env.efectivoID, "monto": 320.0},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var factura struct {
		ID     string `json:"id"`
		Numero string `json:"numero"`
		Total  string `json:"total"`
		Estado string `json:"estado"`
		Pagada bool   `json:"pagada"`
	}
	decodeJSON(t, ventaResp, &factura)
	assert.Equal(t, "A00000001", factura.Numero)
	assert.Equal(t, "320", factura.Total)
	assert.Equal(t, "activa", factura.Estado)
	assert.True(t, factura.Pagada)

	actual, _ := env.stockActual(t)
	assert.Equal(t, 18, actual)

	// Anular restaura el stock y deja el total en cero.
	anularResp := do(t, env.server, "POST", "/v1/facturas/"+factura.ID+"/anular",
		jsonBody(t, map[string]any{"motivo": "error de captura e2e"}), env.token)
	require.Equal(t, http.StatusOK, anularResp.StatusCode)
	var anulada struct {
		Estado string `json:"estado"`
		Total  string `json:"total"`
	}
	decodeJSON(t, anularResp, &anulada)
	assert.Equal(t, "anulada", anulada.Estado)
	assert.Equal(t, "0", anulada.Total)

	actual, _ = env.stockActual(t)
	assert.Equal(t, 20, actual)
}

// Cotización → conversión: la reserva bloquea disponible y se consume al facturar.
func TestE2E_CotizacionConvertida(t *testing.T) {
	env := setupTestEnv(t)

	cotResp := do(t, env.server, "POST", "/v1/cotizaciones",
		jsonBody(t, map[string]any{
			"sucursal_id": env.sucursalID,
			"cliente_id":  env.clienteID,
			"detalles": []map[string]any{
				{"producto_id": env.productoID, "unidad_id": env.unidadID, "cantidad": 5},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, cotResp.StatusCode)
	var cot struct {
		ID      string `json:"id"`
		Numero  string `json:"numero"`
		Vigente bool   `json:"vigente"`
	}
	decodeJSON(t, cotResp, &cot)
	assert.Contains(t, cot.Numero, "COT-")
	assert.True(t, cot.Vigente)

	actual, reservado := env.stockActual(t)
	assert.Equal(t, 20, actual)
	assert.Equal(t, 5, reservado)

	convResp := do(t, env.server, "POST", "/v1/cotizaciones/"+cot.ID+"/convertir",
		jsonBody(t, map[string]any{
			"pagos": []map[string]any{
				{"metodo_pago_id": env.efectivoID, "monto": 800.0},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, convResp.StatusCode)
	var factura struct {
		Numero       string  `json:"numero"`
		CotizacionID *string `json:"cotizacion_id"`
		Pagada       bool    `json:"pagada"`
	}
	decodeJSON(t, convResp, &factura)
	assert.Equal(t, "A00000001", factura.Numero)
	require.NotNil(t, factura.CotizacionID)
	assert.Equal(t, cot.ID, *factura.CotizacionID)
	assert.True(t, factura.Pagada)

	actual, reservado = env.stockActual(t)
	assert.Equal(t, 15, actual)
	assert.Equal(t, 0, reservado)

	// La segunda conversión debe rechazarse.
	again := do(t, env.server, "POST", "/v1/cotizaciones/"+cot.ID+"/convertir",
		jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
}

// Ingreso de mercadería: pendiente no toca stock, procesar lo suma.
func TestE2E_IngresoProcesado(t *testing.T) {
	env := setupTestEnv(t)

	proveedorID := createJSON(t, env, "/v1/proveedores", map[string]any{
		"razon_social": "Pinturas del Norte S.A.", "nit": "7712345-6",
	})
	ingresoID := createJSON(t, env, "/v1/ingresos", map[string]any{
		"sucursal_id":      env.sucursalID,
		"proveedor_id":     proveedorID,
		"numero_documento": "FAC-PROV-001",
		"detalles": []map[string]any{
			{"producto_id": env.productoID, "unidad_id": env.unidadID, "cantidad": 10, "costo_unitario": 98.0},
		},
	})

	actual, _ := env.stockActual(t)
	assert.Equal(t, 20, actual, "pendiente no debe tocar stock")

	procResp := do(t, env.server, "POST", "/v1/ingresos/"+ingresoID+"/procesar", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, procResp.StatusCode)

	actual, _ = env.stockActual(t)
	assert.Equal(t, 30, actual)

	// Re-procesar es un conflicto.
	again := do(t, env.server, "POST", "/v1/ingresos/"+ingresoID+"/procesar", jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
}

// Consulta de precio pública por código de variación.
func TestE2E_ConsultaPrecioPublica(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET",
		"/v1/precios/LAT-BL-GAL?sucursal_id="+env.sucursalID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var precio struct {
		Producto        string `json:"producto"`
		PrecioVenta     string `json:"precio_venta"`
		StockDisponible int    `json:"stock_disponible"`
	}
	decodeJSON(t, resp, &precio)
	assert.Equal(t, "Látex Interior Blanco", precio.Producto)
	assert.Equal(t, "160", precio.PrecioVenta)
	assert.Equal(t, 20, precio.StockDisponible)
}
