package infra

import (
	"fmt"

	"paintpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate for
// every table, then applies idempotent SQL patches for the constraints GORM
// cannot express (CHECK constraints on the stock counters, mainly).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.UnidadMedida{},
		&model.Producto{},
		&model.DetallePintura{},
		&model.DetalleAccesorio{},
		&model.Variacion{},
		&model.Sucursal{},
		&model.Cliente{},
		&model.Proveedor{},
		&model.Usuario{},
		&model.InventarioSucursal{},
		&model.MovimientoInventario{},
		&model.IngresoInventario{},
		&model.DetalleIngreso{},
		&model.SerieFactura{},
		&model.MetodoPago{},
		&model.Factura{},
		&model.DetalleFactura{},
		&model.PagoFactura{},
		&model.Cotizacion{},
		&model.DetalleCotizacion{},
		&model.SecuenciaCotizacion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce. The
// CHECK constraints are the database-level backstop for the guarded UPDATEs in
// the inventory repository: even a buggy write path cannot drive the counters
// negative or reserve more than exists.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"check stock_actual >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventario_stock_actual') THEN
    ALTER TABLE inventario_sucursal
      ADD CONSTRAINT chk_inventario_stock_actual CHECK (stock_actual >= 0);
  END IF;
END $$`},
		{"check stock_reservado >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventario_stock_reservado') THEN
    ALTER TABLE inventario_sucursal
      ADD CONSTRAINT chk_inventario_stock_reservado CHECK (stock_reservado >= 0);
  END IF;
END $$`},
		{"check stock_reservado <= stock_actual", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventario_reserva_le_actual') THEN
    ALTER TABLE inventario_sucursal
      ADD CONSTRAINT chk_inventario_reserva_le_actual CHECK (stock_reservado <= stock_actual);
  END IF;
END $$`},
		{"check correlativo_actual >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_serie_correlativo') THEN
    ALTER TABLE series_factura
      ADD CONSTRAINT chk_serie_correlativo CHECK (correlativo_actual >= 0);
  END IF;
END $$`},
		// Movements are queried newest-first per inventory row.
		{"index movimientos por inventario", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_inventario_fecha') THEN
    CREATE INDEX idx_movimientos_inventario_fecha
        ON movimientos_inventario (inventario_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
