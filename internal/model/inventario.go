package model

import (
	"time"

	"github.com/google/uuid"
)

// InventarioSucursal is the branch stock ledger: one row per
// (sucursal, producto, unidad) actually stocked.
// Invariant after every mutation: StockActual ≥ StockReservado ≥ 0.
type InventarioSucursal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_inventario_suc_prod_uni;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_inventario_suc_prod_uni;not null"`
	UnidadID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_inventario_suc_prod_uni;not null"`
	// StockReservado is quantity committed to live quotations; it is part of
	// StockActual, never in addition to it.
	StockActual    int `gorm:"not null;default:0"`
	StockReservado int `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Sucursal *Sucursal     `gorm:"foreignKey:SucursalID"`
	Producto *Producto     `gorm:"foreignKey:ProductoID"`
	Unidad   *UnidadMedida `gorm:"foreignKey:UnidadID"`
}

func (InventarioSucursal) TableName() string { return "inventario_sucursal" }

// StockDisponible is what can actually be sold right now.
func (i *InventarioSucursal) StockDisponible() int {
	return i.StockActual - i.StockReservado
}

// EsStockBajo compares against the product minimum threshold.
func (i *InventarioSucursal) EsStockBajo(stockMinimo int) bool {
	return i.StockActual <= stockMinimo
}

// MovimientoInventario is an immutable audit entry written on every ledger
// mutation. Cancellations create inverse entries, rows are never edited.
type MovimientoInventario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InventarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Tipo: "venta" | "ingreso" | "ajuste_manual" | "restore_anulacion" |
	//       "reserva" | "liberacion_reserva"
	Tipo          string `gorm:"type:varchar(30);not null"`
	Cantidad      int    `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int    `gorm:"not null"`
	StockNuevo    int    `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // factura, ingreso o cotizacion origen
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Inventario *InventarioSucursal `gorm:"foreignKey:InventarioID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
