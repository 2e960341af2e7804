package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados of IngresoInventario. "pendiente" is the only mutable state;
// "procesado" and "anulado" are terminal.
const (
	IngresoPendiente = "pendiente"
	IngresoProcesado = "procesado"
	IngresoAnulado   = "anulado"
)

// IngresoInventario is a supplier goods receipt. Processing it applies every
// line to the branch ledger and flips the estado to procesado.
type IngresoInventario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProveedorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	NumeroDocumento string   `gorm:"not null"`
	Estado         string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Observaciones  *string
	ProcesadoAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Sucursal  *Sucursal        `gorm:"foreignKey:SucursalID"`
	Proveedor *Proveedor       `gorm:"foreignKey:ProveedorID"`
	Detalles  []DetalleIngreso `gorm:"foreignKey:IngresoID"`
}

func (IngresoInventario) TableName() string { return "ingresos_inventario" }

// DetalleIngreso is one received line. Subtotal is fixed at line entry
// (cantidad × costo unitario) so the header total never drifts.
type DetalleIngreso struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngresoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null"`
	UnidadID      uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad      int             `gorm:"not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time

	Producto *Producto     `gorm:"foreignKey:ProductoID"`
	Unidad   *UnidadMedida `gorm:"foreignKey:UnidadID"`
}

func (DetalleIngreso) TableName() string { return "detalles_ingreso" }
