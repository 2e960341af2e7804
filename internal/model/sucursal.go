package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sucursal is a physical branch of the chain. Each branch keeps its own
// inventory rows and its own invoice series.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Direccion string    `gorm:"not null"`
	Telefono  *string
	Latitud   *decimal.Decimal `gorm:"type:decimal(10,7)"`
	Longitud  *decimal.Decimal `gorm:"type:decimal(10,7)"`
	Activo    bool             `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Sucursal) TableName() string { return "sucursales" }

// Cliente is the invoice/quotation counterparty.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	NIT       string    `gorm:"column:nit;uniqueIndex;not null"`
	Telefono  *string
	Email     *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

// Proveedor supplies goods received through IngresoInventario.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	NIT         string    `gorm:"column:nit;uniqueIndex;not null"`
	Telefono    *string
	Email       *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
