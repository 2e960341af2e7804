package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Detail kinds for Producto.TipoDetalle. A product carries at most one
// category-specific detail record; the discriminator says which one.
const (
	DetallePinturaTipo   = "pintura"
	DetalleAccesorioTipo = "accesorio"
	DetalleNinguno       = "ninguno"
)

// Producto is the catalog master record. Category-specific attributes live in
// DetallePintura / DetalleAccesorio, selected by TipoDetalle.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoriaID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre       string    `gorm:"index;not null"`
	Marca        string    `gorm:"not null"`
	Descripcion  *string
	PrecioBase   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DescuentoPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	StockMinimo  int             `gorm:"not null;default:5"`
	TipoDetalle  string          `gorm:"type:varchar(20);not null;default:'ninguno'"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria        *Categoria        `gorm:"foreignKey:CategoriaID"`
	DetallePintura   *DetallePintura   `gorm:"foreignKey:ProductoID"`
	DetalleAccesorio *DetalleAccesorio `gorm:"foreignKey:ProductoID"`
	Variaciones      []Variacion       `gorm:"foreignKey:ProductoID"`
}

// DetallePintura holds paint-only attributes.
type DetallePintura struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Color      string    `gorm:"not null"`
	CodigoColor *string  `gorm:"type:varchar(20)"`
	TipoPintura string   `gorm:"not null"` // latex | esmalte | barniz | anticorrosiva
	Acabado     *string  // mate | satinado | brillante
	Base        *string
	// RendimientoM2 is square meters covered per base unit.
	RendimientoM2 *decimal.Decimal `gorm:"type:decimal(8,2)"`
}

func (DetallePintura) TableName() string { return "detalles_pintura" }

// DetalleAccesorio holds attributes for brushes, rollers, tools, etc.
type DetalleAccesorio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Material    *string
	Dimensiones *string
	Uso         *string
}

func (DetalleAccesorio) TableName() string { return "detalles_accesorio" }

// Variacion is a per-unit sell price override for a product.
// Unique per (producto, unidad).
type Variacion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_variacion_producto_unidad;not null"`
	UnidadID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_variacion_producto_unidad;not null"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Producto *Producto     `gorm:"foreignKey:ProductoID"`
	Unidad   *UnidadMedida `gorm:"foreignKey:UnidadID"`
}

func (Variacion) TableName() string { return "variaciones" }
