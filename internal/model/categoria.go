package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categoria classifies products (pinturas, accesorios, herramientas…).
// RequiereMedidas marks categories whose products are sold in more than one
// unit of measure (e.g. fractional gallons).
type Categoria struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"uniqueIndex;not null"`
	Descripcion     *string
	RequiereMedidas bool `gorm:"not null;default:false"`
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Unidades []UnidadMedida `gorm:"foreignKey:CategoriaID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

// UnidadMedida is a sellable measurement for a category
// (galón, 1/4 galón, litro, unidad). FactorConversion expresses how many
// base units this unit represents, relative to the category base unit.
type UnidadMedida struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoriaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre      string    `gorm:"not null"`
	Abreviatura string    `gorm:"type:varchar(10);not null"`
	// FactorConversion relative to the category base unit (base unit = 1).
	FactorConversion decimal.Decimal `gorm:"type:decimal(10,4);not null;default:1"`
	Activo           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (UnidadMedida) TableName() string { return "unidades_medida" }
