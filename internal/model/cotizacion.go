package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados of Cotizacion. "activa" is the only state that reserves stock.
const (
	CotizacionActiva    = "activa"
	CotizacionVencida   = "vencida"
	CotizacionFacturada = "facturada"
	CotizacionAnulada   = "anulada"
)

// Cotizacion is a price proposal. It reserves stock while activa but never
// decrements it; conversion consumes the reservation and produces the factura.
type Cotizacion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero     string    `gorm:"uniqueIndex;not null"` // COT-YYYYMM####
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VigenciaDias int           `gorm:"not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'activa'"`
	// FacturaID links the invoice this quotation converted into, at most one.
	FacturaID     *uuid.UUID `gorm:"type:uuid"`
	Observaciones *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Sucursal *Sucursal           `gorm:"foreignKey:SucursalID"`
	Cliente  *Cliente            `gorm:"foreignKey:ClienteID"`
	Detalles []DetalleCotizacion `gorm:"foreignKey:CotizacionID"`
}

func (Cotizacion) TableName() string { return "cotizaciones" }

// EstaVigente reports whether the quotation can still be converted.
func (c *Cotizacion) EstaVigente(now time.Time) bool {
	if c.Estado != CotizacionActiva {
		return false
	}
	return !now.After(c.CreatedAt.AddDate(0, 0, c.VigenciaDias))
}

// CalcularTotal recomputes Subtotal from the lines and derives
// Total = Subtotal − Descuento.
func (c *Cotizacion) CalcularTotal() {
	subtotal := decimal.Zero
	for _, d := range c.Detalles {
		subtotal = subtotal.Add(d.Subtotal)
	}
	c.Subtotal = subtotal
	c.Total = subtotal.Sub(c.Descuento)
}

// DetalleCotizacion mirrors DetalleFactura's subtotal formula.
type DetalleCotizacion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CotizacionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	UnidadID       uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DescuentoPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Producto *Producto     `gorm:"foreignKey:ProductoID"`
	Unidad   *UnidadMedida `gorm:"foreignKey:UnidadID"`
}

func (DetalleCotizacion) TableName() string { return "detalles_cotizacion" }

// SecuenciaCotizacion is the per-month quotation counter. Rows are advanced
// with an atomic upsert, the same discipline as SerieFactura.
type SecuenciaCotizacion struct {
	// Periodo is "YYYYMM".
	Periodo  string `gorm:"type:varchar(6);primaryKey"`
	Contador int64  `gorm:"not null;default:0"`
}

func (SecuenciaCotizacion) TableName() string { return "secuencias_cotizacion" }
