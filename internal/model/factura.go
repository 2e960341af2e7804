package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados of Factura.
const (
	FacturaActiva  = "activa"
	FacturaAnulada = "anulada"
)

// SerieFactura holds the per-branch invoice numbering series. The correlativo
// is only ever advanced through an atomic UPDATE … RETURNING so two concurrent
// sales can never draw the same number.
type SerieFactura struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Letra             string    `gorm:"type:varchar(1);not null"`
	CorrelativoActual int64     `gorm:"not null;default:0"`
	Activo            bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (SerieFactura) TableName() string { return "series_factura" }

// MetodoPago is a configurable payment method. RequiereReferencia forces
// payments through this method to carry a reference number (voucher, auth code).
type MetodoPago struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre             string    `gorm:"uniqueIndex;not null"`
	RequiereReferencia bool      `gorm:"not null;default:false"`
	Activo             bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time
}

func (MetodoPago) TableName() string { return "metodos_pago" }

// Factura is a sale. Creating one decrements the branch ledger per line;
// voiding restores every line and zeroes the total.
type Factura struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SerieID      uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_factura_serie_correlativo;not null"`
	Correlativo  int64      `gorm:"uniqueIndex:idx_factura_serie_correlativo;not null"`
	SucursalID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClienteID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	CotizacionID *uuid.UUID `gorm:"type:uuid;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'activa'"`
	// Void metadata — set exactly once, when the factura is voided.
	AnuladaAt       *time.Time
	MotivoAnulacion *string
	AnuladaPor      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Serie    *SerieFactura    `gorm:"foreignKey:SerieID"`
	Sucursal *Sucursal        `gorm:"foreignKey:SucursalID"`
	Cliente  *Cliente         `gorm:"foreignKey:ClienteID"`
	Detalles []DetalleFactura `gorm:"foreignKey:FacturaID"`
	Pagos    []PagoFactura    `gorm:"foreignKey:FacturaID"`
}

func (Factura) TableName() string { return "facturas" }

// NumeroMostrado is the externally visible invoice number: series letter plus
// the correlativo zero-padded to 8 digits (e.g. "A00000042").
func (f *Factura) NumeroMostrado() string {
	letra := ""
	if f.Serie != nil {
		letra = f.Serie.Letra
	}
	return fmt.Sprintf("%s%08d", letra, f.Correlativo)
}

// CalcularTotal recomputes Subtotal from the lines and derives
// Total = Subtotal − Descuento + Impuesto. Call it after any line change.
func (f *Factura) CalcularTotal() {
	subtotal := decimal.Zero
	for _, d := range f.Detalles {
		subtotal = subtotal.Add(d.Subtotal)
	}
	f.Subtotal = subtotal
	f.Total = subtotal.Sub(f.Descuento).Add(f.Impuesto)
}

// pagoTolerancia is the rounding slack when comparing payments to the total.
var pagoTolerancia = decimal.NewFromFloat(0.01)

// EstaPagada reports whether the payments cover the total within tolerance.
// Advisory only — it is never enforced at commit time.
func (f *Factura) EstaPagada() bool {
	pagado := decimal.Zero
	for _, p := range f.Pagos {
		pagado = pagado.Add(p.Monto)
	}
	return pagado.Sub(f.Total).Abs().LessThan(pagoTolerancia)
}

// DetalleFactura is one invoice line.
// Subtotal = Cantidad × PrecioUnitario × (1 − DescuentoPct/100).
type DetalleFactura struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
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

func (DetalleFactura) TableName() string { return "detalles_factura" }

// PagoFactura is one payment against an invoice. Referencia is mandatory when
// the method has RequiereReferencia set.
type PagoFactura struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPagoID uuid.UUID       `gorm:"type:uuid;not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Referencia   *string
	Notas        *string
	CreatedAt    time.Time

	MetodoPago *MetodoPago `gorm:"foreignKey:MetodoPagoID"`
}

func (PagoFactura) TableName() string { return "pagos_factura" }
