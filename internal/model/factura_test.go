package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumeroMostrado(t *testing.T) {
	f := Factura{Correlativo: 42, Serie: &SerieFactura{Letra: "A"}}
	assert.Equal(t, "A00000042", f.NumeroMostrado())

	// Without the preloaded serie the number still renders.
	sin := Factura{Correlativo: 7}
	assert.Equal(t, "00000007", sin.NumeroMostrado())
}

func TestCalcularTotal_DescuentoEImpuesto(t *testing.T) {
	f := Factura{
		Descuento: decimal.NewFromInt(10),
		Impuesto:  decimal.RequireFromString("14.40"),
		Detalles: []DetalleFactura{
			{Subtotal: decimal.NewFromInt(100)},
			{Subtotal: decimal.RequireFromString("49.50")},
		},
	}
	f.CalcularTotal()
	assert.Equal(t, "149.5", f.Subtotal.String())
	assert.Equal(t, "153.9", f.Total.String())
}

func TestEstaPagada_ToleranciaDeCentavo(t *testing.T) {
	f := Factura{Total: decimal.NewFromInt(100)}
	assert.False(t, f.EstaPagada())

	f.Pagos = []PagoFactura{{Monto: decimal.RequireFromString("99.995")}}
	assert.True(t, f.EstaPagada(), "medio centavo de diferencia cuenta como pagada")

	f.Pagos = []PagoFactura{{Monto: decimal.RequireFromString("99.99")}}
	assert.False(t, f.EstaPagada(), "un centavo exacto queda fuera de la tolerancia")

	f.Pagos = []PagoFactura{
		{Monto: decimal.NewFromInt(60)},
		{Monto: decimal.NewFromInt(40)},
	}
	assert.True(t, f.EstaPagada())
}
