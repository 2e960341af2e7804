package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEstaVigente(t *testing.T) {
	now := time.Now()
	c := Cotizacion{
		Estado:       CotizacionActiva,
		VigenciaDias: 15,
		CreatedAt:    now.AddDate(0, 0, -10),
	}
	assert.True(t, c.EstaVigente(now))

	// The last day of the window still counts.
	c.CreatedAt = now.AddDate(0, 0, -15)
	assert.True(t, c.EstaVigente(now))

	c.CreatedAt = now.AddDate(0, 0, -16)
	assert.False(t, c.EstaVigente(now))

	// A non-active quotation is never vigente, no matter the dates.
	c.CreatedAt = now
	c.Estado = CotizacionAnulada
	assert.False(t, c.EstaVigente(now))
}

func TestCotizacionCalcularTotal(t *testing.T) {
	c := Cotizacion{
		Descuento: decimal.NewFromInt(25),
		Detalles: []DetalleCotizacion{
			{Subtotal: decimal.NewFromInt(300)},
			{Subtotal: decimal.NewFromInt(125)},
		},
	}
	c.CalcularTotal()
	assert.Equal(t, "425", c.Subtotal.String())
	assert.Equal(t, "400", c.Total.String())
}
