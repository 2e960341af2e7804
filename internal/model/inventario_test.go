package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockDisponible(t *testing.T) {
	inv := InventarioSucursal{StockActual: 20, StockReservado: 6}
	assert.Equal(t, 14, inv.StockDisponible())
}

func TestEsStockBajo(t *testing.T) {
	inv := InventarioSucursal{StockActual: 5}
	assert.True(t, inv.EsStockBajo(5), "igual al mínimo ya es alerta")
	assert.False(t, inv.EsStockBajo(4))
}
