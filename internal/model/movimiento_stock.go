package model

import (
	"time"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Se crea al marcar un pedido como recogido (tipo "venta").
type MovimientoStock struct {
	ID             uint   `gorm:"primaryKey"`
	CodigoProducto int    `gorm:"not null;index"`
	Tipo           string `gorm:"size:20;not null"` // "venta" | "ajuste_manual"
	Cantidad       int    `gorm:"not null"`         // positive = entrada, negative = salida
	StockAnterior  int    `gorm:"not null"`
	StockNuevo     int    `gorm:"not null"`
	Motivo         string
	VentaID        *uint `gorm:"index"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:CodigoProducto;references:Codigo"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
