package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta records the fulfillment of one Pedido. The unique index on
// CodigoPedido makes a second sale for the same order impossible.
type Venta struct {
	ID           uint            `gorm:"primaryKey"`
	CodigoPedido int             `gorm:"uniqueIndex;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt    time.Time

	Pedido *Pedido `gorm:"foreignKey:CodigoPedido;references:Codigo"`
}

func (Venta) TableName() string { return "ventas" }
