package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a stocked item. Existencias never drops below zero; the check
// constraint backs up the guarded decrement in the repository.
type Producto struct {
	Codigo      int             `gorm:"primaryKey"`
	Nombre      string          `gorm:"index;not null"`
	Existencias int             `gorm:"not null;default:0;check:existencias >= 0"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }
