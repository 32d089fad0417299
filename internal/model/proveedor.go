package model

import (
	"time"
)

// Proveedor represents a supplier. RUT is stored normalized (12345678-5) and,
// like Codigo, never changes after registration.
type Proveedor struct {
	RUT           string `gorm:"column:rut_prov;primaryKey;size:12"`
	RazonSocial   string `gorm:"not null"`
	Correo        string `gorm:"not null"`
	Telefono      string
	Direccion     string
	Representante string
	Codigo        string `gorm:"uniqueIndex;size:20;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

// ListaProveedores links a supplier (by its generated code) to a product it
// provides. While any row references a supplier, that supplier cannot be deleted.
type ListaProveedores struct {
	ID              uint   `gorm:"primaryKey"`
	CodigoProveedor string `gorm:"index;size:20;not null"`
	CodigoProducto  int    `gorm:"index;not null"`
	CreatedAt       time.Time
}

func (ListaProveedores) TableName() string { return "lista_proveedores" }
