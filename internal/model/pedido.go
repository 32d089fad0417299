package model

import "time"

// Pedido is a customer order. Recogido flips from false to true exactly once,
// when the order is picked up and a Venta is recorded.
type Pedido struct {
	Codigo     int     `gorm:"column:codigo_ped;primaryKey"`
	Recogido   bool    `gorm:"column:estado;not null;default:false"`
	RUTCliente *string `gorm:"column:rut_clie;size:12;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lineas  []ListaProducto `gorm:"foreignKey:CodigoPedido;references:Codigo"`
	Cliente *Cliente        `gorm:"foreignKey:RUTCliente;references:RUT"`
}

func (Pedido) TableName() string { return "pedidos" }

// ListaProducto is one order line: a product and a positive quantity.
type ListaProducto struct {
	ID             uint `gorm:"primaryKey"`
	CodigoPedido   int  `gorm:"index;not null"`
	CodigoProducto int  `gorm:"index;not null"`
	Cantidad       int  `gorm:"not null;check:cantidad > 0"`

	Producto *Producto `gorm:"foreignKey:CodigoProducto;references:Codigo"`
}

func (ListaProducto) TableName() string { return "lista_productos" }
