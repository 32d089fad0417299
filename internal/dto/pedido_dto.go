package dto

import "github.com/shopspring/decimal"

type PedidoFilter struct {
	Codigo int `form:"codigo" validate:"min=0"`
}

type LineaPedidoResponse struct {
	CodigoProducto int    `json:"codigo_producto"`
	ProductoNombre string `json:"producto_nombre"`
	Cantidad       int    `json:"cantidad"`
}

type PedidoResponse struct {
	Codigo         int                   `json:"codigo_ped"`
	Recogido       bool                  `json:"recogido"`
	RUTCliente     *string               `json:"rut_clie,omitempty"`
	ListaProductos []LineaPedidoResponse `json:"lista_productos"`
	CreatedAt      string                `json:"created_at"`
}

// AdminResponse is the payload of the administration screen.
type AdminResponse struct {
	Productos []ProductoResponse `json:"productos"`
	Pedidos   []PedidoResponse   `json:"pedidos"`
}

type VentaResponse struct {
	ID           uint            `json:"id"`
	CodigoPedido int             `json:"codigo_pedido"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    string          `json:"created_at"`
}
