package handler

import (
	"net/http"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Admin godoc
// @Summary Pantalla de administración
// @Description Productos y pedidos, pendientes primero.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.Resultado{datos=dto.AdminResponse}
// @Security BearerAuth
// @Router /v1/admin [get]
func (h *PedidosHandler) Admin(c *gin.Context) {
	resp, err := h.svc.Admin(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}

// Listar godoc
// @Summary Listar o buscar pedidos
// @Tags admin
// @Produce json
// @Param codigo query int false "Código de pedido"
// @Success 200 {object} dto.Resultado{datos=[]dto.PedidoResponse}
// @Security BearerAuth
// @Router /v1/admin/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		responderError(c, apierror.Validation("Código de pedido invalido"))
		return
	}
	if !validar(c, &filter) {
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), filter.Codigo)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}

// MarcarRecogido godoc
// @Summary Marcar pedido como recogido
// @Description Descuenta existencias y registra la venta en una sola transacción.
// @Tags admin
// @Produce json
// @Param codigo path int true "Código de pedido"
// @Success 200 {object} dto.Resultado{datos=dto.VentaResponse}
// @Failure 404 {object} dto.Resultado
// @Failure 409 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/admin/pedidos/{codigo}/recogido [post]
func (h *PedidosHandler) MarcarRecogido(c *gin.Context) {
	codigo, ok := paramCodigo(c, "codigo")
	if !ok {
		return
	}
	res, err := h.svc.MarcarRecogido(c.Request.Context(), codigo)
	if err != nil {
		responderError(c, err)
		return
	}
	responderResultado(c, http.StatusOK, res)
}

// Eliminar godoc
// @Summary Eliminar pedido
// @Tags admin
// @Produce json
// @Param codigo path int true "Código de pedido"
// @Success 200 {object} dto.Resultado
// @Failure 404 {object} dto.Resultado
// @Security BearerAuth
// @Failure 400 {object} dto.Resultado
// @Router /v1/admin/pedidos/{codigo} [delete]
func (h *PedidosHandler) Eliminar(c *gin.Context) {
	codigo, ok := paramCodigoOpcional(c, "codigo")
	if !ok {
		return
	}
	res, err := h.svc.Eliminar(c.Request.Context(), codigo)
	if err != nil {
		responderError(c, err)
		return
	}
	responderResultado(c, http.StatusOK, res)
}
