package handler

import (
	"net/http"
	"strconv"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// @Summary Listar productos
// @Tags productos
// @Produce json
// @Param nombre query string false "Filtro por nombre"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.Resultado{datos=dto.ProductoListResponse}
// @Security BearerAuth
// @Router /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		responderError(c, apierror.Validation("Parámetros invalidos"))
		return
	}
	if !validar(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}

// @Summary Obtener producto
// @Tags productos
// @Produce json
// @Param codigo path int true "Código de producto"
// @Success 200 {object} dto.Resultado{datos=dto.ProductoResponse}
// @Failure 404 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/productos/{codigo} [get]
func (h *ProductosHandler) ObtenerPorCodigo(c *gin.Context) {
	codigo, ok := paramCodigo(c, "codigo")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorCodigo(c.Request.Context(), codigo)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}

// @Summary Historial de movimientos de stock
// @Tags productos
// @Produce json
// @Param codigo path int true "Código de producto"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.Resultado{datos=[]dto.MovimientoStockResponse}
// @Security BearerAuth
// @Router /v1/productos/{codigo}/movimientos [get]
func (h *ProductosHandler) Movimientos(c *gin.Context) {
	codigo, ok := paramCodigo(c, "codigo")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	movs, total, err := h.svc.Movimientos(c.Request.Context(), codigo, page, limit)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.Exito("", movs))
}
