package handler

import (
	"net/http"

	"almacen/internal/dto"
	"almacen/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Registrar godoc
// @Summary Registro de cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param body body dto.RegistrarClienteRequest true "Cliente"
// @Success 201 {object} dto.Resultado{datos=dto.ClienteResponse}
// @Failure 409 {object} dto.Resultado
// @Failure 422 {object} dto.Resultado
// @Router /v1/clientes [post]
func (h *ClientesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Exito("Cliente registrado", resp))
}

// @Summary Obtener cliente por RUT
// @Tags clientes
// @Produce json
// @Param rut path string true "RUT del cliente"
// @Success 200 {object} dto.Resultado{datos=dto.ClienteResponse}
// @Failure 404 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/clientes/{rut} [get]
func (h *ClientesHandler) ObtenerPorRUT(c *gin.Context) {
	resp, err := h.svc.ObtenerPorRUT(c.Request.Context(), c.Param("rut"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}
