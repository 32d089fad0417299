package handler

import (
	"net/http"

	"almacen/internal/dto"
	"almacen/internal/service"

	"github.com/gin-gonic/gin"
)

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar proveedor
// @Tags proveedores
// @Accept json
// @Produce json
// @Param body body dto.RegistrarProveedorRequest true "Proveedor"
// @Success 201 {object} dto.Resultado{datos=dto.ProveedorResponse}
// @Failure 409 {object} dto.Resultado
// @Failure 422 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/proveedores [post]
func (h *ProveedoresHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Exito("Proveedor registrado con código "+resp.Codigo, resp))
}

// Listar godoc
// @Summary Listar proveedores
// @Tags proveedores
// @Produce json
// @Success 200 {object} dto.Resultado{datos=[]dto.ProveedorResponse}
// @Security BearerAuth
// @Router /v1/proveedores [get]
func (h *ProveedoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}

// @Summary Obtener proveedor por RUT
// @Tags proveedores
// @Produce json
// @Param rut path string true "RUT del proveedor"
// @Success 200 {object} dto.Resultado{datos=dto.ProveedorResponse}
// @Failure 404 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/proveedores/{rut} [get]
func (h *ProveedoresHandler) ObtenerPorRUT(c *gin.Context) {
	resp, err := h.svc.ObtenerPorRUT(c.Request.Context(), c.Param("rut"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("", resp))
}

// @Summary Actualizar proveedor
// @Description Sólo razón social, correo, teléfono, dirección y representante; RUT y código no cambian.
// @Tags proveedores
// @Accept json
// @Produce json
// @Param rut path string true "RUT del proveedor"
// @Param body body dto.ActualizarProveedorRequest true "Datos"
// @Success 200 {object} dto.Resultado{datos=dto.ProveedorResponse}
// @Failure 404 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/proveedores/{rut} [put]
func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("rut"), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("Proveedor actualizado", resp))
}

// @Summary Eliminar proveedor
// @Tags proveedores
// @Produce json
// @Param rut path string true "RUT del proveedor"
// @Success 200 {object} dto.Resultado
// @Failure 404 {object} dto.Resultado
// @Failure 409 {object} dto.Resultado
// @Security BearerAuth
// @Router /v1/proveedores/{rut} [delete]
func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("rut")); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Exito("Proveedor eliminado", nil))
}
