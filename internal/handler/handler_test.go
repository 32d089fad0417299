package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/handler"
	"almacen/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubPedidoService struct {
	resultado *dto.Resultado
	err       error
	buscado   int
	eliminado int
}

func (s *stubPedidoService) Admin(context.Context) (*dto.AdminResponse, error) {
	return &dto.AdminResponse{}, s.err
}

func (s *stubPedidoService) Listar(ctx context.Context) ([]dto.PedidoResponse, error) {
	return s.Buscar(ctx, 0)
}

func (s *stubPedidoService) Buscar(_ context.Context, codigo int) ([]dto.PedidoResponse, error) {
	s.buscado = codigo
	return []dto.PedidoResponse{}, s.err
}

func (s *stubPedidoService) MarcarRecogido(context.Context, int) (*dto.Resultado, error) {
	return s.resultado, s.err
}

func (s *stubPedidoService) Eliminar(_ context.Context, codigo int) (*dto.Resultado, error) {
	s.eliminado = codigo
	return s.resultado, s.err
}

type stubProveedorService struct {
	err error
}

func (s *stubProveedorService) Registrar(_ context.Context, req dto.RegistrarProveedorRequest) (*dto.ProveedorResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProveedorResponse{RUT: req.RUT, RazonSocial: req.RazonSocial, Codigo: "PRV-0000ABCD"}, nil
}

func (s *stubProveedorService) ObtenerPorRUT(context.Context, string) (*dto.ProveedorResponse, error) {
	return &dto.ProveedorResponse{}, s.err
}

func (s *stubProveedorService) Listar(context.Context) ([]dto.ProveedorResponse, error) {
	return nil, s.err
}

func (s *stubProveedorService) Actualizar(context.Context, string, dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	return &dto.ProveedorResponse{}, s.err
}

func (s *stubProveedorService) Eliminar(context.Context, string) error { return s.err }

// ── Helpers ───────────────────────────────────────────────────────────────────

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Resultado {
	t.Helper()
	var res dto.Resultado
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func pedidosEngine(svc *stubPedidoService) *gin.Engine {
	r := newEngine()
	h := handler.NewPedidosHandler(svc)
	r.GET("/admin/pedidos", h.Listar)
	r.POST("/admin/pedidos/:codigo/recogido", h.MarcarRecogido)
	r.DELETE("/admin/pedidos/:codigo", h.Eliminar)
	return r
}

func TestMarcarRecogido_Estados(t *testing.T) {
	tests := []struct {
		name   string
		svc    *stubPedidoService
		want   int
		estado string
		codigo string
	}{
		{"exito", &stubPedidoService{resultado: dto.Exito("ok", nil)}, http.StatusOK, dto.EstadoSuccess, ""},
		{"ya recogido", &stubPedidoService{resultado: dto.Advertencia(string(apierror.CodeAlreadyFulfilled), "ya")}, http.StatusOK, dto.EstadoWarning, "ALREADY_FULFILLED"},
		{"no encontrado", &stubPedidoService{err: apierror.NotFound("Pedido no encontrado")}, http.StatusNotFound, dto.EstadoError, "NOT_FOUND"},
		{"stock insuficiente", &stubPedidoService{err: apierror.InsufficientStock("Aceite")}, http.StatusConflict, dto.EstadoError, "INSUFFICIENT_STOCK"},
		{"persistencia", &stubPedidoService{err: apierror.Persistence(errors.New("pq: boom"), "No se pudo")}, http.StatusInternalServerError, dto.EstadoError, "PERSISTENCE_FAILURE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(pedidosEngine(tt.svc), http.MethodPost, "/admin/pedidos/7/recogido", nil)
			assert.Equal(t, tt.want, w.Code)
			res := decode(t, w)
			assert.Equal(t, tt.estado, res.Estado)
			assert.Equal(t, tt.codigo, res.Codigo)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestMarcarRecogido_CodigoInvalido(t *testing.T) {
	for _, path := range []string{"/admin/pedidos/abc/recogido", "/admin/pedidos/0/recogido", "/admin/pedidos/-3/recogido"} {
		w := do(pedidosEngine(&stubPedidoService{}), http.MethodPost, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Codigo)
	}
}

func TestEliminarPedido_Handler(t *testing.T) {
	w := do(pedidosEngine(&stubPedidoService{resultado: dto.Exito("Pedido 3 eliminado", nil)}), http.MethodDelete, "/admin/pedidos/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pedido 3 eliminado", decode(t, w).Mensaje)
}

func TestEliminarPedido_CodigoCeroLlegaAlServicio(t *testing.T) {
	svc := &stubPedidoService{eliminado: -1, err: apierror.NotFound("Código de pedido no proporcionado")}
	w := do(pedidosEngine(svc), http.MethodDelete, "/admin/pedidos/0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Codigo)
	assert.Equal(t, 0, svc.eliminado)

	for _, path := range []string{"/admin/pedidos/abc", "/admin/pedidos/-1"} {
		w := do(pedidosEngine(&stubPedidoService{}), http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestListarPedidos_FiltroCodigo(t *testing.T) {
	svc := &stubPedidoService{}
	w := do(pedidosEngine(svc), http.MethodGet, "/admin/pedidos?codigo=12", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, svc.buscado)

	w = do(pedidosEngine(svc), http.MethodGet, "/admin/pedidos?codigo=doce", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

func proveedoresEngine(svc *stubProveedorService) *gin.Engine {
	r := newEngine()
	h := handler.NewProveedoresHandler(svc)
	r.POST("/proveedores", h.Registrar)
	r.DELETE("/proveedores/:rut", h.Eliminar)
	return r
}

func TestRegistrarProveedor_Handler(t *testing.T) {
	body := dto.RegistrarProveedorRequest{RUT: "12345678-5", RazonSocial: "Distribuidora Sur", Correo: "ventas@dsur.cl"}

	w := do(proveedoresEngine(&stubProveedorService{}), http.MethodPost, "/proveedores", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, decode(t, w).Mensaje, "PRV-0000ABCD")

	w = do(proveedoresEngine(&stubProveedorService{err: apierror.InvalidIdentifier("El RUT 12345678-4 no es válido")}),
		http.MethodPost, "/proveedores", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_IDENTIFIER", decode(t, w).Codigo)
}

func TestRegistrarProveedor_ValidacionDeCampos(t *testing.T) {
	w := do(proveedoresEngine(&stubProveedorService{}), http.MethodPost, "/proveedores",
		dto.RegistrarProveedorRequest{RUT: "12345678-5", RazonSocial: "X", Correo: "no-es-correo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", res.Codigo)
	campos, ok := res.Datos.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "email", campos["correo"])
	assert.Equal(t, "min", campos["razonsocial"])
}

func TestEliminarProveedor_Handler(t *testing.T) {
	w := do(proveedoresEngine(&stubProveedorService{err: apierror.ReferentialIntegrity("tiene productos")}),
		http.MethodDelete, "/proveedores/12345678-5", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REFERENTIAL_INTEGRITY", decode(t, w).Codigo)
}

func TestErrorNoTipado_Responde500(t *testing.T) {
	w := do(proveedoresEngine(&stubProveedorService{err: errors.New("driver: bad connection")}),
		http.MethodDelete, "/proveedores/12345678-5", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "driver")
}
