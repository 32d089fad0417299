package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/model"
	"almacen/internal/repository"
	"almacen/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPedidoService(db *gorm.DB, jobs service.Encolador) service.PedidoService {
	productoRepo := repository.NewProductoRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)
	productos := service.NewProductoService(productoRepo, movRepo, nil)
	return service.NewPedidoService(
		repository.NewPedidoRepository(db),
		productoRepo,
		repository.NewVentaRepository(db),
		movRepo,
		productos,
		nil,
		jobs,
	)
}

// ── MarcarRecogido ────────────────────────────────────────────────────────────

func TestMarcarRecogido_Exito(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1290")
	seedProducto(t, db, 2, "Aceite", 5, "2990.50")
	seedPedido(t, db, 7, 1, 3, 2, 2)
	jobs := &fakeEncolador{}
	svc := newPedidoService(db, jobs)

	res, err := svc.MarcarRecogido(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, dto.EstadoSuccess, res.Estado)
	assert.Equal(t, "Pedido 7 marcado como recogido, venta registrada y existencias actualizadas", res.Mensaje)
	assert.Equal(t, 7, existencias(t, db, 1))
	assert.Equal(t, 3, existencias(t, db, 2))
	assert.True(t, recogido(t, db, 7))

	var venta model.Venta
	require.NoError(t, db.First(&venta, "codigo_pedido = ?", 7).Error)
	assert.Equal(t, "9851.00", venta.Total.StringFixed(2)) // 3×1290 + 2×2990.50

	datos, ok := res.Datos.(dto.VentaResponse)
	require.True(t, ok)
	assert.Equal(t, venta.ID, datos.ID)

	var movs []model.MovimientoStock
	require.NoError(t, db.Order("id").Find(&movs).Error)
	require.Len(t, movs, 2)
	assert.Equal(t, -3, movs[0].Cantidad)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 7, movs[0].StockNuevo)
	require.NotNil(t, movs[0].VentaID)
	assert.Equal(t, venta.ID, *movs[0].VentaID)

	require.Len(t, jobs.comprobantes, 1)
	assert.Equal(t, venta.ID, jobs.comprobantes[0].VentaID)
}

func TestMarcarRecogido_YaRecogidoEsAdvertencia(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedPedido(t, db, 3, 1, 4)
	svc := newPedidoService(db, nil)

	_, err := svc.MarcarRecogido(context.Background(), 3)
	require.NoError(t, err)

	res, err := svc.MarcarRecogido(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, dto.EstadoWarning, res.Estado)
	assert.Equal(t, string(apierror.CodeAlreadyFulfilled), res.Codigo)
	assert.Equal(t, "El pedido 3 ya está marcado como recogido", res.Mensaje)

	assert.Equal(t, 6, existencias(t, db, 1), "second call must not touch stock")
	assert.EqualValues(t, 1, contar(t, db, &model.Venta{}))
	assert.EqualValues(t, 1, contar(t, db, &model.MovimientoStock{}))
}

func TestMarcarRecogido_StockInsuficienteRevierteTodo(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedProducto(t, db, 2, "Aceite", 1, "2000")
	// line 1 is decremented before line 2 fails; the rollback must restore it
	seedPedido(t, db, 9, 1, 4, 2, 2)
	jobs := &fakeEncolador{}
	svc := newPedidoService(db, jobs)

	res, err := svc.MarcarRecogido(context.Background(), 9)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.Equal(t, "El producto Aceite tiene existencias insuficientes", apierror.As(err).Message)

	assert.Equal(t, 10, existencias(t, db, 1))
	assert.Equal(t, 1, existencias(t, db, 2))
	assert.False(t, recogido(t, db, 9))
	assert.Zero(t, contar(t, db, &model.Venta{}))
	assert.Zero(t, contar(t, db, &model.MovimientoStock{}))
	assert.Empty(t, jobs.comprobantes)
}

func TestMarcarRecogido_MismoProductoEnDosLineas(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 5, "1000")
	seedPedido(t, db, 4, 1, 3, 1, 3)
	svc := newPedidoService(db, nil)

	_, err := svc.MarcarRecogido(context.Background(), 4)
	require.ErrorIs(t, err, apierror.ErrInsufficientStock)
	assert.Equal(t, 5, existencias(t, db, 1))
	assert.False(t, recogido(t, db, 4))
}

func TestMarcarRecogido_ExistenciasExactasLleganACero(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 3, "1000")
	seedPedido(t, db, 5, 1, 3)
	svc := newPedidoService(db, nil)

	res, err := svc.MarcarRecogido(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, dto.EstadoSuccess, res.Estado)
	assert.Equal(t, 0, existencias(t, db, 1))
}

func TestMarcarRecogido_PedidoNoEncontrado(t *testing.T) {
	db := newTestDB(t)
	svc := newPedidoService(db, nil)

	_, err := svc.MarcarRecogido(context.Background(), 404)
	require.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Equal(t, "Pedido no encontrado", apierror.As(err).Message)
}

func TestMarcarRecogido_ProductoInexistenteRevierte(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedPedido(t, db, 6, 1, 2, 99, 1)
	svc := newPedidoService(db, nil)

	_, err := svc.MarcarRecogido(context.Background(), 6)
	require.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Equal(t, 10, existencias(t, db, 1))
	assert.False(t, recogido(t, db, 6))
}

func TestMarcarRecogido_FalloAlEncolarNoAfectaResultado(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedPedido(t, db, 8, 1, 1)
	svc := newPedidoService(db, &fakeEncolador{err: errors.New("redis down")})

	res, err := svc.MarcarRecogido(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, dto.EstadoSuccess, res.Estado)
	assert.True(t, recogido(t, db, 8))
}

func TestMarcarRecogido_Concurrente(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 100, "1000")
	seedPedido(t, db, 10, 1, 7)
	svc := newPedidoService(db, nil)

	const n = 8
	var wg sync.WaitGroup
	estados := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.MarcarRecogido(context.Background(), 10)
			if err != nil {
				estados <- "error"
				return
			}
			estados <- res.Estado
		}()
	}
	wg.Wait()
	close(estados)

	conteo := map[string]int{}
	for e := range estados {
		conteo[e]++
	}
	assert.Equal(t, 1, conteo[dto.EstadoSuccess])
	assert.Equal(t, n-1, conteo[dto.EstadoWarning])
	assert.Equal(t, 93, existencias(t, db, 1))
	assert.EqualValues(t, 1, contar(t, db, &model.Venta{}))
}

// Σ stock_before − Σ stock_after equals Σ cantidad after a successful pickup.
func TestMarcarRecogido_ConservaCantidades(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 20, "1000")
	seedProducto(t, db, 2, "Aceite", 15, "1500")
	seedProducto(t, db, 3, "Azúcar", 9, "900")
	seedPedido(t, db, 11, 1, 4, 2, 6, 3, 9, 1, 2)
	svc := newPedidoService(db, nil)

	antes := existencias(t, db, 1) + existencias(t, db, 2) + existencias(t, db, 3)
	_, err := svc.MarcarRecogido(context.Background(), 11)
	require.NoError(t, err)
	despues := existencias(t, db, 1) + existencias(t, db, 2) + existencias(t, db, 3)

	assert.Equal(t, 4+6+9+2, antes-despues)
}

func TestMarcarRecogido_FalloAlRegistrarVentaRevierte(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedProducto(t, db, 2, "Aceite", 4, "2500")
	seedPedido(t, db, 5, 1, 3, 2, 1)
	fallarEn(t, db, "create", "ventas")
	jobs := &fakeEncolador{}
	svc := newPedidoService(db, jobs)

	res, err := svc.MarcarRecogido(context.Background(), 5)
	require.ErrorIs(t, err, apierror.ErrPersistence)
	assert.Nil(t, res)
	assert.NotContains(t, apierror.As(err).Message, "escritura rechazada")

	assert.Equal(t, 10, existencias(t, db, 1))
	assert.Equal(t, 4, existencias(t, db, 2))
	assert.False(t, recogido(t, db, 5))
	assert.Zero(t, contar(t, db, &model.MovimientoStock{}))
	assert.Zero(t, contar(t, db, &model.Venta{}))
	assert.Empty(t, jobs.comprobantes)
}

// Lines are processed by ascending product code whatever their insertion order.
func TestMarcarRecogido_ProductosEnOrdenAscendente(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedProducto(t, db, 2, "Aceite", 10, "2000")
	seedProducto(t, db, 3, "Azúcar", 10, "900")
	seedPedido(t, db, 6, 3, 1, 1, 2, 2, 3)
	svc := newPedidoService(db, nil)

	_, err := svc.MarcarRecogido(context.Background(), 6)
	require.NoError(t, err)

	var movs []model.MovimientoStock
	require.NoError(t, db.Order("id").Find(&movs).Error)
	require.Len(t, movs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{movs[0].CodigoProducto, movs[1].CodigoProducto, movs[2].CodigoProducto})
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func TestEliminarPedido(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedPedido(t, db, 12, 1, 2, 1, 1)
	svc := newPedidoService(db, nil)

	res, err := svc.Eliminar(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, dto.EstadoSuccess, res.Estado)
	assert.Zero(t, contar(t, db, &model.Pedido{}))
	assert.Zero(t, contar(t, db, &model.ListaProducto{}))
	assert.Equal(t, 10, existencias(t, db, 1), "deleting an order does not restock")
}

func TestEliminarPedido_FalloRevierteAmbosBorrados(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 10, "1000")
	seedPedido(t, db, 13, 1, 2, 1, 1)
	fallarEn(t, db, "delete", "pedidos")
	svc := newPedidoService(db, nil)

	res, err := svc.Eliminar(context.Background(), 13)
	require.ErrorIs(t, err, apierror.ErrPersistence)
	assert.Nil(t, res)
	assert.EqualValues(t, 1, contar(t, db, &model.Pedido{}))
	assert.EqualValues(t, 2, contar(t, db, &model.ListaProducto{}))
}

func TestEliminarPedido_SinCodigo(t *testing.T) {
	svc := newPedidoService(newTestDB(t), nil)

	_, err := svc.Eliminar(context.Background(), 0)
	require.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Equal(t, "Código de pedido no proporcionado", apierror.As(err).Message)
}

func TestEliminarPedido_NoEncontrado(t *testing.T) {
	db := newTestDB(t)
	seedPedido(t, db, 1)
	svc := newPedidoService(db, nil)

	_, err := svc.Eliminar(context.Background(), 2)
	require.ErrorIs(t, err, apierror.ErrNotFound)
	assert.EqualValues(t, 1, contar(t, db, &model.Pedido{}))
}

// ── Listar / Buscar / Admin ───────────────────────────────────────────────────

func TestListarPedidos_PendientesPrimero(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 50, "1000")
	seedPedido(t, db, 1, 1, 1)
	seedPedido(t, db, 2, 1, 1)
	seedPedido(t, db, 3, 1, 1)
	svc := newPedidoService(db, nil)

	_, err := svc.MarcarRecogido(context.Background(), 3)
	require.NoError(t, err)

	pedidos, err := svc.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, pedidos, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{pedidos[0].Codigo, pedidos[1].Codigo, pedidos[2].Codigo})
	assert.True(t, pedidos[2].Recogido)
	require.Len(t, pedidos[0].ListaProductos, 1)
	assert.Equal(t, "Arroz", pedidos[0].ListaProductos[0].ProductoNombre)
}

func TestBuscarPedido(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 1, "Arroz", 50, "1000")
	seedPedido(t, db, 1, 1, 1)
	seedPedido(t, db, 2, 1, 5)
	svc := newPedidoService(db, nil)

	pedidos, err := svc.Buscar(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pedidos, 1)
	assert.Equal(t, 5, pedidos[0].ListaProductos[0].Cantidad)

	pedidos, err = svc.Buscar(context.Background(), 77)
	require.NoError(t, err)
	assert.Empty(t, pedidos)
}

func TestAdmin(t *testing.T) {
	db := newTestDB(t)
	seedProducto(t, db, 2, "Aceite", 5, "2000")
	seedProducto(t, db, 1, "Arroz", 50, "1000")
	seedPedido(t, db, 1, 1, 1)
	svc := newPedidoService(db, nil)

	resp, err := svc.Admin(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Productos, 2)
	assert.Equal(t, 1, resp.Productos[0].Codigo)
	assert.Len(t, resp.Pedidos, 1)
}
