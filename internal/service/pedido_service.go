package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/metrics"
	"almacen/internal/model"
	"almacen/internal/repository"
	"almacen/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Admin(ctx context.Context) (*dto.AdminResponse, error)
	Listar(ctx context.Context) ([]dto.PedidoResponse, error)
	Buscar(ctx context.Context, codigo int) ([]dto.PedidoResponse, error)
	MarcarRecogido(ctx context.Context, codigo int) (*dto.Resultado, error)
	Eliminar(ctx context.Context, codigo int) (*dto.Resultado, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	productoRepo repository.ProductoRepository
	ventaRepo    repository.VentaRepository
	movRepo      repository.MovimientoStockRepository
	productos    ProductoService
	rdb          *redis.Client
	jobs         Encolador
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	ventaRepo repository.VentaRepository,
	movRepo repository.MovimientoStockRepository,
	productos ProductoService,
	rdb *redis.Client,
	jobs Encolador,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		productoRepo: productoRepo,
		ventaRepo:    ventaRepo,
		movRepo:      movRepo,
		productos:    productos,
		rdb:          rdb,
		jobs:         jobs,
	}
}

// Admin returns the data of the administration screen: every product and
// every order, pending ones first.
func (s *pedidoService) Admin(ctx context.Context) (*dto.AdminResponse, error) {
	productos, err := s.productos.ListarTodos(ctx)
	if err != nil {
		return nil, err
	}
	pedidos, err := s.Listar(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminResponse{Productos: productos, Pedidos: pedidos}, nil
}

func (s *pedidoService) Listar(ctx context.Context) ([]dto.PedidoResponse, error) {
	return s.Buscar(ctx, 0)
}

// Buscar filters by order code; codigo <= 0 lists everything.
func (s *pedidoService) Buscar(ctx context.Context, codigo int) ([]dto.PedidoResponse, error) {
	pedidos, err := s.repo.List(ctx, codigo)
	if err != nil {
		return nil, persistencia(err, "No se pudo listar los pedidos")
	}
	resp := make([]dto.PedidoResponse, len(pedidos))
	for i := range pedidos {
		resp[i] = pedidoToResponse(&pedidos[i])
	}
	return resp, nil
}

// ── MarcarRecogido ────────────────────────────────────────────────────────────
// One transaction:
//   1. Lock the order row; absent → NOT_FOUND
//   2. Already picked up → warning, nothing written
//   3. Guarded flip estado false → true (a concurrent winner turns this into the warning)
//   4. Per line: stock check + guarded decrement + movimiento de stock
//   5. Venta with total Σ precio × cantidad
// Any failure rolls back every write. After commit the receipt job is queued.

func (s *pedidoService) MarcarRecogido(ctx context.Context, codigo int) (*dto.Resultado, error) {
	defer metrics.TrackTx("marcar_recogido")(time.Now())

	var (
		venta      model.Venta
		yaRecogido bool
		afectados  []int
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindForUpdateTx(tx, codigo)
		if err != nil {
			if noEncontrado(err) {
				return apierror.NotFound("Pedido no encontrado")
			}
			return persistencia(err, "No se pudo leer el pedido %d", codigo)
		}
		if pedido.Recogido {
			yaRecogido = true
			return nil
		}

		ok, err := s.repo.MarcarRecogidoTx(tx, codigo)
		if err != nil {
			return persistencia(err, "No se pudo actualizar el pedido %d", codigo)
		}
		if !ok {
			yaRecogido = true
			return nil
		}

		total := decimal.Zero
		movimientos := make([]model.MovimientoStock, 0, len(pedido.Lineas))
		for _, linea := range pedido.Lineas {
			prod, err := s.productoRepo.FindByCodigoTx(tx, linea.CodigoProducto)
			if err != nil {
				if noEncontrado(err) {
					return apierror.NotFound("Producto %d no encontrado", linea.CodigoProducto)
				}
				return persistencia(err, "No se pudo leer el producto %d", linea.CodigoProducto)
			}

			nuevo := prod.Existencias - linea.Cantidad
			if nuevo < 0 {
				return apierror.InsufficientStock(prod.Nombre)
			}
			ok, err := s.productoRepo.DescontarStockTx(tx, prod.Codigo, linea.Cantidad)
			if err != nil {
				return persistencia(err, "No se pudo descontar el stock de %s", prod.Nombre)
			}
			if !ok {
				return apierror.InsufficientStock(prod.Nombre)
			}

			total = total.Add(prod.Precio.Mul(decimal.NewFromInt(int64(linea.Cantidad))))
			movimientos = append(movimientos, model.MovimientoStock{
				CodigoProducto: prod.Codigo,
				Tipo:           "venta",
				Cantidad:       -linea.Cantidad,
				StockAnterior:  prod.Existencias,
				StockNuevo:     nuevo,
				Motivo:         fmt.Sprintf("Pedido #%d recogido", codigo),
			})
			afectados = append(afectados, prod.Codigo)
		}

		venta = model.Venta{CodigoPedido: codigo, Total: total}
		if err := s.ventaRepo.CreateTx(tx, &venta); err != nil {
			return persistencia(err, "No se pudo registrar la venta del pedido %d", codigo)
		}
		for i := range movimientos {
			movimientos[i].VentaID = &venta.ID
			if err := s.movRepo.CreateTx(tx, &movimientos[i]); err != nil {
				return persistencia(err, "No se pudo registrar el movimiento de stock")
			}
		}
		return nil
	})

	if txErr != nil {
		var e *apierror.Error
		if errors.As(txErr, &e) {
			metrics.PedidosRecogidosCounter.WithLabelValues(string(e.Code)).Inc()
			if e.Code != apierror.CodePersistence {
				log.Warn().Int("codigo_ped", codigo).Str("codigo", string(e.Code)).Msg(e.Message)
			}
			return nil, e
		}
		metrics.PedidosRecogidosCounter.WithLabelValues(string(apierror.CodePersistence)).Inc()
		return nil, persistencia(txErr, "No se pudo marcar el pedido %d como recogido", codigo)
	}

	if yaRecogido {
		metrics.PedidosRecogidosCounter.WithLabelValues(dto.EstadoWarning).Inc()
		return dto.Advertencia(string(apierror.CodeAlreadyFulfilled),
			fmt.Sprintf("El pedido %d ya está marcado como recogido", codigo)), nil
	}

	metrics.PedidosRecogidosCounter.WithLabelValues(dto.EstadoSuccess).Inc()
	log.Info().Int("codigo_ped", codigo).Uint("venta_id", venta.ID).Str("total", venta.Total.StringFixed(2)).
		Msg("pedido recogido")

	invalidarProductos(ctx, s.rdb, afectados)

	// Async receipt (best-effort, fire & forget)
	if s.jobs != nil {
		if err := s.jobs.EnqueueComprobante(ctx, worker.ComprobanteJobPayload{VentaID: venta.ID}); err != nil {
			log.Warn().Err(err).Uint("venta_id", venta.ID).Msg("no se pudo encolar el comprobante")
		}
	}

	return dto.Exito(
		fmt.Sprintf("Pedido %d marcado como recogido, venta registrada y existencias actualizadas", codigo),
		ventaToResponse(&venta),
	), nil
}

// Eliminar removes the order lines and then the order in one transaction.
func (s *pedidoService) Eliminar(ctx context.Context, codigo int) (*dto.Resultado, error) {
	defer metrics.TrackTx("eliminar_pedido")(time.Now())

	if codigo <= 0 {
		return nil, apierror.NotFound("Código de pedido no proporcionado")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindForUpdateTx(tx, codigo); err != nil {
			if noEncontrado(err) {
				return apierror.NotFound("Pedido no encontrado")
			}
			return persistencia(err, "No se pudo leer el pedido %d", codigo)
		}
		if err := s.repo.DeleteTx(tx, codigo); err != nil {
			return persistencia(err, "No se pudo eliminar el pedido %d", codigo)
		}
		return nil
	})
	if txErr != nil {
		if e := apierror.As(txErr); e != nil {
			return nil, e
		}
		return nil, persistencia(txErr, "No se pudo eliminar el pedido %d", codigo)
	}

	metrics.PedidosEliminadosCounter.Inc()
	log.Info().Int("codigo_ped", codigo).Msg("pedido eliminado")
	return dto.Exito(fmt.Sprintf("Pedido %d eliminado", codigo), nil), nil
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	lineas := make([]dto.LineaPedidoResponse, len(p.Lineas))
	for i, l := range p.Lineas {
		nombre := ""
		if l.Producto != nil {
			nombre = l.Producto.Nombre
		}
		lineas[i] = dto.LineaPedidoResponse{
			CodigoProducto: l.CodigoProducto,
			ProductoNombre: nombre,
			Cantidad:       l.Cantidad,
		}
	}
	return dto.PedidoResponse{
		Codigo:         p.Codigo,
		Recogido:       p.Recogido,
		RUTCliente:     p.RUTCliente,
		ListaProductos: lineas,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	return dto.VentaResponse{
		ID:           v.ID,
		CodigoPedido: v.CodigoPedido,
		Total:        v.Total,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
	}
}
