package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/model"
	"almacen/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const productoCacheTTL = 60 * time.Second

// ProductoService defines the read side of the catalogue used by the
// admin screen.
type ProductoService interface {
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ListarTodos(ctx context.Context) ([]dto.ProductoResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo int) (*dto.ProductoResponse, error)
	Movimientos(ctx context.Context, codigo, page, limit int) ([]dto.MovimientoStockResponse, int64, error)
}

type productoService struct {
	repo    repository.ProductoRepository
	movRepo repository.MovimientoStockRepository
	rdb     *redis.Client
}

// NewProductoService wires the catalogue. rdb may be nil, which disables the
// per-product cache.
func NewProductoService(repo repository.ProductoRepository, movRepo repository.MovimientoStockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, movRepo: movRepo, rdb: rdb}
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, persistencia(err, "No se pudo listar los productos")
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i])
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *productoService) ListarTodos(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, persistencia(err, "No se pudo listar los productos")
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo int) (*dto.ProductoResponse, error) {
	if cached, ok := s.leerCache(ctx, codigo); ok {
		return cached, nil
	}

	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		if noEncontrado(err) {
			return nil, apierror.NotFound("Producto %d no encontrado", codigo)
		}
		return nil, persistencia(err, "No se pudo leer el producto %d", codigo)
	}
	resp := productoToResponse(p)
	s.guardarCache(ctx, &resp)
	return &resp, nil
}

func (s *productoService) Movimientos(ctx context.Context, codigo, page, limit int) ([]dto.MovimientoStockResponse, int64, error) {
	if _, err := s.ObtenerPorCodigo(ctx, codigo); err != nil {
		return nil, 0, err
	}
	movs, total, err := s.movRepo.List(ctx, repository.MovimientoStockFilter{
		CodigoProducto: codigo,
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return nil, 0, persistencia(err, "No se pudo leer los movimientos del producto %d", codigo)
	}
	resp := make([]dto.MovimientoStockResponse, len(movs))
	for i, m := range movs {
		resp[i] = dto.MovimientoStockResponse{
			ID:            m.ID,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			VentaID:       m.VentaID,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, total, nil
}

// ── cache ─────────────────────────────────────────────────────────────────────

func productoCacheKey(codigo int) string { return fmt.Sprintf("producto:%d", codigo) }

func (s *productoService) leerCache(ctx context.Context, codigo int) (*dto.ProductoResponse, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, productoCacheKey(codigo)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.ProductoResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (s *productoService) guardarCache(ctx context.Context, resp *dto.ProductoResponse) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, productoCacheKey(resp.Codigo), data, productoCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Int("codigo", resp.Codigo).Msg("cache de producto no disponible")
	}
}

// invalidarProductos drops cached entries after their stock changed.
func invalidarProductos(ctx context.Context, rdb *redis.Client, codigos []int) {
	if rdb == nil || len(codigos) == 0 {
		return
	}
	keys := make([]string, len(codigos))
	for i, c := range codigos {
		keys[i] = productoCacheKey(c)
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Ints("productos", codigos).Msg("no se pudo invalidar la cache de productos")
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Existencias: p.Existencias,
		Precio:      p.Precio,
	}
}
