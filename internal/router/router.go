package router

import (
	"time"

	"almacen/internal/config"
	"almacen/internal/handler"
	"almacen/internal/middleware"
	"almacen/internal/repository"
	"almacen/internal/service"
	"almacen/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	rolAdministrador = "administrador"
	rolSupervisor    = "supervisor"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil: the product cache and async jobs are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// Worker dispatcher, injected into services that enqueue async jobs
	var jobs service.Encolador
	if rdb != nil {
		jobs = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	clienteSvc := service.NewClienteService(clienteRepo, jobs, cfg.NombreTienda)
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo, rdb)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, ventaRepo, movimientoStockRepo, productoSvc, rdb, jobs)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Customer self-registration (public)
	r.POST("/v1/clientes", clientesH.Registrar)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	lectura := middleware.RequireRole(rolSupervisor, rolAdministrador)
	escritura := middleware.RequireRole(rolAdministrador)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/clientes/:rut", lectura, clientesH.ObtenerPorRUT)

		prov := v1.Group("/proveedores")
		{
			prov.GET("", lectura, proveedoresH.Listar)
			prov.GET("/:rut", lectura, proveedoresH.ObtenerPorRUT)
			prov.POST("", escritura, proveedoresH.Registrar)
			prov.PUT("/:rut", escritura, proveedoresH.Actualizar)
			prov.DELETE("/:rut", escritura, proveedoresH.Eliminar)
		}

		prods := v1.Group("/productos", lectura)
		{
			prods.GET("", productosH.Listar)
			prods.GET("/:codigo", productosH.ObtenerPorCodigo)
			prods.GET("/:codigo/movimientos", productosH.Movimientos)
		}

		admin := v1.Group("/admin", escritura)
		{
			admin.GET("", pedidosH.Admin)
			admin.GET("/pedidos", pedidosH.Listar)
			admin.POST("/pedidos/:codigo/recogido", pedidosH.MarcarRecogido)
			admin.DELETE("/pedidos/:codigo", pedidosH.Eliminar)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
