package router

import (
	"time"

	"ecommerce/internal/config"
	"ecommerce/internal/handler"
	"ecommerce/internal/middleware"
	"ecommerce/internal/repository"
	"ecommerce/internal/service"
	"ecommerce/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	kardexRepo := repository.NewKardexRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)
	carritoRepo := repository.NewCarritoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	alertaSvc := service.NewAlertaService(alertaRepo, productoRepo)
	kardexSvc := service.NewKardexService(kardexRepo, productoRepo, alertaSvc, dispatcher)
	ordenSvc := service.NewOrdenService(ordenRepo, productoRepo, clienteRepo, kardexSvc, alertaSvc, dispatcher)
	carritoSvc := service.NewCarritoService(carritoRepo, productoRepo, ordenSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ordenesH := handler.NewOrdenesHandler(ordenSvc)
	kardexH := handler.NewKardexHandler(kardexSvc)
	alertasH := handler.NewAlertasHandler(alertaSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api")
	{
		// Cart works for anonymous sessions (X-Session-ID) and logged-in users
		carrito := api.Group("/carrito", middleware.JWTOptional(cfg.JWTSecret))
		{
			carrito.GET("", carritoH.ObtenerCarrito)
			carrito.DELETE("", carritoH.VaciarCarrito)
			carrito.POST("/items", carritoH.AgregarItem)
			carrito.PATCH("/items/:id", carritoH.ActualizarItem)
			carrito.DELETE("/items/:id", carritoH.EliminarItem)
			carrito.POST("/checkout", carritoH.Checkout)
		}

		// Orders — any authenticated principal can create and read
		api.POST("/ordenes", jwtMW, middleware.RequireRole("cliente", "admin"), ordenesH.CrearOrden)
		api.GET("/ordenes", jwtMW, middleware.RequireRole("cliente", "admin"), ordenesH.ListarOrdenes)
		api.GET("/ordenes/:id", jwtMW, middleware.RequireRole("cliente", "admin"), ordenesH.ObtenerOrden)
		// State transitions and cancellation are back-office operations
		api.PATCH("/ordenes/:id/estado", jwtMW, middleware.RequireRole("admin"), ordenesH.CambiarEstado)
		api.DELETE("/ordenes/:id", jwtMW, middleware.RequireRole("admin"), ordenesH.CancelarOrden)

		// Inventory ledger and manual adjustments — back-office only
		api.GET("/kardex", jwtMW, middleware.RequireRole("admin"), kardexH.Listar)
		api.PATCH("/productos/:id/stock", jwtMW, middleware.RequireRole("admin"), kardexH.AjustarStock)

		// Stock alerts — back-office only
		api.GET("/alertas", jwtMW, middleware.RequireRole("admin"), alertasH.ListarPendientes)
		api.PATCH("/alertas/:id/revisar", jwtMW, middleware.RequireRole("admin"), alertasH.MarcarRevisada)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
