package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/sewflow/backend/internal/application/catalog"
	identityapp "github.com/sewflow/backend/internal/application/identity"
	labelingapp "github.com/sewflow/backend/internal/application/labeling"
	stockapp "github.com/sewflow/backend/internal/application/stock"
	workflowapp "github.com/sewflow/backend/internal/application/workflow"
	"github.com/sewflow/backend/internal/infrastructure/config"
	"github.com/sewflow/backend/internal/infrastructure/logger"
	"github.com/sewflow/backend/internal/infrastructure/marketplace"
	"github.com/sewflow/backend/internal/infrastructure/pdf"
	"github.com/sewflow/backend/internal/infrastructure/persistence"
	"github.com/sewflow/backend/internal/infrastructure/secrets"
	"github.com/sewflow/backend/internal/infrastructure/storage"
	"github.com/sewflow/backend/internal/interfaces/http/handler"
	"github.com/sewflow/backend/internal/interfaces/http/middleware"
	"github.com/sewflow/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting sewflow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	log.Info("database ready")

	// Repositories
	workspaceRepo := persistence.NewGormWorkspaceRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	productGroupRepo := persistence.NewGormProductGroupRepository(db.DB)
	sourceDocRepo := persistence.NewGormSourceDocumentRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	printTaskRepo := persistence.NewGormPrintTaskRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	boxRepo := persistence.NewGormBoxRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	materialRepo := persistence.NewGormMaterialLedgerRepository(db.DB)
	finishedGoodsRepo := persistence.NewGormFinishedGoodsRepository(db.DB)
	usageRepo := persistence.NewGormUsageRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Token sealer. Without a configured key workspace tokens only survive
	// until the next restart.
	tokenKey := cfg.Secrets.TokenKey
	if tokenKey == "" {
		tokenKey = generateEphemeralKey()
		log.Warn("secrets.token_key not configured, using an ephemeral key; stored marketplace tokens will not survive a restart")
	}
	sealer, err := secrets.NewSealer(tokenKey)
	if err != nil {
		log.Fatal("failed to initialize token sealer", zap.Error(err))
	}

	// Marketplace client, optionally fronted by the Redis card cache
	var market marketplace.Client = marketplace.NewHTTPClient(cfg.Marketplace, log)
	if cfg.Redis.Enabled {
		cache, err := marketplace.NewCardCache(cfg.Redis, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		market = marketplace.NewCachedClient(market, cache)
		log.Info("marketplace card cache enabled")
	}

	// Artifact storage
	var store storage.ArtifactStore
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Store(&cfg.Storage, log)
	default:
		store, err = storage.NewLocalStore(cfg.Storage.LocalDir)
	}
	if err != nil {
		log.Fatal("failed to initialize artifact storage", zap.Error(err))
	}
	log.Info("artifact storage ready", zap.String("backend", cfg.Storage.Backend))

	// Document pipeline
	ingestor := pdf.NewIngestor(log)
	labelComposer := pdf.NewLabelComposer(cfg.Labels.FontPath, cfg.Labels.LogoPath, log)
	shipmentComposer := pdf.NewShipmentComposer(log)

	// Application services
	workspaceService := identityapp.NewService(workspaceRepo, sealer, log)
	catalogService := catalogapp.NewService(workspaceRepo, productRepo, productGroupRepo, market, sealer, log)
	labelService := labelingapp.NewService(workspaceRepo, productRepo, sourceDocRepo, ingestor, labelComposer, pdf.ComposePagesPDF, store, log)
	orderService := workflowapp.NewOrderService(orderRepo, productRepo, log)
	printService := workflowapp.NewPrintService(scope, printTaskRepo, orderRepo, log)
	productionService := workflowapp.NewProductionService(scope, orderRepo, productionRepo, productRepo, sourceDocRepo, workspaceRepo, labelComposer, store, log)
	boxService := workflowapp.NewBoxService(scope, boxRepo, productionRepo, productRepo, workspaceRepo, market, sealer, log)
	deliveryService := workflowapp.NewDeliveryService(scope, boxRepo, deliveryRepo, shipmentComposer, store, log)
	materialService := stockapp.NewMaterialService(materialRepo, log)
	finishedGoodsService := stockapp.NewFinishedGoodsService(finishedGoodsRepo, log)
	usageService := stockapp.NewUsageService(usageRepo, log)

	// Handlers
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	labelHandler := handler.NewLabelHandler(labelService)
	orderHandler := handler.NewOrderHandler(orderService)
	printHandler := handler.NewPrintHandler(printService)
	productionHandler := handler.NewProductionHandler(productionService)
	boxHandler := handler.NewBoxHandler(boxService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	materialHandler := handler.NewMaterialHandler(materialService)
	finishedGoodsHandler := handler.NewFinishedGoodsHandler(finishedGoodsService)
	usageHandler := handler.NewUsageHandler(usageService)

	// HTTP engine
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("invalid trusted proxies", zap.Error(err))
	}
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
		middleware.Secure(),
	)

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine)
	workspaceScoped := middleware.RequireWorkspace()

	// Workspace management, addressed by path rather than header
	workspaceRoutes := router.NewDomainGroup("/workspaces")
	workspaceRoutes.POST("", workspaceHandler.Create)
	workspaceRoutes.GET("", workspaceHandler.List)
	workspaceRoutes.GET("/:id", workspaceHandler.Get)
	workspaceRoutes.PUT("/:id/settings", workspaceHandler.UpdateSettings)
	workspaceRoutes.PUT("/:id/token", workspaceHandler.SetToken)
	workspaceRoutes.DELETE("/:id", workspaceHandler.Delete)

	// Product catalog
	catalogRoutes := router.NewDomainGroup("/catalog").Use(workspaceScoped)
	catalogRoutes.POST("/sync", catalogHandler.Sync)
	catalogRoutes.GET("/products", catalogHandler.ListProducts)
	catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)
	catalogRoutes.GET("/groups", catalogHandler.ListGroups)

	// Label sources and generation
	labelRoutes := router.NewDomainGroup("/labels").Use(workspaceScoped)
	labelRoutes.POST("/sources", labelHandler.Upload)
	labelRoutes.GET("/sources", labelHandler.List)
	labelRoutes.GET("/sources/:id", labelHandler.Get)
	labelRoutes.GET("/sources/:id/download", labelHandler.Download)
	labelRoutes.DELETE("/sources/:id", labelHandler.Delete)
	labelRoutes.POST("/generate", labelHandler.Generate)

	// Orders
	orderRoutes := router.NewDomainGroup("/orders").Use(workspaceScoped)
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.PUT("/:id", orderHandler.Rename)
	orderRoutes.DELETE("/:id", orderHandler.Delete)
	orderRoutes.POST("/:id/items", orderHandler.AddItem)
	orderRoutes.PUT("/:id/items/:item_id", orderHandler.UpdateItem)
	orderRoutes.DELETE("/:id/items/:item_id", orderHandler.DeleteItem)

	// Print queue
	printRoutes := router.NewDomainGroup("/print").Use(workspaceScoped)
	printRoutes.GET("/tasks", printHandler.List)
	printRoutes.POST("/copy", printHandler.Copy)
	printRoutes.PUT("/tasks/:id", printHandler.Update)
	printRoutes.POST("/tasks/:id/complete", printHandler.Complete)
	printRoutes.DELETE("/tasks/:id", printHandler.Delete)
	printRoutes.DELETE("/tasks", printHandler.Clear)

	// Production stage
	productionRoutes := router.NewDomainGroup("/production").Use(workspaceScoped)
	productionRoutes.GET("", productionHandler.List)
	productionRoutes.POST("/move", productionHandler.Move)
	productionRoutes.PUT("/:id/box", productionHandler.AssignBox)
	productionRoutes.PUT("/:id/selected", productionHandler.SetSelected)
	productionRoutes.DELETE("/:id", productionHandler.Delete)

	// Boxing stage
	boxRoutes := router.NewDomainGroup("/boxes").Use(workspaceScoped)
	boxRoutes.GET("", boxHandler.List)
	boxRoutes.GET("/:id", boxHandler.Get)
	boxRoutes.POST("/move", boxHandler.Move)
	boxRoutes.PUT("/:id", boxHandler.Update)
	boxRoutes.POST("/delivery-info", boxHandler.SetDeliveryInfo)
	boxRoutes.DELETE("/:id", boxHandler.Delete)

	// Delivery stage
	deliveryRoutes := router.NewDomainGroup("/deliveries").Use(workspaceScoped)
	deliveryRoutes.GET("", deliveryHandler.List)
	deliveryRoutes.GET("/:id", deliveryHandler.Get)
	deliveryRoutes.POST("/move", deliveryHandler.Move)
	deliveryRoutes.GET("/:id/documents/:kind", deliveryHandler.DownloadDocument)
	deliveryRoutes.POST("/:id/archive", deliveryHandler.Archive)
	deliveryRoutes.DELETE("/:id", deliveryHandler.Delete)

	// Stock: materials, finished goods, usage ledger
	stockRoutes := router.NewDomainGroup("/stock").Use(workspaceScoped)
	stockRoutes.GET("/materials", materialHandler.Get)
	stockRoutes.PUT("/materials", materialHandler.Update)
	stockRoutes.POST("/finished-goods", finishedGoodsHandler.Create)
	stockRoutes.GET("/finished-goods", finishedGoodsHandler.List)
	stockRoutes.GET("/finished-goods/:id", finishedGoodsHandler.Get)
	stockRoutes.PUT("/finished-goods/:id/stock", finishedGoodsHandler.SetStock)
	stockRoutes.POST("/finished-goods/:id/defects", finishedGoodsHandler.StageDefect)
	stockRoutes.POST("/finished-goods/:id/defects/apply", finishedGoodsHandler.ApplyDefects)
	stockRoutes.DELETE("/finished-goods/:id", finishedGoodsHandler.Delete)
	stockRoutes.GET("/usage", usageHandler.ListByDay)
	stockRoutes.GET("/usage/summary", usageHandler.Summary)
	stockRoutes.DELETE("/usage/:id", usageHandler.DeleteEntry)

	r.Register(workspaceRoutes).
		Register(catalogRoutes).
		Register(labelRoutes).
		Register(orderRoutes).
		Register(printRoutes).
		Register(productionRoutes).
		Register(boxRoutes).
		Register(deliveryRoutes).
		Register(stockRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}

func generateEphemeralKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate ephemeral token key: " + err.Error())
	}
	return hex.EncodeToString(key)
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
