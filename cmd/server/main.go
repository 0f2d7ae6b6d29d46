package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boutique-pos/internal/ai"
	"boutique-pos/internal/config"
	"boutique-pos/internal/engine"
	"boutique-pos/internal/handlers"
	"boutique-pos/internal/logger"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/notify"
	"boutique-pos/internal/scheduler"
	"boutique-pos/internal/storage"
	"boutique-pos/internal/storage/gormstore"
	"boutique-pos/internal/storage/memory"
	"boutique-pos/internal/storage/mongostore"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New())
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error("failed to close storage", zap.Error(err))
		}
	}()

	// The sale engine is the single writer for commits.
	var engineOpts []engine.Option
	if cfg.Engine.StrictStock {
		engineOpts = append(engineOpts, engine.WithStrictStock())
		log.Info("strict stock mode enabled")
	}
	eng := engine.New(store, engineOpts...)

	var agent *ai.Agent
	if cfg.AI.GeminiKey != "" {
		agent = ai.New(store, cfg.AI.GeminiKey)
		log.Info("assistant enabled")
	}

	var notifier notify.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notify.WebhookURL)
		log.Info("webhook notifications enabled")
	}

	sched := scheduler.New(cfg.Reporting.SummaryCron, store, notifier, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	h := handlers.New(store, eng, agent, log.Named("http"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		// Catalog
		api.GET("/products", h.GetProducts)
		api.POST("/products", h.AddProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)
		api.GET("/products/scan/:barcode", h.ScanProduct)
		api.POST("/upload", h.UploadImage)
		api.GET("/categories", h.GetCategories)
		api.POST("/categories", h.AddCategory)

		// Register
		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddToCart)
		api.PUT("/cart/items/:id", h.UpdateCartLine)
		api.DELETE("/cart/items/:id", h.RemoveCartLine)
		api.PUT("/cart", h.SetCartParams)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/checkout", h.Checkout)

		// Partners & expenses
		api.GET("/suppliers", h.GetSuppliers)
		api.POST("/suppliers", h.AddSupplier)
		api.PUT("/suppliers/:id", h.UpdateSupplier)
		api.DELETE("/suppliers/:id", h.DeleteSupplier)
		api.GET("/customers", h.GetCustomers)
		api.POST("/customers", h.AddCustomer)
		api.PUT("/customers/:id", h.UpdateCustomer)
		api.DELETE("/customers/:id", h.DeleteCustomer)
		api.GET("/expenses", h.GetExpenses)
		api.POST("/expenses", h.AddExpense)
		api.DELETE("/expenses/:id", h.DeleteExpense)

		// Reports
		api.GET("/reports", h.GetSalesReport)
		api.GET("/reports/dashboard", h.GetDashboard)
		api.GET("/reports/monthly", h.GetMonthlyReport)
		api.GET("/reports/categories", h.GetCategoryReport)
		api.GET("/reports/valuation", h.GetStockValuation)

		// Settings & company
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.SaveSettings)
		api.GET("/company", h.GetCompanyInfo)
		api.PUT("/company", h.SaveCompanyInfo)
		api.GET("/format", h.FormatAmount)

		// Backup / restore
		api.GET("/backup", h.ExportBackup)
		api.POST("/backup", h.ImportBackup)

		// Assistant
		api.POST("/ask", h.AskAI)
	}

	log.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server failed to start", zap.Error(err))
	}
}

func openStore(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("using in-memory storage, data will not survive a restart")
		return memory.New(), nil
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mongostore.Open(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDBName, log.Named("mongo"))
	default:
		return gormstore.Open(cfg.Storage.Driver, cfg.Storage.DSN, log.Named("db"))
	}
}
