package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/invoicebridge/backend/internal/application/billing"
	"github.com/invoicebridge/backend/internal/infrastructure/config"
	"github.com/invoicebridge/backend/internal/infrastructure/invoicing"
	"github.com/invoicebridge/backend/internal/infrastructure/logger"
	"github.com/invoicebridge/backend/internal/infrastructure/shopify"
	"github.com/invoicebridge/backend/internal/interfaces/http/handler"
	"github.com/invoicebridge/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice bridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.Shopify.WebhookSecret == "" {
		log.Warn("Shopify webhook secret is empty, all webhooks will be rejected")
	}

	// Initialize inFakt gateway
	infaktCfg := invoicing.NewInfaktConfig(cfg.Invoicing.APIKey)
	infaktCfg.Host = cfg.Invoicing.Host
	infaktCfg.Series = cfg.Invoicing.Series
	infaktCfg.MarkPaidEnabled = cfg.Invoicing.MarkPaidEnabled
	infaktCfg.TimeoutSeconds = cfg.Invoicing.TimeoutSeconds

	gateway, err := invoicing.NewInfaktAdapter(infaktCfg)
	if err != nil {
		log.Fatal("Failed to initialize inFakt adapter", zap.Error(err))
	}

	// Wire application service
	orderService := billingapp.NewOrderInvoiceService(billingapp.OrderInvoiceServiceConfig{
		Verifier: shopify.NewWebhookVerifier(cfg.Shopify.WebhookSecret),
		Gateway:  gateway,
		Series:   infaktCfg.Series,
		MarkPaid: infaktCfg.MarkPaidEnabled,
		Logger:   log.Named("billing"),
	})

	engine := buildEngine(cfg, log, orderService)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildEngine assembles the gin engine with middleware and routes
func buildEngine(cfg *config.Config, log *zap.Logger, orderService *billingapp.OrderInvoiceService) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	systemHandler := handler.NewSystemHandler()
	webhookHandler := handler.NewOrderWebhookHandler(orderService)

	engine.GET("/health", systemHandler.Health)
	engine.GET("/ping", systemHandler.Ping)
	engine.POST("/webhook/orders/create", webhookHandler.HandleOrderCreated)

	return engine
}
