package routes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	_ "erp_lifecycle/docs" // registers the swagger spec
	"erp_lifecycle/internal/adapter/http/handlers"
	"erp_lifecycle/internal/adapter/persistence/memory"
	"erp_lifecycle/internal/adapter/persistence/repository"
	"erp_lifecycle/internal/config"
	"erp_lifecycle/internal/infrastructure/database"
	"erp_lifecycle/internal/infrastructure/logger"
	"erp_lifecycle/internal/usecase"
	"erp_lifecycle/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Stores groups the persistence ports the use cases depend on.
type Stores struct {
	Quotes   interfaces.IQuoteRepository
	Orders   interfaces.IOrderRepository
	Invoices interfaces.IInvoiceRepository
	Writer   interfaces.ILifecycleWriter
}

// Run will start the server
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	stores, err := NewStores(context.Background(), cfg)
	if err != nil {
		log.Error("failed to set up the document store", zap.Error(err))
		return err
	}
	log.Info("document store ready", zap.String("driver", cfg.StoreDriver), zap.Bool("strict_transitions", cfg.StrictTransitions))

	router := NewRouter(stores, usecase.Options{StrictTransitions: cfg.StrictTransitions, Logger: log}, log)
	if err := router.Run(":" + strconv.Itoa(cfg.HTTPPort)); err != nil {
		return fmt.Errorf("failed to startup the application: %w", err)
	}
	return nil
}

// NewStores builds the persistence ports for the configured driver.
func NewStores(ctx context.Context, cfg config.Config) (Stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		store := memory.NewStore()
		return Stores{
			Quotes:   store.Quotes(),
			Orders:   store.Orders(),
			Invoices: store.Invoices(),
			Writer:   store,
		}, nil
	}

	ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS)
	if err != nil {
		return Stores{}, err
	}
	tables := repository.Tables{
		Quotes:   cfg.Tables.Quotes,
		Orders:   cfg.Tables.Orders,
		Invoices: cfg.Tables.Invoices,
		Guards:   cfg.Tables.Guards,
	}
	return Stores{
		Quotes:   repository.NewQuoteDynamoRepository(ddb, tables),
		Orders:   repository.NewOrderDynamoRepository(ddb, tables),
		Invoices: repository.NewInvoiceDynamoRepository(ddb, tables),
		Writer:   repository.NewLifecycleDynamoWriter(ddb, tables),
	}, nil
}

// NewRouter wires use cases and handlers onto a gin engine.
func NewRouter(stores Stores, opts usecase.Options, log *zap.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	quoteUseCase := usecase.NewQuoteUseCase(stores.Quotes, opts)
	orderUseCase := usecase.NewOrderUseCase(stores.Quotes, stores.Orders, stores.Writer, opts)
	invoiceUseCase := usecase.NewInvoiceUseCase(stores.Invoices, stores.Orders, stores.Writer, opts)

	quoteHandler := handlers.NewQuoteHandler(quoteUseCase, orderUseCase)
	orderHandler := handlers.NewOrderHandler(orderUseCase)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addLifecycleRoutes(v1, quoteHandler, orderHandler, invoiceHandler)
	return router
}

func setMiddlewares(router *gin.Engine, log *zap.Logger) {
	router.Use(requestLogger(log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("recovered from panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(500)
	}))
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
