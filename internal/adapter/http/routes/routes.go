package routes

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "lunapay/docs" // This will be auto-generated
	"lunapay/internal/adapter/http/handlers"
	"lunapay/internal/adapter/http/middleware"
	repository "lunapay/internal/adapter/persistence/repository"
	"lunapay/internal/infrastructure/config"
	"lunapay/internal/infrastructure/database"
	"lunapay/internal/infrastructure/gateways"
	"lunapay/internal/usecase"
	"lunapay/pkg/logger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rootLog := logger.New(logger.Options{
		ServiceName: "lunapay",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg, rootLog)

	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg *config.Config, rootLog zerolog.Logger) {
	ddb, err := database.ConnectDynamoDB(context.Background(), cfg.DynamoDB)
	if err != nil {
		log.Fatalf("Failed to connect to DynamoDB: %v", err)
	}

	paymentRepo := repository.NewPaymentDynamoRepository(ddb, cfg.DynamoDB.PaymentsTable)

	registry := gateways.NewGatewayRegistry(
		gateways.NewAsaasGateway(cfg, rootLog),
		gateways.NewC6Gateway(cfg, rootLog),
		gateways.NewMercadoPagoGateway(cfg, rootLog),
	)

	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, registry, rootLog)
	webhookUseCase := usecase.NewWebhookUseCase(paymentRepo, registry, rootLog)

	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, rootLog)
	webhookHandler := handlers.NewWebhookHandler(webhookUseCase, rootLog)

	v1 := router.Group("/v1")
	v1.Use(middleware.Principal(), middleware.RequireModule("payments"))
	v1.GET("/ping", func(c *gin.Context) {
		principal, _ := middleware.PrincipalFrom(c)
		c.JSON(200, gin.H{"message": "pong", "tenant_id": principal.TenantID})
	})
	addPaymentRoutes(v1, paymentHandler)

	// Webhook routes carry provider signatures instead of identity headers.
	addWebhookRoutes(router.Group("/webhooks"), webhookHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
