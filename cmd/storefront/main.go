package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	_ "github.com/velostore/storefront/docs"
	"github.com/velostore/storefront/internal/cart"
	cartHTTP "github.com/velostore/storefront/internal/cart/delivery/http"
	cartDomain "github.com/velostore/storefront/internal/cart/domain"
	cartRepo "github.com/velostore/storefront/internal/cart/repository"
	catalogHTTP "github.com/velostore/storefront/internal/catalog/delivery/http"
	catalogRepo "github.com/velostore/storefront/internal/catalog/repository"
	"github.com/velostore/storefront/internal/content"
	contentHTTP "github.com/velostore/storefront/internal/content/delivery/http"
	"github.com/velostore/storefront/internal/identity"
	identityHTTP "github.com/velostore/storefront/internal/identity/delivery/http"
	identityRepo "github.com/velostore/storefront/internal/identity/repository"
	"github.com/velostore/storefront/internal/session"
	"github.com/velostore/storefront/kafka"
	"github.com/velostore/storefront/pkg/database"
	"github.com/velostore/storefront/pkg/logger"
	"github.com/velostore/storefront/pkg/tracing"
)

func main() {
	// Load .env if present, real deployments set the environment directly
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "storefront-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting storefront service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Cart gateway: GORM by default, raw database/sql when selected
	cartRepository, err := buildCartRepository(db, dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize cart repository")
	}

	userRepository, err := identityRepo.NewGormUserRepository(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user repository")
	}

	productRepository, err := catalogRepo.NewGormProductRepository(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product repository")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher is optional, the cart works without analytics
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, cart events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Redis is optional, content caching degrades to direct CDN fetches
	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		defer redisClient.Close()
	}

	carts := cart.NewService(cartRepository)
	adapter := identity.NewAdapter(userRepository)
	detector := content.NewDetector()
	contentClient := content.NewClient()

	cartHandler := cartHTTP.NewCartHandler(carts, publisher)
	catalogHandler := catalogHTTP.NewProductHandler(catalogRepo.NewTracingProductRepository(productRepository))
	userHandler := identityHTTP.NewUserHandler(adapter, carts)
	contentHandler := contentHTTP.NewContentHandler(content.NewCachedClient(contentClient, redisClient), contentClient)

	// Setup router
	router := mux.NewRouter()
	router.Use(session.Middleware(detector))

	cartHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	contentHandler.RegisterRoutes(router)
	cartHandler.RegisterHealthCheck(router, sqlDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	cartHTTP.RegisterSwaggerDocs(router, httpSwagger.WrapHandler)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

// buildCartRepository selects the cart gateway implementation. Both speak to
// the same cart_items table, CART_REPOSITORY picks gorm (default) or postgres.
func buildCartRepository(db *gorm.DB, cfg database.Config) (cartDomain.CartRepository, error) {
	switch getEnv("CART_REPOSITORY", "gorm") {
	case "postgres":
		sqlConn, err := database.NewPostgresConnection(cfg)
		if err != nil {
			return nil, err
		}
		return cartRepo.NewTracingCartRepository(cartRepo.NewPostgresCartRepository(sqlConn)), nil
	default:
		repo := cartRepo.NewGormCartRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, err
		}
		return cartRepo.NewTracingCartRepository(repo), nil
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
