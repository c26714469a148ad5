package main

import (
	"context"
	"encoding/json"
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

	"github.com/velostore/storefront/kafka"
	"github.com/velostore/storefront/pkg/logger"
	"github.com/velostore/storefront/pkg/tracing"
)

const topProductsKey = "analytics:top-products"

func main() {
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "analytics-service")
	logger.Init(serviceName, getEnv("ENVIRONMENT", "development") == "development")
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().Str("service", serviceName).Msg("Starting analytics service")

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

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
	})
	defer redisClient.Close()

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	consumer, err := kafka.NewConsumer(brokers, getEnv("KAFKA_GROUP_ID", "analytics"), []string{kafka.TopicCartEvents})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	// Every add bumps the product's score in the leaderboard
	consumer.RegisterHandler(kafka.EventTypeCartItemAdded, func(ctx context.Context, event kafka.CartEvent) error {
		if event.ProductID == "" {
			return nil
		}
		return redisClient.ZIncrBy(ctx, topProductsKey, float64(event.Quantity), event.ProductID).Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Logger.Fatal().Err(err).Msg("Kafka consumer stopped")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/api/analytics/top-products", topProductsHandler(redisClient)).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())

	httpPort := getEnv("HTTP_PORT", "8084")
	server := &http.Server{Addr: ":" + httpPort, Handler: router}

	go func() {
		logger.Logger.Info().Str("port", httpPort).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down analytics service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

func topProductsHandler(redisClient *redis.Client) http.HandlerFunc {
	type entry struct {
		ProductID string  `json:"product_id"`
		Score     float64 `json:"score"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := redisClient.ZRevRangeWithScores(r.Context(), topProductsKey, 0, 9).Result()
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to read top products")
			http.Error(w, "failed to read top products", http.StatusInternalServerError)
			return
		}

		entries := make([]entry, 0, len(results))
		for _, z := range results {
			id, _ := z.Member.(string)
			entries = append(entries, entry{ProductID: id, Score: z.Score})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"top_products": entries})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
