package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/velostore/storefront/api-gateway/config"
	"github.com/velostore/storefront/api-gateway/health"
	"github.com/velostore/storefront/api-gateway/middleware"
	"github.com/velostore/storefront/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool // Rejects requests without a valid token
	OptionalAuth bool // Forwards identity when present, anonymous otherwise
}

// Routes holds all route definitions. Cart and profile routes use optional
// auth: anonymous shoppers and CMS preview sessions are legitimate callers.
var Routes = []RouteDefinition{
	{
		Prefix:       "/api/auth",
		ServiceName:  "storefront",
		Description:  "Identity provider hand-off (login, logout)",
		OptionalAuth: true,
	},
	{
		Prefix:      "/api/products",
		ServiceName: "storefront",
		Description: "Product catalog (public)",
	},
	{
		Prefix:      "/api/content",
		ServiceName: "storefront",
		Description: "CMS content delivery (public)",
	},
	{
		Prefix:       "/api/cart",
		ServiceName:  "storefront",
		Description:  "Shopping cart (anonymous and preview allowed)",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/users",
		ServiceName:  "storefront",
		Description:  "User profile",
		OptionalAuth: true,
	},
	{
		Prefix:      "/api/analytics",
		ServiceName: "analytics",
		Description: "Cart analytics leaderboard",
		RequireAuth: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, cbManager *middleware.CircuitBreakerManager, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllServices(ctx))
	})

	// Circuit breaker stats
	app.Get("/health/circuits", func(c *fiber.Ctx) error {
		return c.JSON(cbManager.GetAllStats())
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Storefront Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	// Catalog and content writes flush the response cache
	if redisClient != nil {
		app.Use(middleware.InvalidateOnMutation(redisClient))
	}

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	} else if route.OptionalAuth {
		middlewares = append(middlewares, middleware.OptionalAuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
