package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string
	BaseURL     string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration. Instance lists are
// comma-separated URLs, defaulting to the single base URL.
func LoadConfig() *GatewayConfig {
	storefrontURL := getEnv("STOREFRONT_SERVICE_URL", "http://localhost:8080")
	analyticsURL := getEnv("ANALYTICS_SERVICE_URL", "http://localhost:8084")

	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"storefront": {
				Name:        "storefront-service",
				BaseURL:     storefrontURL,
				Instances:   instances("STOREFRONT_SERVICE_INSTANCES", storefrontURL),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"analytics": {
				Name:        "analytics-service",
				BaseURL:     analyticsURL,
				Instances:   instances("ANALYTICS_SERVICE_INSTANCES", analyticsURL),
				Timeout:     10 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func instances(key, fallback string) []string {
	if raw := os.Getenv(key); raw != "" {
		var urls []string
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) > 0 {
			return urls
		}
	}
	return []string{fallback}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
