package main

// @title Storefront Service API
// @version 1.0
// @description Storefront back-end: CMS-preview-aware cart, catalog, identity and content delivery with full observability stack (Prometheus, Jaeger)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/velostore/storefront
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/velostore/storefront/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Cart
// @tag.description Shopping cart endpoints

// @tag.name Products
// @tag.description Product catalog endpoints

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Content
// @tag.description CMS content delivery endpoints

// @tag.name Health
// @tag.description Health check endpoints
