//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/delivery/http"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/internal/cart/usecase/command"
	"github.com/velostore/storefront/internal/cart/usecase/query"
	"github.com/velostore/storefront/kafka"
)

// ProvideCartService provides the cart service
func ProvideCartService(repo domain.CartRepository) *cart.Service {
	return cart.NewService(repo)
}

// Command Handlers Providers
func ProvideAddItemHandler(carts *cart.Service, publisher *kafka.Publisher) *command.AddItemHandler {
	return command.NewAddItemHandler(carts, publisher)
}

func ProvideUpdateQuantityHandler(carts *cart.Service, publisher *kafka.Publisher) *command.UpdateQuantityHandler {
	return command.NewUpdateQuantityHandler(carts, publisher)
}

func ProvideRemoveItemHandler(carts *cart.Service, publisher *kafka.Publisher) *command.RemoveItemHandler {
	return command.NewRemoveItemHandler(carts, publisher)
}

func ProvideClearCartHandler(carts *cart.Service, publisher *kafka.Publisher) *command.ClearCartHandler {
	return command.NewClearCartHandler(carts, publisher)
}

// Query Handlers Providers
func ProvideGetCartHandler(carts *cart.Service) *query.GetCartHandler {
	return query.NewGetCartHandler(carts)
}

func ProvideGetSummaryHandler(carts *cart.Service) *query.GetSummaryHandler {
	return query.NewGetSummaryHandler(carts)
}

// Wire sets
var ServiceSet = wire.NewSet(
	ProvideCartService,
)

var CommandHandlerSet = wire.NewSet(
	ProvideAddItemHandler,
	ProvideUpdateQuantityHandler,
	ProvideRemoveItemHandler,
	ProvideClearCartHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetCartHandler,
	ProvideGetSummaryHandler,
)

var AllHandlersSet = wire.NewSet(
	ServiceSet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(repo domain.CartRepository, publisher *kafka.Publisher) (*http.CartHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewCartHandlerWithDI,
	)
	return nil, nil
}
