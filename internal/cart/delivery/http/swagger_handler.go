package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// GetCart godoc
// @Summary Get the current cart
// @Description Get the caller's cart with denormalized product details. Editor preview sessions always receive the sample cart.
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param builder.preview query string false "CMS preview marker"
// @Success 200 {object} object{success=bool,data=object{items=array,item_count=int,cart_total=number,is_open=bool}}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/cart [get]
func (h *CartHandler) GetCartDoc() {}

// GetSummary godoc
// @Summary Get cart badge counters
// @Description Get the item count and total for the header badge
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{item_count=int,cart_total=number}}
// @Router /api/cart/summary [get]
func (h *CartHandler) GetSummaryDoc() {}

// AddItem godoc
// @Summary Add a product to the cart
// @Description Add a product to the cart. Adding an already-carted product increments its quantity.
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=string,quantity=int} true "Product to add"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/cart/items [post]
func (h *CartHandler) AddItemDoc() {}

// UpdateQuantity godoc
// @Summary Change a line item's quantity
// @Description Set the quantity of a cart line. Zero or negative removes the line.
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Line item ID"
// @Param request body object{quantity=int} true "New quantity"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantityDoc() {}

// RemoveItem godoc
// @Summary Remove a line item
// @Description Delete a line item from the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path string true "Line item ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/items/{id} [delete]
func (h *CartHandler) RemoveItemDoc() {}

// ClearCart godoc
// @Summary Empty the cart
// @Description Remove every line item from the caller's cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/cart [delete]
func (h *CartHandler) ClearCartDoc() {}

// ToggleVisibility godoc
// @Summary Toggle the cart drawer
// @Description Toggle the open state of the cart drawer for this session
// @Tags Cart
// @Produce json
// @Success 200 {object} object{success=bool,data=object{is_open=bool}}
// @Router /api/cart/visibility [post]
func (h *CartHandler) ToggleVisibilityDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *CartHandler) HealthCheckDoc() {}
