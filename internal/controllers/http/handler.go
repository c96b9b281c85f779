package http

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders    *services.OrderService
	carts     *services.CartService
	addresses *services.AddressService
	products  *services.ProductService
	cache     *cache.Cache
}

func NewHandler(
	orders *services.OrderService,
	carts *services.CartService,
	addresses *services.AddressService,
	products *services.ProductService,
	c *cache.Cache,
) *Handler {
	return &Handler{
		orders:    orders,
		carts:     carts,
		addresses: addresses,
		products:  products,
		cache:     c,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(Identity())

	r.POST("/orders", h.PlaceOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.PATCH("/orders/:id/shipping-address", h.UpdateShippingAddress)

	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:id", h.UpdateCartItem)
	r.DELETE("/cart/items/:id", h.RemoveCartItem)

	r.GET("/addresses", h.ListAddresses)
	r.POST("/addresses", h.CreateAddress)
	r.PUT("/addresses/:id", h.UpdateAddress)
	r.POST("/addresses/:id/default", h.SetDefaultAddress)
	r.DELETE("/addresses/:id", h.DeleteAddress)

	r.GET("/products/:id", h.GetProduct)
	r.POST("/products/:id/rating", h.RateProduct)

	admin := r.Group("/admin")
	admin.GET("/orders", h.ListAllOrders)
	admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	admin.POST("/products", h.CreateProduct)
	admin.PATCH("/products/:id", h.UpdateProduct)
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := actorFrom(c)
	order, err := h.orders.PlaceOrder(c.Request.Context(), actor, services.PlaceOrderInput{
		CartItemIDs:   req.CartItemIDs,
		AddressID:     req.ShippingAddressID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.cache.Invalidate(context.Background(), cache.UserOrdersKey(actor.UserID))
	respond(c, http.StatusCreated, "order placed", PlaceOrderResponse{ID: order.ID, OrderID: order.OrderNumber})
}

func (h *Handler) ListOrders(c *gin.Context) {
	actor := actorFrom(c)
	if !actor.Authenticated() {
		fail(c, domain.ErrUnauthenticated)
		return
	}

	ctx := c.Request.Context()
	orders, err := cache.Fetch(ctx, h.cache, cache.UserOrdersKey(actor.UserID), func(ctx context.Context) ([]domain.Order, error) {
		return h.orders.ListOrders(ctx, actor)
	})
	if err != nil {
		fail(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respond(c, http.StatusOK, "ok", orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "ok", order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.CancelOrder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.cache.Invalidate(context.Background(), cache.UserOrdersKey(order.UserID))
	respond(c, http.StatusOK, "order cancelled", order)
}

func (h *Handler) UpdateShippingAddress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.orders.UpdateShippingAddress(c.Request.Context(), actorFrom(c), id, req.AddressID)
	if err != nil {
		fail(c, err)
		return
	}
	h.cache.Invalidate(context.Background(), cache.UserOrdersKey(order.UserID))
	respond(c, http.StatusOK, "shipping address updated", order)
}

func (h *Handler) ListAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAllOrders(c.Request.Context(), actorFrom(c), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respond(c, http.StatusOK, "ok", orders)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), actorFrom(c), id, services.OrderStatusUpdate{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.cache.Invalidate(context.Background(), cache.UserOrdersKey(order.UserID))
	respond(c, http.StatusOK, "order status updated", order)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "ok", cart)
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.carts.AddItem(c.Request.Context(), actorFrom(c), services.AddCartItemInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Attributes: req.Attributes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "added to cart", item)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.carts.UpdateItemQuantity(c.Request.Context(), actorFrom(c), id, *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	if item == nil {
		respond(c, http.StatusOK, "removed from cart", nil)
		return
	}
	respond(c, http.StatusOK, "cart updated", item)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), actorFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "removed from cart", nil)
}

func (h *Handler) ListAddresses(c *gin.Context) {
	addrs, err := h.addresses.ListAddresses(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	respond(c, http.StatusOK, "ok", addrs)
}

func (h *Handler) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := h.addresses.CreateAddress(c.Request.Context(), actorFrom(c), addressInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "address created", addr)
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := h.addresses.UpdateAddress(c.Request.Context(), actorFrom(c), id, addressInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "address updated", addr)
}

func (h *Handler) SetDefaultAddress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	addr, err := h.addresses.SetDefaultAddress(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "default address updated", addr)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.addresses.DeleteAddress(c.Request.Context(), actorFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "address deleted", nil)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "ok", p)
}

func (h *Handler) RateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := h.products.RateProduct(c.Request.Context(), actorFrom(c), id, req.Stars)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "rating saved", summary)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.products.CreateProduct(c.Request.Context(), actorFrom(c), services.ProductInput{
		Slug:        req.Slug,
		SKU:         req.SKU,
		Name:        req.Name,
		Image:       req.Image,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		CategoryIDs: req.CategoryIDs,
		Tags:        req.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "product created", p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.products.UpdateProduct(c.Request.Context(), actorFrom(c), id, req.Changes()...)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product updated", p)
}

func addressInput(req AddressRequest) services.AddressInput {
	return services.AddressInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
}
