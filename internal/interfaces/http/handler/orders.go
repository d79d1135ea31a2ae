package handler

import (
	orderingapp "github.com/erp/storefront/internal/application/ordering"
	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/interfaces/http/middleware"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves /orders. Any signed-in user may place and read orders;
// staff alone may change or delete them.
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Name() string   { return "orders" }
func (h *OrderHandler) Prefix() string { return "/orders" }

func (h *OrderHandler) Rules() access.Rules {
	return access.NewRules(access.Kind("order"), access.Authenticated()).
		Override(access.ActionUpdate, access.StaffOnly()).
		Override(access.ActionPartialUpdate, access.StaffOnly()).
		Override(access.ActionDestroy, access.StaffOnly())
}

func (h *OrderHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("", guard(h, access.ActionList), h.List)
	g.POST("", guard(h, access.ActionCreate), h.Place)
	g.GET("/:id", guard(h, access.ActionRetrieve), h.Get)
	g.PATCH("/:id", guard(h, access.ActionPartialUpdate), h.Update)
	g.DELETE("/:id", guard(h, access.ActionDestroy), h.Delete)
}

// Place turns the given cart into an order and empties the cart
func (h *OrderHandler) Place(c *gin.Context) {
	var req orderingapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Place(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List returns a page of the orders visible to the caller
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderingapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orderService.List(c.Request.Context(), middleware.PrincipalFrom(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, p, size)
}

// Get returns one order. Orders of other customers are reported as missing.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Update changes the payment status
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderingapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes a failed order together with its items
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
