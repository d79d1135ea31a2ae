package handler

import (
	cartapp "github.com/erp/storefront/internal/application/cart"
	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler serves /carts and their items. Carts are anonymous; holding
// the id is the only capability required.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Name() string   { return "carts" }
func (h *CartHandler) Prefix() string { return "/carts" }

func (h *CartHandler) Rules() access.Rules {
	return access.NewRules(access.Kind("cart"), access.AllowAny())
}

func (h *CartHandler) RegisterRoutes(g *router.DomainGroup) {
	g.POST("", guard(h, access.ActionCreate), h.Create)
	g.GET("/:id", guard(h, access.ActionRetrieve), h.Get)
	g.DELETE("/:id", guard(h, access.ActionDestroy), h.Delete)

	g.GET("/:id/items", guard(h, access.ActionList), h.ListItems)
	g.POST("/:id/items", guard(h, access.ActionCreate), h.AddItem)
	g.GET("/:id/items/:item_id", guard(h, access.ActionRetrieve), h.GetItem)
	g.PATCH("/:id/items/:item_id", guard(h, access.ActionPartialUpdate), h.UpdateItem)
	g.DELETE("/:id/items/:item_id", guard(h, access.ActionDestroy), h.RemoveItem)
}

// Create opens an empty cart. The request body is ignored.
func (h *CartHandler) Create(c *gin.Context) {
	cart, err := h.cartService.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cart)
}

// Get returns the cart with its lines priced at the current unit prices
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	cart, err := h.cartService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Delete drops the cart and its items
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cartService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListItems returns the lines of the cart
func (h *CartHandler) ListItems(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.cartService.ListItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetItem returns one line of the cart
func (h *CartHandler) GetItem(c *gin.Context) {
	cartID, itemID, ok := h.ids(c)
	if !ok {
		return
	}
	item, err := h.cartService.GetItem(c.Request.Context(), cartID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddItem adds a product to the cart, merging into an existing line for the same product
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.cartService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem sets the quantity of a line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, itemID, ok := h.ids(c)
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.cartService.UpdateItem(c.Request.Context(), cartID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, itemID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.cartService.RemoveItem(c.Request.Context(), cartID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CartHandler) ids(c *gin.Context) (cartID, itemID uuid.UUID, ok bool) {
	if cartID, ok = h.pathID(c, "id"); !ok {
		return
	}
	itemID, ok = h.pathID(c, "item_id")
	return
}
