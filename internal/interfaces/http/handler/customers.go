package handler

import (
	customerapp "github.com/erp/storefront/internal/application/customer"
	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/interfaces/http/middleware"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

const (
	actionMe      access.Action = "me"
	actionHistory access.Action = "history"
)

// CustomerHandler serves /customers
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
	openDirectory   bool
}

// NewCustomerHandler creates a new CustomerHandler. With openDirectory set,
// anyone may list and read customers; otherwise reads need customer:read.
func NewCustomerHandler(customerService *customerapp.CustomerService, openDirectory bool) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		openDirectory:   openDirectory,
	}
}

func (h *CustomerHandler) Name() string   { return "customers" }
func (h *CustomerHandler) Prefix() string { return "/customers" }

func (h *CustomerHandler) Rules() access.Rules {
	read := access.ModelPermissions()
	if h.openDirectory {
		read = access.AllowAny()
	}
	return access.NewRules(access.Kind("customer"), access.StaffOnly()).
		Override(access.ActionList, read).
		Override(access.ActionRetrieve, read).
		Override(actionMe, access.Authenticated()).
		Override(actionHistory, access.StaffOnly())
}

func (h *CustomerHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("/me", guard(h, actionMe), h.Me)
	g.POST("/me", guard(h, actionMe), h.UpdateMe)
	g.PUT("/me", guard(h, actionMe), h.UpdateMe)
	g.PATCH("/me", guard(h, actionMe), h.UpdateMe)

	g.GET("", guard(h, access.ActionList), h.List)
	g.POST("", guard(h, access.ActionCreate), h.Create)
	g.GET("/:id", guard(h, access.ActionRetrieve), h.Get)
	g.PUT("/:id", guard(h, access.ActionUpdate), h.Update)
	g.PATCH("/:id", guard(h, access.ActionPartialUpdate), h.Update)
	g.DELETE("/:id", guard(h, access.ActionDestroy), h.Delete)
	g.GET("/:id/history", guard(h, actionHistory), h.History)
}

// Me returns the caller's customer record, creating it on first access
func (h *CustomerHandler) Me(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	customer, err := h.customerService.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateMe changes the caller's own profile fields
func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	var req customerapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	principal := middleware.PrincipalFrom(c)
	customer, err := h.customerService.UpdateMe(c.Request.Context(), principal.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter customerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, p, size)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create adds a customer for an existing user
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update changes the profile fields present in the body. PUT and PATCH behave
// the same since every profile field is optional.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req customerapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer without orders
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// History returns the purchase history of a customer
func (h *CustomerHandler) History(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.customerService.History(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
