package handler

import (
	catalogapp "github.com/erp/storefront/internal/application/catalog"
	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler serves /products. Reads are public, writes are staff only.
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Name() string   { return "products" }
func (h *ProductHandler) Prefix() string { return "/products" }

func (h *ProductHandler) Rules() access.Rules {
	return access.NewRules(access.Kind("product"), access.StaffOrReadOnly())
}

func (h *ProductHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("", guard(h, access.ActionList), h.List)
	g.POST("", guard(h, access.ActionCreate), h.Create)
	g.GET("/:id", guard(h, access.ActionRetrieve), h.Get)
	g.PUT("/:id", guard(h, access.ActionUpdate), h.Update)
	g.PATCH("/:id", guard(h, access.ActionPartialUpdate), h.Patch)
	g.DELETE("/:id", guard(h, access.ActionDestroy), h.Delete)
}

// List returns a page of products filtered by collection, price range or search term
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, p, size)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update replaces a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Patch changes the fields present in the body
func (h *ProductHandler) Patch(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PatchProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Patch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product that no order references
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CollectionHandler serves /collections
type CollectionHandler struct {
	BaseHandler
	collectionService *catalogapp.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *catalogapp.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (h *CollectionHandler) Name() string   { return "collections" }
func (h *CollectionHandler) Prefix() string { return "/collections" }

func (h *CollectionHandler) Rules() access.Rules {
	return access.NewRules(access.Kind("collection"), access.StaffOrReadOnly())
}

func (h *CollectionHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("", guard(h, access.ActionList), h.List)
	g.POST("", guard(h, access.ActionCreate), h.Create)
	g.GET("/:id", guard(h, access.ActionRetrieve), h.Get)
	g.PUT("/:id", guard(h, access.ActionUpdate), h.Update)
	g.PATCH("/:id", guard(h, access.ActionPartialUpdate), h.Patch)
	g.DELETE("/:id", guard(h, access.ActionDestroy), h.Delete)
}

// List returns a page of collections with their product counts
func (h *CollectionHandler) List(c *gin.Context) {
	var filter catalogapp.CollectionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	collections, total, err := h.collectionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, collections, total, p, size)
}

// Get returns one collection
func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	collection, err := h.collectionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Create adds a collection
func (h *CollectionHandler) Create(c *gin.Context) {
	var req catalogapp.CollectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	collection, err := h.collectionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, collection)
}

// Update renames a collection; the title is required
func (h *CollectionHandler) Update(c *gin.Context) {
	var req catalogapp.CollectionRequest
	h.update(c, &req, func() catalogapp.PatchCollectionRequest {
		return catalogapp.PatchCollectionRequest{Title: &req.Title}
	})
}

// Patch renames a collection when a title is given
func (h *CollectionHandler) Patch(c *gin.Context) {
	var req catalogapp.PatchCollectionRequest
	h.update(c, &req, func() catalogapp.PatchCollectionRequest { return req })
}

func (h *CollectionHandler) update(c *gin.Context, body any, patch func() catalogapp.PatchCollectionRequest) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if !h.bindJSON(c, body) {
		return
	}
	collection, err := h.collectionService.Update(c.Request.Context(), id, patch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Delete removes an empty collection
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.collectionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReviewHandler serves /products/{id}/reviews. Anyone may post a review;
// editing and deleting them is left to staff.
type ReviewHandler struct {
	BaseHandler
	reviewService *catalogapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Name() string   { return "reviews" }
func (h *ReviewHandler) Prefix() string { return "/products/:id/reviews" }

func (h *ReviewHandler) Rules() access.Rules {
	return access.NewRules(access.Kind("review"), access.StaffOrReadOnly()).
		Override(access.ActionCreate, access.AllowAny())
}

func (h *ReviewHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("", guard(h, access.ActionList), h.List)
	g.POST("", guard(h, access.ActionCreate), h.Create)
	g.GET("/:review_id", guard(h, access.ActionRetrieve), h.Get)
	g.PUT("/:review_id", guard(h, access.ActionUpdate), h.Update)
	g.PATCH("/:review_id", guard(h, access.ActionPartialUpdate), h.Patch)
	g.DELETE("/:review_id", guard(h, access.ActionDestroy), h.Delete)
}

// List returns the reviews of the product in the path
func (h *ReviewHandler) List(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter catalogapp.ReviewListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	reviews, total, err := h.reviewService.List(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, reviews, total, p, size)
}

// Get returns one review of the product
func (h *ReviewHandler) Get(c *gin.Context) {
	productID, id, ok := h.ids(c)
	if !ok {
		return
	}
	review, err := h.reviewService.GetByID(c.Request.Context(), productID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Create posts a review on the product in the path
func (h *ReviewHandler) Create(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	review, err := h.reviewService.Create(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}

// Update replaces the review text
func (h *ReviewHandler) Update(c *gin.Context) {
	var req catalogapp.ReviewRequest
	h.update(c, &req, func() catalogapp.PatchReviewRequest {
		return catalogapp.PatchReviewRequest{Name: &req.Name, Description: &req.Description}
	})
}

// Patch changes the review fields present in the body
func (h *ReviewHandler) Patch(c *gin.Context) {
	var req catalogapp.PatchReviewRequest
	h.update(c, &req, func() catalogapp.PatchReviewRequest { return req })
}

func (h *ReviewHandler) update(c *gin.Context, body any, patch func() catalogapp.PatchReviewRequest) {
	productID, id, ok := h.ids(c)
	if !ok {
		return
	}
	if !h.bindJSON(c, body) {
		return
	}
	review, err := h.reviewService.Update(c.Request.Context(), productID, id, patch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Delete removes a review
func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, id, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), productID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ReviewHandler) ids(c *gin.Context) (productID, reviewID uuid.UUID, ok bool) {
	if productID, ok = h.pathID(c, "id"); !ok {
		return
	}
	reviewID, ok = h.pathID(c, "review_id")
	return
}
