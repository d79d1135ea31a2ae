package catalog

import "github.com/erp/storefront/internal/domain/shared"

// Delete protection errors
var (
	ErrProductHasOrderItems  = shared.NewDomainError(shared.CodeDeleteProtected, "Cannot delete a product with order items")
	ErrCollectionHasProducts = shared.NewDomainError(shared.CodeDeleteProtected, "Cannot delete a collection with products")
	ErrCollectionNotFound    = shared.NewFieldError("collection_id", "Collection not found")
)
