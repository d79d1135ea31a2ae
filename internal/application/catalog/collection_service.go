package catalog

import (
	"context"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// CollectionService handles collection operations
type CollectionService struct {
	collectionRepo catalog.CollectionRepository
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo catalog.CollectionRepository) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo}
}

// List retrieves collections with their product counts
func (s *CollectionService) List(ctx context.Context, filter CollectionListFilter) ([]CollectionResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	collections, err := s.collectionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.collectionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(collections))
	for i := range collections {
		ids[i] = collections[i].ID
	}
	counts, err := s.collectionRepo.CountProducts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CollectionResponse, len(collections))
	for i := range collections {
		responses[i] = ToCollectionResponse(&collections[i], counts[collections[i].ID])
	}
	return responses, total, nil
}

// GetByID retrieves a collection by ID
func (s *CollectionService) GetByID(ctx context.Context, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, collection)
}

// Create creates a new collection
func (s *CollectionService) Create(ctx context.Context, req CollectionRequest) (*CollectionResponse, error) {
	collection, err := catalog.NewCollection(req.Title)
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection, 0)
	return &response, nil
}

// Update renames a collection. A nil title leaves it unchanged.
func (s *CollectionService) Update(ctx context.Context, id uuid.UUID, req PatchCollectionRequest) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if err := collection.Rename(*req.Title); err != nil {
			return nil, err
		}
		if err := s.collectionRepo.Save(ctx, collection); err != nil {
			return nil, err
		}
	}
	return s.respond(ctx, collection)
}

// Delete removes a collection that has no products
func (s *CollectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.collectionRepo.Delete(ctx, id)
}

func (s *CollectionService) respond(ctx context.Context, collection *catalog.Collection) (*CollectionResponse, error) {
	counts, err := s.collectionRepo.CountProducts(ctx, []uuid.UUID{collection.ID})
	if err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection, counts[collection.ID])
	return &response, nil
}
