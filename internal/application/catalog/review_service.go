package catalog

import (
	"context"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewService handles reviews nested under a product
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo catalog.ReviewRepository, productRepo catalog.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// List retrieves the reviews of a product
func (s *ReviewService) List(ctx context.Context, productID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, 0, err
	}

	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reviewRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses, total, nil
}

// GetByID retrieves one review of a product
func (s *ReviewService) GetByID(ctx context.Context, productID, id uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	response := ToReviewResponse(review)
	return &response, nil
}

// Create adds a review to the product in the path
func (s *ReviewService) Create(ctx context.Context, productID uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	review, err := catalog.NewReview(productID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	response := ToReviewResponse(review)
	return &response, nil
}

// Update edits a review; nil fields keep their value
func (s *ReviewService) Update(ctx context.Context, productID, id uuid.UUID, req PatchReviewRequest) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}

	name, description := review.Name, review.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := review.Edit(name, description); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	response := ToReviewResponse(review)
	return &response, nil
}

// Delete removes a review of the product
func (s *ReviewService) Delete(ctx context.Context, productID, id uuid.UUID) error {
	if _, err := s.reviewRepo.FindForProduct(ctx, productID, id); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}

func (s *ReviewService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	_, err := s.productRepo.FindByID(ctx, productID)
	return err
}
