package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// QueryService serves paginated reads over the price change ledger
type QueryService struct {
	products catalog.ProductRepository
	variants catalog.VariantRepository
	history  pricing.HistoryRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	history pricing.HistoryRepository,
) *QueryService {
	return &QueryService{
		products: products,
		variants: variants,
		history:  history,
	}
}

// ProductHistory returns a page of the product's ledger, newest first
func (s *QueryService) ProductHistory(ctx context.Context, id uuid.UUID, page shared.Page) (*shared.Paginated[PriceChangeResponse], error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.list(ctx, pricing.EntityRef{Type: pricing.EntityTypeProduct, ID: id}, page)
}

// VariantHistory returns a page of the variant's ledger, newest first
func (s *QueryService) VariantHistory(ctx context.Context, id uuid.UUID, page shared.Page) (*shared.Paginated[PriceChangeResponse], error) {
	if _, err := s.variants.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.list(ctx, pricing.EntityRef{Type: pricing.EntityTypeVariant, ID: id}, page)
}

func (s *QueryService) list(ctx context.Context, ref pricing.EntityRef, page shared.Page) (*shared.Paginated[PriceChangeResponse], error) {
	page = page.Normalize()
	entries, total, err := s.history.ListDescending(ctx, ref, page)
	if err != nil {
		return nil, err
	}
	items := make([]PriceChangeResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toPriceChangeResponse(entries[i]))
	}
	result := shared.NewPaginated(items, total, page)
	return &result, nil
}
