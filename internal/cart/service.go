package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/catalog"
)

var ErrZeroDelta = errors.New("quantity change cannot be zero")

// ProductChecker is the slice of the catalog the cart needs: existence
// checks before a product is allowed into a cart.
type ProductChecker interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	ApplyDelta(ctx context.Context, userID, productID uuid.UUID, delta int) (*Cart, error)
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Merge(ctx context.Context, userID uuid.UUID, items []MergeItem) (int, error)
}

type service struct {
	repo     Repository
	products ProductChecker
}

func NewService(repo Repository, products ProductChecker) Service {
	return &service{repo: repo, products: products}
}

// Add puts one unit of a product into the cart. The product must exist in
// the catalog; beyond that it is ApplyDelta(+1).
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	exists, err := s.products.ExistsByID(ctx, productID)
	if err != nil {
		log.Error().Err(err).Stringer("product_id", productID).Msg("service: failed to check product existence")
		return nil, fmt.Errorf("service: failed to check product existence: %w", err)
	}
	if !exists {
		return nil, catalog.ErrProductNotFound
	}

	return s.ApplyDelta(ctx, userID, productID, 1)
}

func (s *service) ApplyDelta(ctx context.Context, userID, productID uuid.UUID, delta int) (*Cart, error) {
	if delta == 0 {
		return nil, ErrZeroDelta
	}

	if err := s.repo.ApplyDelta(ctx, userID, productID, delta); err != nil {
		if errors.Is(err, ErrNotInCart) {
			return nil, ErrNotInCart
		}
		log.Error().Err(err).
			Stringer("user_id", userID).
			Stringer("product_id", productID).
			Int("delta", delta).
			Msg("service: failed to apply cart delta")
		return nil, fmt.Errorf("service: failed to apply cart delta: %w", err)
	}

	return s.Get(ctx, userID)
}

// Merge folds previously ordered lines back into the cart, skipping
// products that have since left the catalog. Returns how many lines were
// actually merged.
func (s *service) Merge(ctx context.Context, userID uuid.UUID, items []MergeItem) (int, error) {
	available := make([]MergeItem, 0, len(items))
	for _, item := range items {
		exists, err := s.products.ExistsByID(ctx, item.ProductID)
		if err != nil {
			log.Error().Err(err).Stringer("product_id", item.ProductID).Msg("service: failed to check product existence")
			return 0, fmt.Errorf("service: failed to check product existence: %w", err)
		}
		if exists {
			available = append(available, item)
		}
	}

	if len(available) == 0 {
		return 0, nil
	}

	if err := s.repo.Merge(ctx, userID, available); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to merge cart lines")
		return 0, fmt.Errorf("service: failed to merge cart lines: %w", err)
	}

	return len(available), nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	result, err := s.repo.Get(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch cart")
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}
	return result, nil
}
