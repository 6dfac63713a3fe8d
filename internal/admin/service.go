package admin

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	PendingManualOrders(ctx context.Context) ([]OrderSummary, error)
	Stats(ctx context.Context) (*Stats, error)
	LogsForOrder(ctx context.Context, orderID uuid.UUID) ([]LogEntry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PendingManualOrders(ctx context.Context) ([]OrderSummary, error) {
	summaries, err := s.repo.PendingManualOrders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list pending manual orders")
		return nil, fmt.Errorf("service: failed to list pending manual orders: %w", err)
	}
	return summaries, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to load order stats")
		return nil, fmt.Errorf("service: failed to load order stats: %w", err)
	}
	return stats, nil
}

func (s *service) LogsForOrder(ctx context.Context, orderID uuid.UUID) ([]LogEntry, error) {
	entries, err := s.repo.LogsForOrder(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to load admin logs")
		return nil, fmt.Errorf("service: failed to load admin logs: %w", err)
	}
	return entries, nil
}
