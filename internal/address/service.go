package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var ErrInvalidAddress = errors.New("invalid address")

type Service interface {
	Create(ctx context.Context, addr *Address) (*Address, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, addr *Address) (*Address, error) {
	for field, value := range map[string]string{
		"full_name":     addr.FullName,
		"address_line1": addr.AddressLine1,
		"city":          addr.City,
		"state":         addr.State,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidAddress, field)
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate address id: %w", err)
	}
	addr.ID = id

	if err := s.repo.Create(ctx, addr); err != nil {
		log.Error().Err(err).Stringer("user_id", addr.UserID).Msg("service: failed to create address")
		return nil, fmt.Errorf("service: failed to create address: %w", err)
	}

	return addr, nil
}

func (s *service) GetForUser(ctx context.Context, id, userID uuid.UUID) (*Address, error) {
	addr, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return nil, ErrAddressNotFound
		}
		log.Error().Err(err).Stringer("address_id", id).Msg("service: failed to get address")
		return nil, fmt.Errorf("service: failed to get address: %w", err)
	}
	return addr, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list addresses")
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}
	return addresses, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) || errors.Is(err, ErrAddressInUse) {
			return err
		}
		log.Error().Err(err).Stringer("address_id", id).Msg("service: failed to delete address")
		return fmt.Errorf("service: failed to delete address: %w", err)
	}
	return nil
}
