package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/address"
	"github.com/mystore/storefront/internal/cart"
	"github.com/mystore/storefront/internal/config"
	"github.com/mystore/storefront/internal/delivery"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentNotConfigured: the bank-transfer details are missing from
	// the environment, so the store cannot accept orders at all.
	ErrPaymentNotConfigured = errors.New("payment is not configured")
	ErrUnsupportedPayment   = errors.New("unsupported payment method")
	ErrCheckoutFailed       = errors.New("checkout failed")
)

// CartAccess is the slice of the cart module checkout and reorder need.
type CartAccess interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Merge(ctx context.Context, userID uuid.UUID, items []cart.MergeItem) (int, error)
}

// AddressAccess resolves an address for its owner.
type AddressAccess interface {
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*address.Address, error)
}

// Service is the order lifecycle manager. All status transitions, user-
// and admin-facing alike, go through it; nothing else touches order
// status.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*Order, *PaymentInstructions, error)
	GetByID(ctx context.Context, orderID, userID uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]Order, int, error)
	ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID) error
	Cancel(ctx context.Context, orderID, userID uuid.UUID) error
	Approve(ctx context.Context, orderID, adminID uuid.UUID) error
	Reorder(ctx context.Context, orderID, userID uuid.UUID) (int, error)
}

type service struct {
	repo      Repository
	carts     CartAccess
	addresses AddressAccess
	payment   config.PaymentConfig
}

func NewService(repo Repository, carts CartAccess, addresses AddressAccess, payment config.PaymentConfig) Service {
	return &service{
		repo:      repo,
		carts:     carts,
		addresses: addresses,
		payment:   payment,
	}
}

// PlaceOrder snapshots the cart into an order. The order row, its detail
// rows and the cart clear land in one transaction; on any failure the cart
// is left untouched and the cause comes back wrapped in ErrCheckoutFailed.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*Order, *PaymentInstructions, error) {
	if !s.payment.Configured() {
		log.Warn().Msg("service: order placement attempted with incomplete payment configuration")
		return nil, nil, ErrPaymentNotConfigured
	}
	if input.PaymentMethod != PaymentMethodManual {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedPayment, input.PaymentMethod)
	}

	fee, err := delivery.ResolveFee(input.DeliveryOption)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.addresses.GetForUser(ctx, input.AddressID, userID); err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			return nil, nil, address.ErrAddressNotFound
		}
		log.Error().Err(err).Stringer("address_id", input.AddressID).Msg("service: failed to resolve checkout address")
		return nil, nil, fmt.Errorf("service: failed to resolve checkout address: %w", err)
	}

	currentCart, err := s.carts.Get(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to read cart at checkout")
		return nil, nil, fmt.Errorf("service: failed to read cart at checkout: %w", err)
	}
	if len(currentCart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to generate order id: %w", err)
	}

	o := &Order{
		ID:             orderID,
		UserID:         userID,
		TotalAmount:    currentCart.Subtotal,
		DeliveryFee:    fee,
		Status:         StatusAwaitingPayment,
		PaymentMethod:  PaymentMethodManual,
		DeliveryOption: input.DeliveryOption,
		AddressID:      input.AddressID,
		Items:          make([]Detail, 0, len(currentCart.Items)),
	}
	for _, item := range currentCart.Items {
		o.Items = append(o.Items, Detail{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to create order")
		return nil, nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	log.Info().
		Stringer("order_id", o.ID).
		Stringer("user_id", userID).
		Int64("grand_total", o.GrandTotal()).
		Msg("service: order placed")

	return o, s.instructionsFor(o), nil
}

func (s *service) instructionsFor(o *Order) *PaymentInstructions {
	return &PaymentInstructions{
		BankName:      s.payment.BankName,
		AccountName:   s.payment.AccountName,
		AccountNumber: s.payment.AccountNumber,
		Currency:      s.payment.Currency,
		Amount:        o.GrandTotal(),
		Reference:     fmt.Sprintf("Order #%s", o.ID),
		Note:          s.payment.Instructions,
		Deadline:      o.OrderDate.AddDate(0, 0, s.payment.DeadlineDays),
	}
}

func (s *service) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to fetch order")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}
	return o, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]Order, int, error) {
	orders, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list orders")
		return nil, 0, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, total, nil
}

// ConfirmPayment moves awaiting_payment -> pending_verification for the
// caller's own order. A zero-row update means the order is foreign,
// missing or not awaiting payment; all three surface the same way.
func (s *service) ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID) error {
	err := s.repo.ConfirmPayment(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, ErrPreconditionFailed) {
			log.Warn().Stringer("order_id", orderID).Stringer("user_id", userID).Msg("service: payment confirmation rejected")
			return ErrPreconditionFailed
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to confirm payment")
		return fmt.Errorf("service: failed to confirm payment: %w", err)
	}

	log.Info().Stringer("order_id", orderID).
		Str("from", StatusAwaitingPayment.String()).
		Str("to", StatusPendingVerification.String()).
		Msg("service: payment confirmed by buyer")
	return nil
}

func (s *service) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	err := s.repo.Cancel(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrPreconditionFailed) {
			return err
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to cancel order")
		return fmt.Errorf("service: failed to cancel order: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Str("to", StatusCancelled.String()).Msg("service: order cancelled by buyer")
	return nil
}

// Approve verifies the payment on behalf of an admin. The precondition
// error carries the actual state so the admin sees exactly why the
// approval was rejected.
func (s *service) Approve(ctx context.Context, orderID, adminID uuid.UUID) error {
	err := s.repo.Approve(ctx, orderID, adminID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		if errors.Is(err, ErrPreconditionFailed) {
			log.Warn().Err(err).Stringer("order_id", orderID).Stringer("admin_id", adminID).Msg("service: approval precondition failed")
			return err
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to approve order")
		return fmt.Errorf("service: failed to approve order: %w", err)
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("admin_id", adminID).
		Str("to", StatusActive.String()).
		Msg("service: order approved")
	return nil
}

// Reorder copies an order's lines back into the cart, skipping products
// that no longer exist. Reports how many lines made it back.
func (s *service) Reorder(ctx context.Context, orderID, userID uuid.UUID) (int, error) {
	o, err := s.repo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return 0, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to fetch order for reorder")
		return 0, fmt.Errorf("service: failed to fetch order for reorder: %w", err)
	}

	items := make([]cart.MergeItem, 0, len(o.Items))
	for _, d := range o.Items {
		items = append(items, cart.MergeItem{ProductID: d.ProductID, Quantity: d.Quantity})
	}

	added, err := s.carts.Merge(ctx, userID, items)
	if err != nil {
		return 0, fmt.Errorf("service: failed to merge reorder lines: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Int("lines_restored", added).Msg("service: reorder merged into cart")
	return added, nil
}
