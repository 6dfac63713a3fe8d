package order_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mystore/storefront/internal/address"
	"github.com/mystore/storefront/internal/cart"
	"github.com/mystore/storefront/internal/config"
	"github.com/mystore/storefront/internal/delivery"
	"github.com/mystore/storefront/internal/order"
)

type mockOrderRepository struct {
	createFunc         func(ctx context.Context, o *order.Order) error
	getByIDForUserFunc func(ctx context.Context, orderID, userID uuid.UUID) (*order.Order, error)
	listByUserFunc     func(ctx context.Context, userID uuid.UUID, params order.ListParams) ([]order.Order, int, error)
	confirmPaymentFunc func(ctx context.Context, orderID, userID uuid.UUID) error
	cancelFunc         func(ctx context.Context, orderID, userID uuid.UUID) error
	approveFunc        func(ctx context.Context, orderID, adminID uuid.UUID) error
}

func (m *mockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.createFunc(ctx, o)
}

func (m *mockOrderRepository) GetByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*order.Order, error) {
	return m.getByIDForUserFunc(ctx, orderID, userID)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, params order.ListParams) ([]order.Order, int, error) {
	return m.listByUserFunc(ctx, userID, params)
}

func (m *mockOrderRepository) ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID) error {
	return m.confirmPaymentFunc(ctx, orderID, userID)
}

func (m *mockOrderRepository) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	return m.cancelFunc(ctx, orderID, userID)
}

func (m *mockOrderRepository) Approve(ctx context.Context, orderID, adminID uuid.UUID) error {
	return m.approveFunc(ctx, orderID, adminID)
}

type mockCartAccess struct {
	getFunc   func(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	mergeFunc func(ctx context.Context, userID uuid.UUID, items []cart.MergeItem) (int, error)
}

func (m *mockCartAccess) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return m.getFunc(ctx, userID)
}

func (m *mockCartAccess) Merge(ctx context.Context, userID uuid.UUID, items []cart.MergeItem) (int, error) {
	return m.mergeFunc(ctx, userID, items)
}

type mockAddressAccess struct {
	getForUserFunc func(ctx context.Context, id, userID uuid.UUID) (*address.Address, error)
}

func (m *mockAddressAccess) GetForUser(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
	return m.getForUserFunc(ctx, id, userID)
}

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		BankName:      "First Bank",
		AccountName:   "My Store Ltd",
		AccountNumber: "0123456789",
		Currency:      "NGN",
		DeadlineDays:  3,
	}
}

var (
	testUserID    = uuid.Must(uuid.FromString("123e4567-e89b-12d3-a456-426614174000"))
	testAddressID = uuid.Must(uuid.FromString("770e8400-e29b-41d4-a716-446655440002"))
	productA      = uuid.Must(uuid.FromString("550e8400-e29b-41d4-a716-446655440000"))
	productB      = uuid.Must(uuid.FromString("660e8400-e29b-41d4-a716-446655440001"))
)

func ownAddress(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
	return &address.Address{ID: id, UserID: userID}, nil
}

func twoItemCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return &cart.Cart{
		UserID: userID,
		Items: []cart.Item{
			{ProductID: productA, Name: "Product A", Price: 500, Quantity: 2, LineTotal: 1000},
			{ProductID: productB, Name: "Product B", Price: 1500, Quantity: 1, LineTotal: 1500},
		},
		Subtotal: 2500,
	}, nil
}

func TestOrderService_PlaceOrder(t *testing.T) {
	input := order.PlaceOrderInput{
		AddressID:      testAddressID,
		DeliveryOption: "Mainland",
		PaymentMethod:  order.PaymentMethodManual,
	}

	tests := []struct {
		name           string
		payment        config.PaymentConfig
		input          order.PlaceOrderInput
		getForUserFunc func(ctx context.Context, id, userID uuid.UUID) (*address.Address, error)
		getCartFunc    func(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
		createFunc     func(ctx context.Context, o *order.Order) error
		wantErrIs      error
	}{
		{
			name:           "payment_not_configured",
			payment:        config.PaymentConfig{},
			input:          input,
			getForUserFunc: ownAddress,
			getCartFunc:    twoItemCart,
			wantErrIs:      order.ErrPaymentNotConfigured,
		},
		{
			name:    "unsupported_payment_method",
			payment: testPaymentConfig(),
			input: order.PlaceOrderInput{
				AddressID:      testAddressID,
				DeliveryOption: "Mainland",
				PaymentMethod:  "card",
			},
			getForUserFunc: ownAddress,
			getCartFunc:    twoItemCart,
			wantErrIs:      order.ErrUnsupportedPayment,
		},
		{
			name:    "unknown_delivery_option",
			payment: testPaymentConfig(),
			input: order.PlaceOrderInput{
				AddressID:      testAddressID,
				DeliveryOption: "Orbit",
				PaymentMethod:  order.PaymentMethodManual,
			},
			getForUserFunc: ownAddress,
			getCartFunc:    twoItemCart,
			wantErrIs:      delivery.ErrUnknownOption,
		},
		{
			name:    "foreign_address",
			payment: testPaymentConfig(),
			input:   input,
			getForUserFunc: func(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
				return nil, address.ErrAddressNotFound
			},
			getCartFunc: twoItemCart,
			wantErrIs:   address.ErrAddressNotFound,
		},
		{
			name:           "empty_cart",
			payment:        testPaymentConfig(),
			input:          input,
			getForUserFunc: ownAddress,
			getCartFunc: func(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
				return &cart.Cart{UserID: userID, Items: []cart.Item{}}, nil
			},
			wantErrIs: order.ErrEmptyCart,
		},
		{
			name:           "repository_failure_wrapped",
			payment:        testPaymentConfig(),
			input:          input,
			getForUserFunc: ownAddress,
			getCartFunc:    twoItemCart,
			createFunc: func(ctx context.Context, o *order.Order) error {
				return errors.New("connection reset")
			},
			wantErrIs: order.ErrCheckoutFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createFunc := tt.createFunc
			if createFunc == nil {
				createFunc = func(ctx context.Context, o *order.Order) error {
					t.Fatal("create must not be called")
					return nil
				}
			}
			svc := order.NewService(
				&mockOrderRepository{createFunc: createFunc},
				&mockCartAccess{getFunc: tt.getCartFunc},
				&mockAddressAccess{getForUserFunc: tt.getForUserFunc},
				tt.payment,
			)

			o, instructions, err := svc.PlaceOrder(context.Background(), testUserID, tt.input)

			assert.ErrorIs(t, err, tt.wantErrIs)
			assert.Nil(t, o)
			assert.Nil(t, instructions)
		})
	}
}

// Cart with Product A (price 500, qty 2) and Product B (price 1500, qty 1),
// delivered to the Mainland (fee 1500): the order captures subtotal 2500,
// fee 1500, grand total 4000 and starts out awaiting payment.
func TestOrderService_PlaceOrder_Totals(t *testing.T) {
	var created *order.Order
	svc := order.NewService(
		&mockOrderRepository{
			createFunc: func(ctx context.Context, o *order.Order) error {
				o.OrderDate = time.Now().UTC()
				created = o
				return nil
			},
		},
		&mockCartAccess{getFunc: twoItemCart},
		&mockAddressAccess{getForUserFunc: ownAddress},
		testPaymentConfig(),
	)

	o, instructions, err := svc.PlaceOrder(context.Background(), testUserID, order.PlaceOrderInput{
		AddressID:      testAddressID,
		DeliveryOption: "Mainland",
		PaymentMethod:  order.PaymentMethodManual,
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, created, o)

	assert.Equal(t, int64(2500), o.TotalAmount)
	assert.Equal(t, int64(1500), o.DeliveryFee)
	assert.Equal(t, int64(4000), o.GrandTotal())
	assert.Equal(t, order.StatusAwaitingPayment, o.Status)
	assert.Equal(t, order.PaymentMethodManual, o.PaymentMethod)
	assert.Equal(t, testAddressID, o.AddressID)

	assert.Len(t, o.Items, 2)
	assert.Equal(t, int64(500), o.Items[0].Price)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, int64(1500), o.Items[1].Price)
	assert.Equal(t, 1, o.Items[1].Quantity)
	for _, d := range o.Items {
		assert.Equal(t, o.ID, d.OrderID)
	}

	assert.NotNil(t, instructions)
	assert.Equal(t, int64(4000), instructions.Amount)
	assert.Equal(t, "First Bank", instructions.BankName)
	assert.Equal(t, "Order #"+o.ID.String(), instructions.Reference)
	assert.Equal(t, o.OrderDate.AddDate(0, 0, 3), instructions.Deadline)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name               string
		confirmPaymentFunc func(ctx context.Context, orderID, userID uuid.UUID) error
		wantErrIs          error
	}{
		{
			name:               "ok",
			confirmPaymentFunc: func(ctx context.Context, orderID, userID uuid.UUID) error { return nil },
		},
		{
			name: "not_awaiting_payment",
			confirmPaymentFunc: func(ctx context.Context, orderID, userID uuid.UUID) error {
				return order.ErrPreconditionFailed
			},
			wantErrIs: order.ErrPreconditionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := order.NewService(
				&mockOrderRepository{confirmPaymentFunc: tt.confirmPaymentFunc},
				&mockCartAccess{}, &mockAddressAccess{}, testPaymentConfig(),
			)

			err := svc.ConfirmPayment(context.Background(), orderID, testUserID)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_Cancel(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name       string
		cancelFunc func(ctx context.Context, orderID, userID uuid.UUID) error
		wantErrIs  error
	}{
		{
			name:       "ok",
			cancelFunc: func(ctx context.Context, orderID, userID uuid.UUID) error { return nil },
		},
		{
			name: "already_active",
			cancelFunc: func(ctx context.Context, orderID, userID uuid.UUID) error {
				return order.ErrPreconditionFailed
			},
			wantErrIs: order.ErrPreconditionFailed,
		},
		{
			name: "not_found",
			cancelFunc: func(ctx context.Context, orderID, userID uuid.UUID) error {
				return order.ErrOrderNotFound
			},
			wantErrIs: order.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := order.NewService(
				&mockOrderRepository{cancelFunc: tt.cancelFunc},
				&mockCartAccess{}, &mockAddressAccess{}, testPaymentConfig(),
			)

			err := svc.Cancel(context.Background(), orderID, testUserID)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_Approve(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())
	adminID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name        string
		approveFunc func(ctx context.Context, orderID, adminID uuid.UUID) error
		wantErrIs   error
	}{
		{
			name:        "ok",
			approveFunc: func(ctx context.Context, orderID, adminID uuid.UUID) error { return nil },
		},
		{
			name: "not_pending_verification",
			approveFunc: func(ctx context.Context, orderID, adminID uuid.UUID) error {
				return fmt.Errorf("%w: order is awaiting_payment, not pending_verification", order.ErrPreconditionFailed)
			},
			wantErrIs: order.ErrPreconditionFailed,
		},
		{
			name: "not_found",
			approveFunc: func(ctx context.Context, orderID, adminID uuid.UUID) error {
				return order.ErrOrderNotFound
			},
			wantErrIs: order.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := order.NewService(
				&mockOrderRepository{approveFunc: tt.approveFunc},
				&mockCartAccess{}, &mockAddressAccess{}, testPaymentConfig(),
			)

			err := svc.Approve(context.Background(), orderID, adminID)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_Reorder(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())

	var mergedItems []cart.MergeItem
	svc := order.NewService(
		&mockOrderRepository{
			getByIDForUserFunc: func(ctx context.Context, orderID, userID uuid.UUID) (*order.Order, error) {
				return &order.Order{
					ID:     orderID,
					UserID: userID,
					Items: []order.Detail{
						{OrderID: orderID, ProductID: productA, Quantity: 2, Price: 500},
						{OrderID: orderID, ProductID: productB, Quantity: 1, Price: 1500},
					},
				}, nil
			},
		},
		&mockCartAccess{
			mergeFunc: func(ctx context.Context, userID uuid.UUID, items []cart.MergeItem) (int, error) {
				mergedItems = items
				// one of the two products has since left the catalog
				return 1, nil
			},
		},
		&mockAddressAccess{},
		testPaymentConfig(),
	)

	added, err := svc.Reorder(context.Background(), orderID, testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, []cart.MergeItem{
		{ProductID: productA, Quantity: 2},
		{ProductID: productB, Quantity: 1},
	}, mergedItems)
}

func TestOrderService_Reorder_NotFound(t *testing.T) {
	svc := order.NewService(
		&mockOrderRepository{
			getByIDForUserFunc: func(ctx context.Context, orderID, userID uuid.UUID) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
		},
		&mockCartAccess{}, &mockAddressAccess{}, testPaymentConfig(),
	)

	added, err := svc.Reorder(context.Background(), uuid.Must(uuid.NewV4()), testUserID)

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Zero(t, added)
}
