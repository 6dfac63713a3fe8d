package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	storeHandler "github.com/mystore/storefront/internal/handler/http"
	"github.com/mystore/storefront/internal/order"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input order.PlaceOrderInput) (*order.Order, *order.PaymentInstructions, error) {
	args := m.Called(ctx, userID, input)
	var o *order.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*order.Order)
	}
	var instructions *order.PaymentInstructions
	if args.Get(1) != nil {
		instructions = args.Get(1).(*order.PaymentInstructions)
	}
	return o, instructions, args.Error(2)
}

func (m *MockOrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID uuid.UUID, params order.ListParams) ([]order.Order, int, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderService) ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID) error {
	args := m.Called(ctx, orderID, userID)
	return args.Error(0)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	args := m.Called(ctx, orderID, userID)
	return args.Error(0)
}

func (m *MockOrderService) Approve(ctx context.Context, orderID, adminID uuid.UUID) error {
	args := m.Called(ctx, orderID, adminID)
	return args.Error(0)
}

func (m *MockOrderService) Reorder(ctx context.Context, orderID, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderID, userID)
	return args.Int(0), args.Error(1)
}

func newOrderRouter(svc order.Service) *chi.Mux {
	router := chi.NewRouter()
	storeHandler.NewOrderHandler(svc).RegisterRoutes(router)
	return router
}

func TestOrderHandler_handleCheckout_Success(t *testing.T) {
	mockService := new(MockOrderService)
	userID := uuid.Must(uuid.NewV4())
	addressID := uuid.Must(uuid.NewV4())
	orderID := uuid.Must(uuid.NewV4())
	orderDate := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	placed := &order.Order{
		ID:             orderID,
		UserID:         userID,
		OrderDate:      orderDate,
		TotalAmount:    2500,
		DeliveryFee:    1500,
		Status:         order.StatusAwaitingPayment,
		PaymentMethod:  order.PaymentMethodManual,
		DeliveryOption: "Mainland",
		AddressID:      addressID,
	}
	instructions := &order.PaymentInstructions{
		BankName:      "First Bank",
		AccountName:   "My Store Ltd",
		AccountNumber: "0123456789",
		Currency:      "NGN",
		Amount:        4000,
		Reference:     "Order #" + orderID.String(),
		Deadline:      orderDate.AddDate(0, 0, 3),
	}

	mockService.On("PlaceOrder", mock.Anything, userID, order.PlaceOrderInput{
		AddressID:      addressID,
		DeliveryOption: "Mainland",
		PaymentMethod:  order.PaymentMethodManual,
	}).Return(placed, instructions, nil).Once()

	jsonBody, err := json.Marshal(storeHandler.CheckoutRequest{
		AddressID:      addressID.String(),
		DeliveryOption: "Mainland",
		PaymentMethod:  order.PaymentMethodManual,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID.String())
	rr := httptest.NewRecorder()

	newOrderRouter(mockService).ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp storeHandler.CheckoutResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	assert.Equal(t, int64(4000), resp.GrandTotal)
	if diff := cmp.Diff(placed, resp.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(instructions, resp.Instructions); diff != "" {
		t.Errorf("payment instructions mismatch (-want +got):\n%s", diff)
	}
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleCheckout_EmptyCart(t *testing.T) {
	mockService := new(MockOrderService)
	userID := uuid.Must(uuid.NewV4())

	mockService.On("PlaceOrder", mock.Anything, userID, mock.Anything).
		Return(nil, nil, order.ErrEmptyCart).Once()

	jsonBody, err := json.Marshal(storeHandler.CheckoutRequest{
		AddressID:      uuid.Must(uuid.NewV4()).String(),
		DeliveryOption: "Mainland",
		PaymentMethod:  order.PaymentMethodManual,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID.String())
	rr := httptest.NewRecorder()

	newOrderRouter(mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cart is empty")
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleCheckout_NotLoggedIn(t *testing.T) {
	mockService := new(MockOrderService)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newOrderRouter(mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	mockService.AssertNotCalled(t, "PlaceOrder")
}

func TestOrderHandler_handleConfirmPayment_Conflict(t *testing.T) {
	mockService := new(MockOrderService)
	userID := uuid.Must(uuid.NewV4())
	orderID := uuid.Must(uuid.NewV4())

	mockService.On("ConfirmPayment", mock.Anything, orderID, userID).
		Return(order.ErrPreconditionFailed).Once()

	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/confirm-payment", nil)
	req.Header.Set("X-User-ID", userID.String())
	rr := httptest.NewRecorder()

	newOrderRouter(mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleCancel_NotFound(t *testing.T) {
	mockService := new(MockOrderService)
	userID := uuid.Must(uuid.NewV4())
	orderID := uuid.Must(uuid.NewV4())

	mockService.On("Cancel", mock.Anything, orderID, userID).
		Return(order.ErrOrderNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/cancel", nil)
	req.Header.Set("X-User-ID", userID.String())
	rr := httptest.NewRecorder()

	newOrderRouter(mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleListOrders(t *testing.T) {
	mockService := new(MockOrderService)
	userID := uuid.Must(uuid.NewV4())

	orders := []order.Order{
		{
			ID:          uuid.Must(uuid.NewV4()),
			UserID:      userID,
			OrderDate:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			TotalAmount: 2500,
			DeliveryFee: 1500,
			Status:      order.StatusActive,
			Items:       []order.Detail{},
		},
	}
	mockService.On("ListByUser", mock.Anything, userID, order.ListParams{
		Status: order.StatusActive,
		Page:   2,
	}).Return(orders, 21, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/orders?status=active&page=2", nil)
	req.Header.Set("X-User-ID", userID.String())
	rr := httptest.NewRecorder()

	newOrderRouter(mockService).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp storeHandler.OrderListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	assert.Equal(t, 21, resp.Total)
	assert.Equal(t, 2, resp.Page)
	if diff := cmp.Diff(orders, resp.Orders); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleDeliveryOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/delivery-options", nil)
	rr := httptest.NewRecorder()

	newOrderRouter(new(MockOrderService)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		Option    string `json:"option"`
		FeeAmount int64  `json:"fee_amount"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	assert.Len(t, resp, 5)
	assert.Equal(t, "Island", resp[0].Option)
	assert.Equal(t, int64(2000), resp[0].FeeAmount)
}
