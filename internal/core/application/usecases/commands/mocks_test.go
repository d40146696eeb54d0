package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateIfStatus(
	ctx context.Context, a *assignment.Assignment, expected assignment.Status,
) error {
	args := m.Called(ctx, a, expected)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetActiveByCourier(
	ctx context.Context, courierID kernel.UUID,
) (*assignment.Assignment, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListBusyCouriers(
	ctx context.Context, candidates []kernel.UUID,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockAssignmentRepository) ListStaleBroadcasted(
	ctx context.Context, olderThan time.Time,
) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockShopLookup struct{ mock.Mock }

func (m *MockShopLookup) Get(ctx context.Context, shopID kernel.UUID) (ports.Shop, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(ports.Shop), args.Error(1)
}

type MockNearbyCouriers struct{ mock.Mock }

func (m *MockNearbyCouriers) Find(
	ctx context.Context, center kernel.GeoPoint, radiusMeters int,
) ([]ports.CourierCandidate, error) {
	args := m.Called(ctx, center, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.CourierCandidate), args.Error(1)
}

type MockUserDirectory struct{ mock.Mock }

func (m *MockUserDirectory) GetEmail(ctx context.Context, userID kernel.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserDirectory) GetLocation(ctx context.Context, userID kernel.UUID) (kernel.GeoPoint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockOtpStore struct{ mock.Mock }

func (m *MockOtpStore) Set(ctx context.Context, userID kernel.UUID, code string, ttl time.Duration) error {
	args := m.Called(ctx, userID, code, ttl)
	return args.Error(0)
}

func (m *MockOtpStore) Verify(ctx context.Context, userID kernel.UUID, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

type MockItemCatalog struct{ mock.Mock }

func (m *MockItemCatalog) RecordRating(ctx context.Context, itemID kernel.UUID, rating int) error {
	args := m.Called(ctx, itemID, rating)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendOrderStatus(ctx context.Context, email string, status order.Status) error {
	args := m.Called(ctx, email, status)
	return args.Error(0)
}

func (m *MockMailer) SendDeliveryCode(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

type MockPaymentVerifier struct{ mock.Mock }

func (m *MockPaymentVerifier) Verify(details order.PaymentDetails) error {
	args := m.Called(details)
	return args.Error(0)
}

func noopFanout() *fanout.Service {
	return fanout.NewService(fanout.NoopNotifier{}, slog.Default())
}

func testDeliveryAddress(t *testing.T) kernel.Address {
	t.Helper()
	location, err := kernel.NewGeoPoint(12.97, 77.59)
	require.NoError(t, err)
	address, err := kernel.NewAddress("221B Baker Street", location)
	require.NoError(t, err)
	return address
}

func testOrderWithOneShop(t *testing.T, userID kernel.UUID) *order.Order {
	t.Helper()

	item, err := order.NewOrderItem(
		kernel.NewUUID(), "Margherita", 1, decimal.NewFromInt(350), "margherita.png", "veg")
	require.NoError(t, err)
	shopOrder, err := order.NewShopOrder(kernel.NewUUID(), kernel.NewUUID(), []*order.OrderItem{item})
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(), userID,
		order.CashOnDelivery, order.PaymentPending, nil,
		testDeliveryAddress(t), []*order.ShopOrder{shopOrder})
	require.NoError(t, err)
	return o
}

func testBroadcastedAssignment(
	t *testing.T, o *order.Order, candidates []kernel.UUID,
) *assignment.Assignment {
	t.Helper()

	shopOrder := o.ShopOrders()[0]
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), o.ID(), shopOrder.ShopID(), shopOrder.ID(), candidates)
	require.NoError(t, err)
	require.NoError(t, o.LinkAssignment(shopOrder.ID(), a.ID()))
	return a
}
