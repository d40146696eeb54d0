package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptAssignmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	userID := kernel.NewUUID()
	o := testOrderWithOneShop(t, userID)
	winner := kernel.NewUUID()
	loser := kernel.NewUUID()
	a := testBroadcastedAssignment(t, o, []kernel.UUID{winner, loser})

	cmd, err := commands.NewAcceptAssignmentCommand(a.ID(), winner)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		assignmentRepo.On("UpdateIfStatus", ctx, a, assignment.Broadcasted).Return(nil).Once(),
		orderRepo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("AssignmentRepository").Return(assignmentRepo)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptAssignmentCommandHandler(factory, noopFanout())
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, assignment.Assigned, a.Status())
	require.NotNil(t, a.CourierID())
	assert.True(t, a.CourierID().IsEqual(winner))
	assert.Empty(t, a.Candidates())

	shopOrder := o.ShopOrders()[0]
	require.NotNil(t, shopOrder.CourierID())
	assert.True(t, shopOrder.CourierID().IsEqual(winner))

	assignmentRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptAssignmentCommandHandler_Handle_AssignmentNotFound(t *testing.T) {
	ctx := t.Context()

	assignmentID := kernel.NewUUID()
	cmd, err := commands.NewAcceptAssignmentCommand(assignmentID, kernel.NewUUID())
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, assignmentID).
		Return(nil, errs.NewObjectNotFoundError("assignment", assignmentID.String())).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptAssignmentCommandHandler(factory, noopFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestAcceptAssignmentCommandHandler_Handle_AlreadyClaimed(t *testing.T) {
	ctx := t.Context()

	o := testOrderWithOneShop(t, kernel.NewUUID())
	first := kernel.NewUUID()
	second := kernel.NewUUID()
	a := testBroadcastedAssignment(t, o, []kernel.UUID{first, second})
	_, err := a.Accept(first, time.Now().UTC())
	require.NoError(t, err)

	cmd, err := commands.NewAcceptAssignmentCommand(a.ID(), second)
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptAssignmentCommandHandler(factory, noopFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptAssignmentCommandHandler_Handle_OutsiderForbidden(t *testing.T) {
	ctx := t.Context()

	o := testOrderWithOneShop(t, kernel.NewUUID())
	a := testBroadcastedAssignment(t, o, []kernel.UUID{kernel.NewUUID()})
	outsider := kernel.NewUUID()

	cmd, err := commands.NewAcceptAssignmentCommand(a.ID(), outsider)
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptAssignmentCommandHandler(factory, noopFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	assert.Equal(t, assignment.Broadcasted, a.Status())
}

func TestAcceptAssignmentCommandHandler_Handle_LostConditionalUpdate(t *testing.T) {
	ctx := t.Context()

	o := testOrderWithOneShop(t, kernel.NewUUID())
	courierID := kernel.NewUUID()
	a := testBroadcastedAssignment(t, o, []kernel.UUID{courierID})

	cmd, err := commands.NewAcceptAssignmentCommand(a.ID(), courierID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once()
	assignmentRepo.On("UpdateIfStatus", ctx, a, assignment.Broadcasted).
		Return(errs.NewInvalidStateError("assignment", assignment.Assigned.String())).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptAssignmentCommandHandler(factory, noopFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

// raceStore is an in-memory assignment store whose conditional update mimics
// the repository's guarded write: the status check and the overwrite happen
// under one mutex, so of many concurrent claims exactly one can pass the
// guard. Each Get hands out an independent copy the way a real repository
// rehydrates a fresh aggregate per transaction.
type raceStore struct {
	mu sync.Mutex

	orderID     kernel.UUID
	shopID      kernel.UUID
	shopOrderID kernel.UUID

	id         kernel.UUID
	status     assignment.Status
	candidates []kernel.UUID
	courierID  *kernel.UUID
	acceptedAt *time.Time
	createdAt  time.Time
}

func newRaceStore(t *testing.T, a *assignment.Assignment) *raceStore {
	t.Helper()
	return &raceStore{
		orderID:     a.OrderID(),
		shopID:      a.ShopID(),
		shopOrderID: a.ShopOrderID(),
		id:          a.ID(),
		status:      a.Status(),
		candidates:  append([]kernel.UUID(nil), a.Candidates()...),
		createdAt:   a.CreatedAt(),
	}
}

func (s *raceStore) Add(_ context.Context, _ *assignment.Assignment) error { return nil }

func (s *raceStore) Get(_ context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.id.IsEqual(id) {
		return nil, errs.NewObjectNotFoundError("assignment", id.String())
	}
	return assignment.RestoreAssignment(
		s.id, s.orderID, s.shopID, s.shopOrderID,
		s.status, append([]kernel.UUID(nil), s.candidates...),
		s.courierID, s.acceptedAt, nil, s.createdAt)
}

func (s *raceStore) UpdateIfStatus(
	_ context.Context, a *assignment.Assignment, expected assignment.Status,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != expected {
		return errs.NewInvalidStateError("assignment", s.status.String())
	}
	s.status = a.Status()
	s.candidates = append([]kernel.UUID(nil), a.Candidates()...)
	s.courierID = a.CourierID()
	s.acceptedAt = a.AcceptedAt()
	return nil
}

func (s *raceStore) GetActiveByCourier(_ context.Context, _ kernel.UUID) (*assignment.Assignment, error) {
	return nil, errs.NewObjectNotFoundError("assignment", "none")
}

func (s *raceStore) ListBusyCouriers(_ context.Context, _ []kernel.UUID) ([]kernel.UUID, error) {
	return nil, nil
}

func (s *raceStore) ListStaleBroadcasted(_ context.Context, _ time.Time) ([]*assignment.Assignment, error) {
	return nil, nil
}

// raceUoW is a pass-through unit of work over the shared race store. Order
// writes are tracked per claim attempt so the winner's side effects can be
// inspected.
type raceUoW struct {
	store     *raceStore
	orderRepo ports.OrderRepository
}

func (u *raceUoW) Begin(context.Context) error                      { return nil }
func (u *raceUoW) Commit(context.Context) error                     { return nil }
func (u *raceUoW) Rollback(context.Context) error                   { return nil }
func (u *raceUoW) OrderRepository() ports.OrderRepository           { return u.orderRepo }
func (u *raceUoW) AssignmentRepository() ports.AssignmentRepository { return u.store }

// raceOrderRepo rehydrates an independent order copy per Get, the way a real
// repository does, so concurrent claim attempts never share aggregate state.
type raceOrderRepo struct {
	mu sync.Mutex
	o  *order.Order
}

func (r *raceOrderRepo) Add(context.Context, *order.Order) error { return nil }

func (r *raceOrderRepo) Update(context.Context, *order.Order) error { return nil }

func (r *raceOrderRepo) Get(_ context.Context, _ kernel.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shopOrders := make([]*order.ShopOrder, 0, len(r.o.ShopOrders()))
	for _, so := range r.o.ShopOrders() {
		restored, err := order.RestoreShopOrder(
			so.ID(), so.ShopID(), so.OwnerID(), so.Subtotal(), so.Items(),
			so.Status(), so.AssignmentID(), so.CourierID())
		if err != nil {
			return nil, err
		}
		shopOrders = append(shopOrders, restored)
	}
	return order.RestoreOrder(
		r.o.ID(), r.o.UserID(), r.o.PaymentMethod(), r.o.PaymentStatus(), r.o.Payment(),
		r.o.DeliveryAddress(), r.o.TotalAmount(), shopOrders, r.o.CreatedAt())
}

type raceUoWFactory struct {
	store     *raceStore
	orderRepo *raceOrderRepo
}

func (f *raceUoWFactory) Create() commands.UoW {
	return &raceUoW{store: f.store, orderRepo: f.orderRepo}
}

func TestAcceptAssignmentCommandHandler_Handle_ExactlyOneWinner(t *testing.T) {
	const attempts = 32

	o := testOrderWithOneShop(t, kernel.NewUUID())

	couriers := make([]kernel.UUID, attempts)
	for i := range couriers {
		couriers[i] = kernel.NewUUID()
	}
	a := testBroadcastedAssignment(t, o, couriers)

	store := newRaceStore(t, a)
	factory := &raceUoWFactory{store: store, orderRepo: &raceOrderRepo{o: o}}
	handler := commands.NewAcceptAssignmentCommandHandler(factory, noopFanout())

	start := make(chan struct{})
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for _, courierID := range couriers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewAcceptAssignmentCommand(a.ID(), courierID)
			if err != nil {
				results <- err
				return
			}
			<-start
			results <- handler.Handle(context.Background(), cmd)
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, errs.ErrInvalidState,
			"losers must observe the claimed state")
		losses++
	}

	assert.Equal(t, 1, wins, "exactly one claim may succeed")
	assert.Equal(t, attempts-1, losses)

	final, err := store.Get(context.Background(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, assignment.Assigned, final.Status())
	require.NotNil(t, final.CourierID())
	assert.Empty(t, final.Candidates())
}
