package queries_test

import (
	"context"
	"time"

	"fooddelivery/internal/adapters/out/postgres/assignmentrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the repositories' aggregate tracker in tests.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// QueryHandlerSuite is the shared fixture for the read-side handler suites:
// one PostgreSQL container, the migrated schema, and seeding helpers that go
// through the write-side repositories.
type QueryHandlerSuite struct {
	suite.Suite
	container      *postgres.PostgresContainer
	db             *gorm.DB
	orderRepo      *orderrepo.GormOrderRepository
	assignmentRepo *assignmentrepo.GormAssignmentRepository
}

func (suite *QueryHandlerSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.ShopOrderDTO{}, &orderrepo.OrderItemDTO{},
		&assignmentrepo.AssignmentDTO{}, &assignmentrepo.CandidateDTO{},
	)
	suite.Require().NoError(err)

	suite.orderRepo = orderrepo.NewGormOrderRepository(db, noopTracker{})
	suite.assignmentRepo = assignmentrepo.NewGormAssignmentRepository(db, noopTracker{})
}

func (suite *QueryHandlerSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, shop_orders, order_items, assignments, assignment_candidates").Error
	suite.Require().NoError(err)
}

func (suite *QueryHandlerSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// seedOrder persists a COD order with one shop order per given owner, each
// holding one item with the given price.
func (suite *QueryHandlerSuite) seedOrder(userID kernel.UUID, ownerPrices map[kernel.UUID]int) *order.Order {
	shopOrders := make([]*order.ShopOrder, 0, len(ownerPrices))
	for ownerID, price := range ownerPrices {
		item, err := order.NewOrderItem(
			kernel.NewUUID(), "Veg Thali", 1, decimal.NewFromInt(int64(price)), "thali.png", "veg")
		suite.Require().NoError(err)

		shopOrder, err := order.NewShopOrder(kernel.NewUUID(), ownerID, []*order.OrderItem{item})
		suite.Require().NoError(err)
		shopOrders = append(shopOrders, shopOrder)
	}

	location, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	address, err := kernel.NewAddress("14 MG Road, Bengaluru", location)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), userID,
		order.CashOnDelivery, order.PaymentPending, nil,
		address, shopOrders)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

// seedAssignment persists an assignment for the given order's first shop
// order with the given candidates.
func (suite *QueryHandlerSuite) seedAssignment(o *order.Order, candidates []kernel.UUID) *assignment.Assignment {
	shopOrder := o.ShopOrders()[0]
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), o.ID(), shopOrder.ShopID(), shopOrder.ID(), candidates)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.assignmentRepo.Add(context.Background(), a))
	return a
}

// backdateOrder pushes an order's creation time into the past so listing
// order is deterministic.
func (suite *QueryHandlerSuite) backdateOrder(id kernel.UUID, by time.Duration) {
	err := suite.db.Model(&orderrepo.OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Update("created_at", time.Now().UTC().Add(-by)).Error
	suite.Require().NoError(err)
}
