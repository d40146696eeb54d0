package assignmentrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/assignmentrepo"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the aggregate tracker without recording anything.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// AssignmentRepositoryIntegrationTestSuite exercises the assignment
// repository against a real PostgreSQL database, including the conditional
// update under real concurrency.
type AssignmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *assignmentrepo.GormAssignmentRepository
}

func (suite *AssignmentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&assignmentrepo.AssignmentDTO{}, &assignmentrepo.CandidateDTO{})
	suite.Require().NoError(err)

	suite.repo = assignmentrepo.NewGormAssignmentRepository(db, noopTracker{})
}

func (suite *AssignmentRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE assignments, assignment_candidates").Error
	suite.Require().NoError(err)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestAddAndGet_RoundTrip verifies the aggregate and its candidate ordering
// survive persistence.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	candidates := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
	a := suite.newAssignment(candidates)

	suite.Require().NoError(suite.repo.Add(ctx, a))

	loaded, err := suite.repo.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(a.ID()))
	suite.True(loaded.OrderID().IsEqual(a.OrderID()))
	suite.True(loaded.ShopOrderID().IsEqual(a.ShopOrderID()))
	suite.Equal(assignment.Broadcasted, loaded.Status())
	suite.Equal(candidates, loaded.Candidates(), "Candidates should keep broadcast order")
	suite.Nil(loaded.CourierID())
	suite.Nil(loaded.AcceptedAt())
	suite.WithinDuration(a.CreatedAt(), loaded.CreatedAt(), time.Millisecond)
}

// TestGet_NotFound verifies the typed not-found error for unknown ids.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUpdateIfStatus_Accept persists an accept and verifies the candidate
// rows are cleared with it.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestUpdateIfStatus_Accept() {
	ctx := context.Background()
	winner := kernel.NewUUID()
	a := suite.newAssignment([]kernel.UUID{winner, kernel.NewUUID()})
	suite.Require().NoError(suite.repo.Add(ctx, a))

	_, err := a.Accept(winner, time.Now().UTC())
	suite.Require().NoError(err)

	err = suite.repo.UpdateIfStatus(ctx, a, assignment.Broadcasted)
	suite.Require().NoError(err)

	loaded, err := suite.repo.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Assigned, loaded.Status())
	suite.Require().NotNil(loaded.CourierID())
	suite.True(loaded.CourierID().IsEqual(winner))
	suite.NotNil(loaded.AcceptedAt())
	suite.Empty(loaded.Candidates())

	var count int64
	err = suite.db.Model(&assignmentrepo.CandidateDTO{}).
		Where("assignment_id = ?", a.ID().Bytes()).Count(&count).Error
	suite.Require().NoError(err)
	suite.Zero(count)
}

// TestUpdateIfStatus_StaleExpectation verifies the guard rejects a write when
// the stored status moved on, leaving the row untouched.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestUpdateIfStatus_StaleExpectation() {
	ctx := context.Background()
	winner := kernel.NewUUID()
	a := suite.newAssignment([]kernel.UUID{winner})
	suite.Require().NoError(suite.repo.Add(ctx, a))

	_, err := a.Accept(winner, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.UpdateIfStatus(ctx, a, assignment.Broadcasted))

	stale, err := suite.repo.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(stale.Complete(time.Now().UTC()))

	err = suite.repo.UpdateIfStatus(ctx, stale, assignment.Broadcasted)
	suite.Require().ErrorIs(err, errs.ErrInvalidState)

	loaded, err := suite.repo.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Assigned, loaded.Status(), "Guarded write should not touch the row")
}

// TestUpdateIfStatus_ConcurrentAccept races real database writes for one
// broadcasted assignment and verifies exactly one claimer wins.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestUpdateIfStatus_ConcurrentAccept() {
	ctx := context.Background()
	const claimers = 16

	candidates := make([]kernel.UUID, claimers)
	for i := range candidates {
		candidates[i] = kernel.NewUUID()
	}
	a := suite.newAssignment(candidates)
	suite.Require().NoError(suite.repo.Add(ctx, a))

	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make(chan error, claimers)

	for _, courierID := range candidates {
		wg.Add(1)
		go func(courierID kernel.UUID) {
			defer wg.Done()
			<-start

			attempt, err := suite.repo.Get(ctx, a.ID())
			if err != nil {
				results <- err
				return
			}
			if _, err = attempt.Accept(courierID, time.Now().UTC()); err != nil {
				results <- err
				return
			}
			results <- suite.repo.UpdateIfStatus(ctx, attempt, assignment.Broadcasted)
		}(courierID)
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
		suite.Require().ErrorIs(err, errs.ErrInvalidState)
		losses++
	}

	suite.Equal(1, wins, "Exactly one claimer should win")
	suite.Equal(claimers-1, losses)

	loaded, err := suite.repo.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Assigned, loaded.Status())
	suite.NotNil(loaded.CourierID())
	suite.Empty(loaded.Candidates())
}

// TestGetActiveByCourier verifies lookup by the courier holding the delivery.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetActiveByCourier() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	a := suite.newAssignment([]kernel.UUID{courierID})
	_, err := a.Accept(courierID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, a))

	loaded, err := suite.repo.GetActiveByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(a.ID()))

	_, err = suite.repo.GetActiveByCourier(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestGetActiveByCourier_CompletedIsNotActive verifies completed deliveries
// stop counting as active.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetActiveByCourier_CompletedIsNotActive() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	a := suite.newAssignment([]kernel.UUID{courierID})
	_, err := a.Accept(courierID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(a.Complete(time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, a))

	_, err = suite.repo.GetActiveByCourier(ctx, courierID)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestListBusyCouriers verifies only candidates holding active deliveries
// come back.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestListBusyCouriers() {
	ctx := context.Background()
	busyCourier := kernel.NewUUID()
	doneCourier := kernel.NewUUID()
	freeCourier := kernel.NewUUID()

	active := suite.newAssignment([]kernel.UUID{busyCourier})
	_, err := active.Accept(busyCourier, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, active))

	completed := suite.newAssignment([]kernel.UUID{doneCourier})
	_, err = completed.Accept(doneCourier, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(completed.Complete(time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, completed))

	busy, err := suite.repo.ListBusyCouriers(ctx, []kernel.UUID{busyCourier, doneCourier, freeCourier})
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{busyCourier}, busy)

	busy, err = suite.repo.ListBusyCouriers(ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(busy)
}

// TestListStaleBroadcasted verifies only old, still-open broadcasts are
// returned, oldest first.
func (suite *AssignmentRepositoryIntegrationTestSuite) TestListStaleBroadcasted() {
	ctx := context.Background()

	stale := suite.newAssignment([]kernel.UUID{kernel.NewUUID()})
	suite.Require().NoError(suite.repo.Add(ctx, stale))
	suite.backdate(stale.ID(), 5*time.Minute)

	fresh := suite.newAssignment([]kernel.UUID{kernel.NewUUID()})
	suite.Require().NoError(suite.repo.Add(ctx, fresh))

	claimedCourier := kernel.NewUUID()
	claimed := suite.newAssignment([]kernel.UUID{claimedCourier})
	_, err := claimed.Accept(claimedCourier, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, claimed))
	suite.backdate(claimed.ID(), 5*time.Minute)

	found, err := suite.repo.ListStaleBroadcasted(ctx, time.Now().UTC().Add(-2*time.Minute))
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.True(found[0].ID().IsEqual(stale.ID()))
}

func (suite *AssignmentRepositoryIntegrationTestSuite) newAssignment(candidates []kernel.UUID) *assignment.Assignment {
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), candidates)
	suite.Require().NoError(err)
	return a
}

// backdate pushes an assignment's creation time into the past.
func (suite *AssignmentRepositoryIntegrationTestSuite) backdate(id kernel.UUID, by time.Duration) {
	err := suite.db.Model(&assignmentrepo.AssignmentDTO{}).
		Where("id = ?", id.Bytes()).
		Update("created_at", time.Now().UTC().Add(-by)).Error
	suite.Require().NoError(err)
}

func TestAssignmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentRepositoryIntegrationTestSuite))
}
