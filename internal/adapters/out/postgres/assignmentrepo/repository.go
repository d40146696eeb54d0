package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment with its candidate rows to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an assignment by ID with its candidates in broadcast order.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("assignment_candidates.position")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateIfStatus writes the aggregate's state with a single conditional
// update keyed by id and expected status. When the stored status no longer
// matches, nothing is written and an InvalidState error is returned; this is
// what serializes racing accept calls, so exactly one of N concurrent
// claimers of a broadcasted assignment succeeds. The candidate rows are
// replaced only after the guard passes.
func (r *GormAssignmentRepository) UpdateIfStatus(
	ctx context.Context, aggregate *assignment.Assignment, expected assignment.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	tx := r.db.WithContext(ctx)

	result := tx.Model(&AssignmentDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(expected)).
		Select("status", "courier_id", "accepted_at", "completed_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewInvalidStateError("assignment", expected.String())
	}

	if err := tx.Where("assignment_id = ?", dto.ID).Delete(&CandidateDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Candidates) > 0 {
		if err := tx.Create(&dto.Candidates).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetActiveByCourier retrieves the assignment the courier currently holds in
// an active status. A courier holds at most one at a time.
func (r *GormAssignmentRepository) GetActiveByCourier(
	ctx context.Context, courierID kernel.UUID,
) (*assignment.Assignment, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("assignment_candidates.position")
		}).
		First(&dto, "courier_id = ? AND status IN ?", courierID.Bytes(), activeStatusInts()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active assignment", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListBusyCouriers returns the subset of the given candidates that hold an
// assignment in an active status, resolved in one query.
func (r *GormAssignmentRepository) ListBusyCouriers(
	ctx context.Context, candidates []kernel.UUID,
) ([]kernel.UUID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.Bytes())
	}

	var rows []uuid.UUID
	err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Distinct("courier_id").
		Where("status IN ? AND courier_id IN ?", activeStatusInts(), ids).
		Pluck("courier_id", &rows).Error
	if err != nil {
		return nil, err
	}

	busy := make([]kernel.UUID, 0, len(rows))
	for _, row := range rows {
		id, rowErr := kernel.UUIDFromBytes(row[:])
		if rowErr != nil {
			return nil, rowErr
		}
		busy = append(busy, id)
	}

	return busy, nil
}

// ListStaleBroadcasted returns assignments still in Broadcasted status that
// were created before the given cutoff, oldest first.
func (r *GormAssignmentRepository) ListStaleBroadcasted(
	ctx context.Context, olderThan time.Time,
) ([]*assignment.Assignment, error) {
	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("assignment_candidates.position")
		}).
		Where("status = ? AND created_at < ?", int(assignment.Broadcasted), olderThan).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, dtoErr := toDomain(dto)
		if dtoErr != nil {
			return nil, dtoErr
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

func activeStatusInts() []int {
	statuses := assignment.ActiveStatuses()
	ints := make([]int, 0, len(statuses))
	for _, s := range statuses {
		ints = append(ints, int(s))
	}
	return ints
}
