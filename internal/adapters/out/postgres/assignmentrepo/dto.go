// Package assignmentrepo provides data transfer objects and mapping functions
// for delivery-assignment persistence. An assignment row carries the offer
// state; its candidate couriers live in a child table so the busy-courier
// lookup and the offer listing can join against them.
package assignmentrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database row for a delivery assignment.
// ShopOrderID is unique: a shop order gets at most one broadcast over its
// lifetime. CourierID is null until the offer is claimed.
type AssignmentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index"`
	ShopID      uuid.UUID  `gorm:"type:uuid"`
	ShopOrderID uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Status      int        `gorm:"type:smallint;index"`
	CourierID   *uuid.UUID `gorm:"type:uuid;index"`
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	Candidates  []CandidateDTO `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// CandidateDTO represents one courier eligible for a broadcasted assignment.
// Position preserves the nearest-first ordering of the broadcast.
type CandidateDTO struct {
	AssignmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position     int
}

// TableName specifies the database table name for assignment candidates.
func (CandidateDTO) TableName() string {
	return "assignment_candidates"
}

// fromDomain converts an assignment aggregate to its database representation.
func fromDomain(a *assignment.Assignment) AssignmentDTO {
	var courierID *uuid.UUID
	if id := a.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	dto := AssignmentDTO{
		ID:          a.ID().Bytes(),
		OrderID:     a.OrderID().Bytes(),
		ShopID:      a.ShopID().Bytes(),
		ShopOrderID: a.ShopOrderID().Bytes(),
		Status:      int(a.Status()),
		CourierID:   courierID,
		AcceptedAt:  a.AcceptedAt(),
		CompletedAt: a.CompletedAt(),
		CreatedAt:   a.CreatedAt(),
	}

	dto.Candidates = make([]CandidateDTO, 0, len(a.Candidates()))
	for i, candidate := range a.Candidates() {
		dto.Candidates = append(dto.Candidates, CandidateDTO{
			AssignmentID: dto.ID,
			CourierID:    candidate.Bytes(),
			Position:     i,
		})
	}

	return dto
}

// toDomain converts a database DTO to an assignment aggregate.
// Candidates are expected in position order.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}
	shopOrderID, err := kernel.UUIDFromBytes(dto.ShopOrderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	candidates := make([]kernel.UUID, 0, len(dto.Candidates))
	for _, candidate := range dto.Candidates {
		cID, candidateErr := kernel.UUIDFromBytes(candidate.CourierID[:])
		if candidateErr != nil {
			return nil, candidateErr
		}
		candidates = append(candidates, cID)
	}

	return assignment.RestoreAssignment(
		id, orderID, shopID, shopOrderID,
		assignment.Status(dto.Status), candidates, courierID,
		dto.AcceptedAt, dto.CompletedAt, dto.CreatedAt,
	)
}
