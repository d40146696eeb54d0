package postgres

import (
	"fooddelivery/internal/adapters/out/postgres/assignmentrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every aggregate table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ShopOrderDTO{},
		&orderrepo.OrderItemDTO{},
		&assignmentrepo.AssignmentDTO{},
		&assignmentrepo.CandidateDTO{},
	)
}
