// Package ports defines repository, unit-of-work, and collaborator interfaces
// for the order and assignment domains. These interfaces establish contracts
// between the domain layer and infrastructure, enabling dependency inversion
// and testability.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing and retrieving orders with their complete
// state including shop orders and items.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including its
	// shop orders and items. The order must exist in the repository.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with all shop orders and items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
