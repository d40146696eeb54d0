// Package services provides domain services that orchestrate business
// operations across multiple domain entities. It implements workflows that
// don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AssignmentBroadcaster: creates a delivery-assignment broadcast for one
//     shop order from the nearby and busy courier sets
//
// Domain services coordinate between aggregates, implementing business logic
// that spans the order and assignment models.
package services
