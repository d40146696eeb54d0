// Package assignment provides the delivery-assignment aggregate: the record
// of one delivery offer broadcast to candidate couriers for a single shop
// order, claimed by exactly one courier, and completed on delivery.
//
// The package includes:
//   - Assignment: The aggregate root owning the offer lifecycle
//   - Status: A forward-only state machine
//     (Broadcasted -> Assigned -> PickedUp -> EnRoute -> Completed)
//
// Key business rules:
//   - An assignment is created in Broadcasted state with a non-empty
//     candidate set and no courier pre-selected
//   - It transitions to Assigned exactly once, via Accept; the candidate set
//     is cleared at that moment and the previous candidates are surfaced so
//     losing couriers can be notified
//   - Completion clears the courier and stamps the completion time
//   - Status never moves backward
//
// Assignment references its order and shop order by id only. It is an
// independently retained record: replacing or deleting the order does not
// cascade to its assignments.
package assignment
