// Package order provides domain entities and business logic for multi-shop
// food orders. It implements the Order aggregate root with its nested
// ShopOrder and OrderItem entities.
//
// The package includes:
//   - Order: The aggregate root owning payment details, the delivery address,
//     and the per-shop portions of a checkout
//   - ShopOrder: The portion of an order belonging to one shop, with its own
//     delivery status and optional delivery-assignment references
//   - OrderItem: A purchased item with an optional one-time customer rating
//   - Status: The per-shop delivery status
//
// Key business rules:
//   - An order's total amount is the sum of its shop-order subtotals at creation
//   - Shop orders and items are owned exclusively by their parent order and are
//     mutated only through Order-level methods
//   - A shop order holds at most one assignment reference at a time
//   - Items are rated at most once, and only after their shop order is delivered
//
// Status transitions are deliberately permissive: any status may be set
// directly, matching the behavior the rest of the platform depends on.
package order
