// Package order provides the Order aggregate for the shopping system together with
// its line items and lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root that owns line items, the derived total and the status
//   - Item: a line entry that snapshots product id, name and unit price at order time
//   - Status: the lifecycle state machine with its transition table
//   - StatusChanged: the event emitted after a status transition is persisted
//
// Key business rules:
//   - An order has a non-blank owner and at least one line when placed
//   - Lines are unique by product id; adding a known product merges quantities
//   - Lines may only change while the order is PENDING
//   - The total always equals the sum of line totals
//   - Status follows PENDING -> CONFIRMED -> SHIPPING -> DELIVERED, with CANCELLED
//     reachable from PENDING and CONFIRMED
//   - Re-applying the current status is a no-op unless idempotent transitions are disabled
//
// Order is not safe for concurrent mutation; the application layer serializes
// access per order id.
package order
