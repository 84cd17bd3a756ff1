// Package cart provides the per-user shopping cart that orders can be placed from.
//
// Key business rules:
//   - a cart belongs to exactly one user and never changes owner
//   - lines are unique by product id; adding a known product merges quantities and
//     refreshes the snapshotted name and price
//   - the total always equals the sum of line totals and never overflows
//   - an empty cart cannot be checked out
package cart
