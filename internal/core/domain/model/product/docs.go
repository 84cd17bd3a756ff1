// Package product provides the catalog entity that order lines are snapshotted from
// and that holds the stock count.
//
// Key business rules:
//   - id and name are never blank; the unit price is positive
//   - stock is never negative
//   - a new product and an administrator restock may not exceed MaxStock
package product
