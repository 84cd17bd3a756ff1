// Package ports defines the contracts between the order lifecycle core and its
// infrastructure: persistence, inventory, transactions and event delivery.
// Adapters under internal/adapters implement them; the application layer depends
// only on these interfaces.
package ports
