// Package kernel provides the shared domain primitives that every bounded part of the
// shopping system relies on.
//
// The package includes:
//   - Role: a closed set of caller roles (USER, ADMIN)
//   - Actor: the identity of whoever invokes a use case, passed explicitly
//     instead of living in process-wide session state
//
// Both types are immutable values and can be shared between goroutines.
package kernel
