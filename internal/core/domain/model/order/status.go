package order

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"shopping/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Shipping ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status. Items can be changed only here.
	Pending

	// Confirmed means stock has been reserved for every line.
	Confirmed

	// Shipping means the order has left the warehouse.
	Shipping

	// Delivered is a terminal status.
	Delivered

	// Cancelled is a terminal status.
	Cancelled
)

// idempotencyDisabled holds the inverse of the process-wide idempotency policy so the
// zero value keeps same-state transitions allowed.
var idempotencyDisabled atomic.Bool

// SetIdempotentTransitions sets the process-wide policy for same-state transitions.
// When enabled (the default), changing an order to its current status succeeds without
// effect. When disabled, such a change is rejected like any illegal transition.
func SetIdempotentTransitions(enabled bool) {
	idempotencyDisabled.Store(!enabled)
}

// IdempotentTransitions reports the current same-state transition policy.
func IdempotentTransitions() bool {
	return !idempotencyDisabled.Load()
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Shipping:  "SHIPPING",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

func getStatusDisplayNames() map[Status]string {
	//nolint:exhaustive // Unknown has no label
	return map[Status]string{
		Pending:   "Awaiting confirmation",
		Confirmed: "Order confirmed",
		Shipping:  "In transit",
		Delivered: "Delivered",
		Cancelled: "Order cancelled",
	}
}

// getTransitions returns the adjacency table of the state machine.
// A status missing from the table has no outgoing transitions.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no edges
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Shipping, Cancelled},
		Shipping:  {Delivered},
	}
}

// ParseStatus converts a persisted or transported status name into a Status.
// Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the five lifecycle states.
func (s Status) Validate() error {
	if _, ok := getStatusDisplayNames()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical upper-case name used in storage, events and the API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// DisplayName returns a label for people rather than machines.
func (s Status) DisplayName() string {
	return getStatusDisplayNames()[s]
}

// IsTerminal reports whether no further transitions leave this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether moving from s to next is legal.
//
// Rules:
//   - next must be a valid status
//   - next == s is allowed only while idempotent transitions are enabled
//   - otherwise the transition table must list next as a successor of s
//
// Example:
//
//	order.Pending.CanTransitionTo(order.Confirmed)  // true
//	order.Shipping.CanTransitionTo(order.Cancelled) // false
func (s Status) CanTransitionTo(next Status) bool {
	if next.Validate() != nil {
		return false
	}
	if s == next {
		return IdempotentTransitions()
	}
	return slices.Contains(getTransitions()[s], next)
}
