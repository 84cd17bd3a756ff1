package order

import "time"

// StatusChanged records a persisted status transition. It is published after the
// unit of work that changed the order commits.
type StatusChanged struct {
	OrderID    string
	UserID     string
	From       Status
	To         Status
	Total      int64
	OccurredAt time.Time
}

// NewStatusChanged describes the move of o from the previous status to its current one.
func NewStatusChanged(o *Order, from Status, at time.Time) StatusChanged {
	return StatusChanged{
		OrderID:    o.ID(),
		UserID:     o.UserID(),
		From:       from,
		To:         o.Status(),
		Total:      o.TotalPrice(),
		OccurredAt: at,
	}
}
