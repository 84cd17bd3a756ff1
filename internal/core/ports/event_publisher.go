package ports

import (
	"context"

	"shopping/internal/core/domain/model/order"
)

// EventPublisher delivers order events to other systems. It is called only after
// the change has been committed; delivery failures do not undo the change.
type EventPublisher interface {
	Publish(ctx context.Context, event order.StatusChanged) error
}
