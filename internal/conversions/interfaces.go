package conversions

import (
	"context"
	"time"

	"github.com/leadflowhq/leadflow-backend/internal/warehouse"
)

// EventPublisher emits conversion events for downstream consumers. Publishing
// is best effort: a publish failure is logged, never surfaced to the caller.
type EventPublisher interface {
	PublishConversion(ctx context.Context, event warehouse.ConversionEvent) error
}

// IdempotencyStore guards against reprocessing a webhook delivery. The redis
// client satisfies this.
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}
