package warehouse

import (
	"context"
	"encoding/json"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	lfpubsub "github.com/leadflowhq/leadflow-backend/pkg/pubsub"
)

// Publisher pushes conversion events onto the attribution topic.
type Publisher struct {
	topic *gcppubsub.Publisher
}

// NewPublisher binds to the configured attribution topic.
func NewPublisher(client *lfpubsub.Client) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("warehouse: pubsub client is required")
	}
	return &Publisher{topic: client.AttributionPublisher()}, nil
}

// PublishConversion serializes the event and blocks until the broker
// acknowledges it.
func (p *Publisher) PublishConversion(ctx context.Context, event ConversionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal conversion event: %w", err)
	}

	result := p.topic.Publish(ctx, &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id": event.EventID,
			"org_id":   event.OrgID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish conversion event: %w", err)
	}
	return nil
}
