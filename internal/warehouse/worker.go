package warehouse

import (
	"context"
	"encoding/json"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

// MessageSource is the receive side of a subscription. The pubsub
// Subscriber satisfies this.
type MessageSource interface {
	Receive(ctx context.Context, f func(context.Context, *gcppubsub.Message)) error
}

// Worker consumes conversion events from the attribution subscription and
// hands them to the batch writer.
type Worker struct {
	source MessageSource
	writer *Writer
	logg   *logger.Logger
}

// NewWorker wires the warehouse worker.
func NewWorker(source MessageSource, writer *Writer, logg *logger.Logger) (*Worker, error) {
	if source == nil {
		return nil, fmt.Errorf("warehouse: message source is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("warehouse: writer is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("warehouse: logger is required")
	}
	return &Worker{source: source, writer: writer, logg: logg}, nil
}

// Run blocks until the context is cancelled or the subscription fails.
// Malformed messages are acked and dropped so they cannot wedge the
// subscription; valid ones are acked once buffered, and nacked for
// redelivery when the buffer cannot be flushed into the warehouse.
func (w *Worker) Run(ctx context.Context) error {
	w.logg.Info(ctx, "warehouse worker started")

	err := w.source.Receive(ctx, func(msgCtx context.Context, msg *gcppubsub.Message) {
		if w.handle(msgCtx, msg.Data) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("receive conversion events: %w", err)
	}
	return nil
}

// handle reports whether the message should be acked. Redelivered events
// that were already buffered are deduplicated downstream by insert id.
func (w *Worker) handle(ctx context.Context, data []byte) bool {
	event, err := decodeEvent(data)
	if err != nil {
		w.logg.Error(ctx, "dropping undecodable conversion event", err)
		return true
	}

	if err := w.writer.Enqueue(event); err != nil {
		w.logg.Error(ctx, "conversion event not persisted, requesting redelivery", err)
		return false
	}
	return true
}

func decodeEvent(data []byte) (ConversionEvent, error) {
	var event ConversionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return ConversionEvent{}, fmt.Errorf("unmarshal conversion event: %w", err)
	}
	if event.EventID == "" || event.LeadID == "" || event.OrgID == "" {
		return ConversionEvent{}, fmt.Errorf("conversion event missing identity fields")
	}
	return event, nil
}
