package warehouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"go.uber.org/multierr"
)

const (
	defaultBatchSize  = 200
	defaultFlushEvery = 15 * time.Second
	flushTimeout      = 30 * time.Second
)

// Inserter appends rows to a warehouse table. The BigQuery client satisfies
// this.
type Inserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

// Writer buffers conversion events and streams them to the warehouse in
// batches, either when the buffer fills or on a timer.
type Writer struct {
	inserter   Inserter
	table      string
	logg       *logger.Logger
	batchSize  int
	flushEvery time.Duration

	mu     sync.Mutex
	buffer []any

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWriter wires the batch writer. Zero batchSize and flushEvery fall back
// to the defaults.
func NewWriter(inserter Inserter, table string, logg *logger.Logger, batchSize int, flushEvery time.Duration) (*Writer, error) {
	if inserter == nil {
		return nil, fmt.Errorf("warehouse: inserter is required")
	}
	if table == "" {
		return nil, fmt.Errorf("warehouse: table name is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("warehouse: logger is required")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	return &Writer{
		inserter:   inserter,
		table:      table,
		logg:       logg,
		batchSize:  batchSize,
		flushEvery: flushEvery,
		stop:       make(chan struct{}),
	}, nil
}

// Start launches the timed flush loop.
func (w *Writer) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.flushEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.flushWithTimeout()
			case <-w.stop:
				return
			}
		}
	}()
}

// Enqueue adds one event to the buffer and flushes when the batch is full.
// A failed flush keeps the batch buffered and surfaces the error so the
// caller can nack the triggering message.
func (w *Writer) Enqueue(event ConversionEvent) error {
	w.mu.Lock()
	w.buffer = append(w.buffer, event)
	full := len(w.buffer) >= w.batchSize
	w.mu.Unlock()

	if full {
		return w.flushWithTimeout()
	}
	return nil
}

// Flush drains the buffer into the warehouse. Failed rows go back to the
// front of the buffer for the next attempt.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	batch := w.buffer
	w.buffer = nil
	w.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := w.inserter.InsertRows(ctx, w.table, batch); err != nil {
		w.mu.Lock()
		w.buffer = append(batch, w.buffer...)
		w.mu.Unlock()
		return fmt.Errorf("flush %d conversion events: %w", len(batch), err)
	}
	return nil
}

// Close stops the flush loop and drains whatever is still buffered.
func (w *Writer) Close() error {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	var errs error
	if err := w.Flush(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (w *Writer) flushWithTimeout() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	err := w.Flush(ctx)
	if err != nil {
		w.logg.Error(ctx, "warehouse flush failed, rows kept for retry", err)
	}
	return err
}

// Pending reports how many events are waiting for the next flush.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buffer)
}
