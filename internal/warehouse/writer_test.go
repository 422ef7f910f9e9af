package warehouse

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInserter struct {
	mu      sync.Mutex
	batches [][]any
	err     error
}

func (s *stubInserter) InsertRows(_ context.Context, _ string, rows []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, rows)
	return nil
}

func (s *stubInserter) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "warehouse-test", Output: io.Discard})
}

func eventFixture(id string) ConversionEvent {
	return ConversionEvent{
		EventID:     id,
		OrgID:       "org-1",
		LeadID:      "lead-1",
		OrderRef:    "#1001",
		OrderValue:  299,
		Currency:    "USD",
		ConvertedAt: time.Date(2026, 8, 10, 14, 30, 0, 0, time.UTC),
		OccurredAt:  time.Date(2026, 8, 10, 14, 30, 1, 0, time.UTC),
	}
}

func TestWriterFlushesWhenBatchFills(t *testing.T) {
	inserter := &stubInserter{}
	writer, err := NewWriter(inserter, "conversion_events", testLogger(), 2, time.Hour)
	require.NoError(t, err)

	require.NoError(t, writer.Enqueue(eventFixture("e1")))
	assert.Equal(t, 0, inserter.batchCount())
	assert.Equal(t, 1, writer.Pending())

	require.NoError(t, writer.Enqueue(eventFixture("e2")))
	require.Equal(t, 1, inserter.batchCount())
	assert.Len(t, inserter.batches[0], 2)
	assert.Equal(t, 0, writer.Pending())
}

func TestWriterKeepsRowsAfterFailedFlush(t *testing.T) {
	inserter := &stubInserter{err: errors.New("streaming insert failed")}
	writer, err := NewWriter(inserter, "conversion_events", testLogger(), 100, time.Hour)
	require.NoError(t, err)

	require.NoError(t, writer.Enqueue(eventFixture("e1")))
	require.Error(t, writer.Flush(context.Background()))
	assert.Equal(t, 1, writer.Pending())

	inserter.err = nil
	require.NoError(t, writer.Flush(context.Background()))
	assert.Equal(t, 0, writer.Pending())
	require.Equal(t, 1, inserter.batchCount())
}

func TestWriterCloseDrainsBuffer(t *testing.T) {
	inserter := &stubInserter{}
	writer, err := NewWriter(inserter, "conversion_events", testLogger(), 100, time.Hour)
	require.NoError(t, err)
	writer.Start()

	require.NoError(t, writer.Enqueue(eventFixture("e1")))
	require.NoError(t, writer.Close())
	assert.Equal(t, 1, inserter.batchCount())
	assert.Equal(t, 0, writer.Pending())
}

func TestDecodeEventRejectsPartialPayloads(t *testing.T) {
	_, err := decodeEvent([]byte(`{"event_id": "e1"}`))
	require.Error(t, err)

	_, err = decodeEvent([]byte(`not json`))
	require.Error(t, err)

	event, err := decodeEvent([]byte(`{"event_id":"e1","org_id":"org-1","lead_id":"lead-1","order_value":299}`))
	require.NoError(t, err)
	assert.Equal(t, 299.0, event.OrderValue)
}

func TestConversionEventSaveUsesEventIDForDedup(t *testing.T) {
	row, insertID, err := eventFixture("e42").Save()
	require.NoError(t, err)
	assert.Equal(t, "e42", insertID)
	assert.Equal(t, "org-1", row["org_id"])
	assert.Equal(t, 299.0, row["order_value"])
}
