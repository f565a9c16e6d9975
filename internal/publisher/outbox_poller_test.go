package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lighthouse/storefront/internal/repository"
)

type mockSource struct {
	events       []*repository.OutboxEvent
	fetchErr     error
	processedIDs []int64
	markErr      error
}

func (m *mockSource) GetUnprocessedEvents(context.Context, int) ([]*repository.OutboxEvent, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	events := m.events
	m.events = nil
	return events, nil
}

func (m *mockSource) MarkEventAsProcessed(_ context.Context, id int64) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.processedIDs = append(m.processedIDs, id)
	return nil
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	source := &mockSource{
		events: []*repository.OutboxEvent{
			{ID: 7, AggregateID: "ord-1", EventType: "order.placed", Payload: []byte(`{"order_id":"ord-1"}`)},
		},
	}
	writer := &mockWriter{}
	sut := &OutboxPoller{tick: time.Second, repo: source, writer: writer}

	sut.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("ord-1"), msg.Key)
	assert.Equal(t, []byte(`{"order_id":"ord-1"}`), msg.Value)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("order.placed"), msg.Headers[0].Value)

	assert.Equal(t, []int64{7}, source.processedIDs)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventUnmarked(t *testing.T) {
	source := &mockSource{
		events: []*repository.OutboxEvent{
			{ID: 1, AggregateID: "ord-1", EventType: "order.placed", Payload: []byte(`{}`)},
		},
	}
	writer := &mockWriter{err: errors.New("broker unavailable")}
	sut := &OutboxPoller{tick: time.Second, repo: source, writer: writer}

	sut.processUnpublishedEvents(context.Background())

	assert.Empty(t, source.processedIDs)
}

func TestProcessUnpublishedEvents_FetchFailureIsQuiet(t *testing.T) {
	source := &mockSource{fetchErr: errors.New("db closed")}
	writer := &mockWriter{}
	sut := &OutboxPoller{tick: time.Second, repo: source, writer: writer}

	sut.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.messages)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	source := &mockSource{}
	writer := &mockWriter{}
	sut := &OutboxPoller{tick: 10 * time.Millisecond, repo: source, writer: writer}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sut.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
