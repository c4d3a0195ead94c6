package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	t.Parallel()

	var p Publisher = Noop{}
	require.NoError(t, p.PublishEvent(context.Background(), TopicOrder, "1", OrderCreated{Type: "order_created"}))
	require.NoError(t, p.Close())
}

func TestProducer_MarshalError(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"127.0.0.1:1"})
	defer p.Close()

	err := p.PublishEvent(context.Background(), TopicCart, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestProducer_UnreachableBrokerRespectsContext(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"127.0.0.1:1"})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := p.PublishEvent(ctx, TopicCart, "k", CartEvent{Type: "cart_item_added"})
	assert.Error(t, err)
}

func TestNewProducer_FlushesEachMessage(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"127.0.0.1:1"})
	defer p.Close()

	assert.Equal(t, 1, p.writer.BatchSize)
	assert.Equal(t, 10*time.Millisecond, p.writer.BatchTimeout)
	assert.Less(t, p.writer.BatchTimeout, writeTimeout)
	assert.False(t, p.writer.Async)
}
