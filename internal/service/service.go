package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/logging"
)

// publish is best effort: the state it announces is already committed.
func publish(ctx context.Context, pub events.Publisher, topic string, key uint, event any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, topic, strconv.FormatUint(uint64(key), 10), event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "error", err)
	}
}

func nowFunc(f func() time.Time) time.Time {
	if f != nil {
		return f()
	}
	return time.Now()
}
