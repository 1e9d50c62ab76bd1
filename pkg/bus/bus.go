// Package bus is the in-process event pipe between the handoff lifecycle and
// the notifier. It carries fire-and-forget events only; nothing on the user
// request path ever blocks on a subscriber.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recruit-assist-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const handoffTopic = "assistant.handoff"

type Bus struct {
	pubSub *gochannel.GoChannel
}

func New() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NopLogger{}),
	}
}

// Publish serializes the event onto the handoff topic. Errors are returned
// for the caller to log; a failed publish never fails the originating
// operation.
func (b *Bus) Publish(event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", event.EventType())
	msg.Metadata.Set("occurred_at", event.Timestamp().Format(time.RFC3339Nano))

	return b.pubSub.Publish(handoffTopic, msg)
}

// Subscribe returns the stream of handoff events. Each message must be Acked
// or Nacked by the consumer.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, handoffTopic)
}

// Decode rebuilds the typed event from a bus message.
func Decode(msg *message.Message) (events.Event, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &data); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get("occurred_at"))
	if err != nil {
		occurredAt = time.Now()
	}

	return events.BaseEvent{
		Type:       msg.Metadata.Get("event_type"),
		Data:       data,
		OccurredAt: occurredAt,
	}, nil
}

// Close shuts the pipe down; pending subscribers drain and exit.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
