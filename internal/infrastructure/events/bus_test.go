package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runBus(t *testing.T, bus *Bus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Log("router did not stop in time")
		}
	})

	select {
	case <-bus.Running():
	case <-time.After(2 * time.Second):
		t.Fatal("router did not start in time")
	}
}

func TestNotifierPublishesConversationsChanged(t *testing.T) {
	bus, err := NewBus(zerolog.Nop())
	require.NoError(t, err)

	received := make(chan ConversationsChangedEvent, 1)
	bus.Subscribe("test_changed", TopicConversationsChanged, func(msg *message.Message) error {
		var evt ConversationsChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		received <- evt
		return nil
	})
	runBus(t, bus)

	NewNotifier(bus).ConversationsChanged("conv_abc")

	select {
	case evt := <-received:
		assert.Equal(t, "conv_abc", evt.ConversationID)
		assert.False(t, evt.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestNotifierPublishesSpaceUpdated(t *testing.T) {
	bus, err := NewBus(zerolog.Nop())
	require.NoError(t, err)

	received := make(chan SpaceUpdatedEvent, 1)
	bus.Subscribe("test_space", TopicConversationSpaceUpdated, func(msg *message.Message) error {
		var evt SpaceUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		received <- evt
		return nil
	})
	runBus(t, bus)

	NewNotifier(bus).ConversationSpaceUpdated("conv_abc", "space_xyz")

	select {
	case evt := <-received:
		assert.Equal(t, "conv_abc", evt.ConversationID)
		assert.Equal(t, "space_xyz", evt.SpaceID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus, err := NewBus(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewNotifier(bus).ConversationsChanged("conv_lonely")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fire-and-forget publish blocked")
	}
}
