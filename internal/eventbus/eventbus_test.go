package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type pingEvent struct{ N int }

type otherEvent struct{}

func TestPublishSubscribe(t *testing.T) {
	Use(New())
	defer Use(nil)

	var got []pingEvent
	unsubscribe := Subscribe(func(ctx context.Context, e pingEvent) {
		got = append(got, e)
	})

	Publish(context.Background(), pingEvent{N: 1})
	Publish(context.Background(), otherEvent{})
	Publish(context.Background(), pingEvent{N: 2})

	require.Equal(t, []pingEvent{{N: 1}, {N: 2}}, got)

	unsubscribe()
	Publish(context.Background(), pingEvent{N: 3})
	require.Len(t, got, 2)
}

func TestMultipleSubscribers(t *testing.T) {
	Use(New())
	defer Use(nil)

	var a, b int
	unsubA := Subscribe(func(ctx context.Context, e pingEvent) { a++ })
	defer unsubA()
	unsubB := Subscribe(func(ctx context.Context, e pingEvent) { b++ })

	Publish(context.Background(), pingEvent{})
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)

	// Unsubscribing one handler leaves the other in place.
	unsubB()
	Publish(context.Background(), pingEvent{})
	require.Equal(t, 2, a)
	require.Equal(t, 1, b)
}

func TestNoGlobalBus(t *testing.T) {
	Use(nil)

	unsubscribe := Subscribe(func(ctx context.Context, e pingEvent) {
		t.Fatal("handler must not run without a bus")
	})
	defer unsubscribe()

	Publish(context.Background(), pingEvent{})
}
