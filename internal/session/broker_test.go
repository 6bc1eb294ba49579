package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		b := NewBroker(4)
		a, unsubA := b.Subscribe()
		c, unsubC := b.Subscribe()
		defer unsubA()
		defer unsubC()

		b.Publish(Change{Key: KeyToken})

		assert.Equal(t, Change{Key: KeyToken}, <-a)
		assert.Equal(t, Change{Key: KeyToken}, <-c)
		assert.Equal(t, 2, b.Subscribers())
	})

	t.Run("publish never blocks on a full subscriber", func(t *testing.T) {
		b := NewBroker(1)
		ch, unsub := b.Subscribe()
		defer unsub()

		b.Publish(Change{Key: KeyToken})
		b.Publish(Change{Key: KeyUser})

		assert.Equal(t, KeyToken, (<-ch).Key)
		select {
		case c := <-ch:
			t.Fatalf("unexpected change %v", c)
		default:
		}
	})

	t.Run("unsubscribe closes the channel once", func(t *testing.T) {
		b := NewBroker(0)
		ch, unsub := b.Subscribe()
		unsub()
		unsub()

		_, ok := <-ch
		assert.False(t, ok)
		assert.Equal(t, 0, b.Subscribers())
	})

	t.Run("close ends subscriptions", func(t *testing.T) {
		b := NewBroker(0)
		ch, unsub := b.Subscribe()
		b.Close()
		b.Close()
		unsub()

		_, ok := <-ch
		assert.False(t, ok)

		late, _ := b.Subscribe()
		_, ok = <-late
		require.False(t, ok)
	})
}
