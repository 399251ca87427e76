package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_NotifyReachesOnlyThatUser(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe("alice")
	defer cancelA()
	b, cancelB := h.Subscribe("bob")
	defer cancelB()

	h.Notify("alice")

	select {
	case <-a:
	default:
		t.Fatal("alice was not notified")
	}
	select {
	case <-b:
		t.Fatal("bob should not be notified")
	default:
	}
}

func TestHub_BurstCoalesces(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("u")
	defer cancel()

	for i := 0; i < 5; i++ {
		h.Notify("u")
	}

	<-ch
	select {
	case <-ch:
		t.Fatal("burst should collapse into a single signal")
	default:
	}
}

func TestHub_Cancel(t *testing.T) {
	h := NewHub()
	_, c1 := h.Subscribe("u")
	_, c2 := h.Subscribe("u")
	assert.Equal(t, 2, h.Subscribers("u"))

	c1()
	c1()
	assert.Equal(t, 1, h.Subscribers("u"))
	c2()
	assert.Equal(t, 0, h.Subscribers("u"))

	h.Notify("u")
}
