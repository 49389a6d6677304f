package identity_test

import (
	"sync"
	"testing"

	"github.com/homenest/homenest-bff-go/internal/infra/identity"
	"github.com/homenest/homenest-bff-go/internal/port"
)

func TestStream_DeliversToSubscriber(t *testing.T) {
	s := identity.NewStream()
	defer s.Close()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Publish(port.IdentityEvent{SessionID: "s1"})

	ev := <-events
	if ev.SessionID != "s1" {
		t.Errorf("expected event for s1, got %q", ev.SessionID)
	}
}

func TestStream_UnsubscribeStopsDelivery(t *testing.T) {
	s := identity.NewStream()
	defer s.Close()

	events, unsubscribe := s.Subscribe()
	unsubscribe()

	s.Publish(port.IdentityEvent{SessionID: "s1"})

	if _, ok := <-events; ok {
		t.Error("expected the channel closed after unsubscribe")
	}
}

func TestStream_PublishDuringUnsubscribe(t *testing.T) {
	s := identity.NewStream()
	defer s.Close()

	// Churn subscribers while publishing; a send into a channel closed by
	// a concurrent unsubscribe would panic the publisher.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		_, unsubscribe := s.Subscribe()
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsubscribe()
		}()
		go func() {
			defer wg.Done()
			// Fewer events than the subscriber buffer, so sends never block.
			for j := 0; j < 4; j++ {
				s.Publish(port.IdentityEvent{SessionID: "s1"})
			}
		}()
	}
	wg.Wait()
}

func TestStream_PublishAfterClose(t *testing.T) {
	s := identity.NewStream()
	events, _ := s.Subscribe()
	s.Close()

	s.Publish(port.IdentityEvent{SessionID: "s1"})

	if _, ok := <-events; ok {
		t.Error("expected the channel closed after Close")
	}
}
