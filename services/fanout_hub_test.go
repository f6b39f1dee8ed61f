package services

import (
	"fmt"
	"testing"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/google/uuid"
)

func sampleEntries(n int) []models.DisplayBoardEntry {
	entries := make([]models.DisplayBoardEntry, n)
	for i := range entries {
		item := fmt.Sprintf("%d", i+1)
		entries[i] = models.DisplayBoardEntry{
			CourtNumber: fmt.Sprintf("%d", i+1),
			ItemNumber:  &item,
			Status:      models.EntryStatusInProgress,
		}
	}
	return entries
}

func TestHubDeliversOnlyToSubscribedCourts(t *testing.T) {
	hub := NewFanoutHub()
	courtA := uuid.New()
	courtB := uuid.New()

	subscriber := hub.Register()
	hub.Subscribe(subscriber.ID, []uuid.UUID{courtA})

	hub.PublishBoardUpdate(courtA, "Court A", sampleEntries(2))
	hub.PublishBoardUpdate(courtB, "Court B", sampleEntries(1))

	select {
	case update := <-subscriber.Updates:
		if update.CourtID != courtA {
			t.Fatalf("received update for wrong court: %s", update.CourtName)
		}
		if update.Type != "display-update" {
			t.Errorf("unexpected event type %q", update.Type)
		}
		if len(update.Entries) != 2 {
			t.Errorf("expected full snapshot of 2 entries, got %d", len(update.Entries))
		}
	default:
		t.Fatal("expected an update for the subscribed court")
	}

	select {
	case update := <-subscriber.Updates:
		t.Fatalf("unexpected second update for court %s", update.CourtName)
	default:
	}
}

func TestHubSubscribeReplacesCourtSet(t *testing.T) {
	hub := NewFanoutHub()
	courtA := uuid.New()
	courtB := uuid.New()

	subscriber := hub.Register()
	hub.Subscribe(subscriber.ID, []uuid.UUID{courtA})
	hub.Subscribe(subscriber.ID, []uuid.UUID{courtB})

	hub.PublishBoardUpdate(courtA, "Court A", sampleEntries(1))
	hub.PublishBoardUpdate(courtB, "Court B", sampleEntries(1))

	update := <-subscriber.Updates
	if update.CourtID != courtB {
		t.Fatalf("resubscribing must drop the old court set, got update for %s", update.CourtName)
	}
	select {
	case <-subscriber.Updates:
		t.Fatal("old subscription still receiving after replacement")
	default:
	}
}

func TestHubUnregisterClosesOutbox(t *testing.T) {
	hub := NewFanoutHub()
	subscriber := hub.Register()

	if hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	hub.Unregister(subscriber.ID)

	if hub.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after unregister, got %d", hub.SubscriberCount())
	}
	if _, open := <-subscriber.Updates; open {
		t.Error("unregister must close the subscriber's channel")
	}

	// idempotent
	hub.Unregister(subscriber.ID)
}

func TestHubFullOutboxDropsInsteadOfBlocking(t *testing.T) {
	hub := NewFanoutHub()
	courtA := uuid.New()

	subscriber := hub.Register()
	hub.Subscribe(subscriber.ID, []uuid.UUID{courtA})

	// Nothing drains the outbox; publishes beyond the buffer must drop,
	// not deadlock the producer.
	for i := 0; i < subscriberBufferSize+5; i++ {
		hub.PublishBoardUpdate(courtA, "Court A", sampleEntries(1))
	}

	received := 0
	for {
		select {
		case <-subscriber.Updates:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBufferSize {
		t.Errorf("expected exactly %d buffered updates, got %d", subscriberBufferSize, received)
	}
}

func TestHubPreservesPerCourtOrder(t *testing.T) {
	hub := NewFanoutHub()
	courtA := uuid.New()

	subscriber := hub.Register()
	hub.Subscribe(subscriber.ID, []uuid.UUID{courtA})

	for i := 1; i <= 5; i++ {
		hub.PublishBoardUpdate(courtA, "Court A", sampleEntries(i))
	}

	for i := 1; i <= 5; i++ {
		update := <-subscriber.Updates
		if len(update.Entries) != i {
			t.Fatalf("updates out of order: expected snapshot of %d entries, got %d", i, len(update.Entries))
		}
	}
}

func TestHubSlowSubscriberDoesNotStarveOthers(t *testing.T) {
	hub := NewFanoutHub()
	courtA := uuid.New()

	slow := hub.Register()
	hub.Subscribe(slow.ID, []uuid.UUID{courtA})
	healthy := hub.Register()
	hub.Subscribe(healthy.ID, []uuid.UUID{courtA})

	// Saturate the slow subscriber's outbox first.
	for i := 0; i < subscriberBufferSize; i++ {
		hub.PublishBoardUpdate(courtA, "Court A", sampleEntries(1))
		<-healthy.Updates
	}

	hub.PublishBoardUpdate(courtA, "Court A", sampleEntries(3))

	select {
	case update := <-healthy.Updates:
		if len(update.Entries) != 3 {
			t.Errorf("healthy subscriber got a stale snapshot")
		}
	default:
		t.Fatal("healthy subscriber must still receive while a peer is saturated")
	}
}
