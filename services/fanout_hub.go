package services

import (
	"sync"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// subscriberBufferSize bounds the per-connection outbox. A consumer that
// falls this far behind starts losing events and must resynchronize through
// the REST read path; delivery is at-most-once by design.
const subscriberBufferSize = 16

// Subscriber is one live connection's view of the hub: an id, the set of
// courts it follows, and a buffered outbox drained by its transport.
type Subscriber struct {
	ID       uuid.UUID
	Updates  chan models.DisplayUpdate
	courtIDs map[uuid.UUID]struct{}
}

// SubscribedTo reports whether the subscriber follows the court.
func (s *Subscriber) SubscribedTo(courtID uuid.UUID) bool {
	_, ok := s.courtIDs[courtID]
	return ok
}

// FanoutHub is the subscription registry for live display board updates.
// It is an injected object with an explicit lifecycle, created at service
// start; each connection registers on connect and is discarded on
// disconnect. Sends to each subscriber are independent, so one slow
// consumer never delays delivery to the rest.
type FanoutHub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*Subscriber
}

// NewFanoutHub creates an empty hub.
func NewFanoutHub() *FanoutHub {
	return &FanoutHub{subscribers: make(map[uuid.UUID]*Subscriber)}
}

// Register adds a connection with no subscriptions yet. The caller owns
// draining the returned subscriber's Updates channel.
func (h *FanoutHub) Register() *Subscriber {
	subscriber := &Subscriber{
		ID:       uuid.New(),
		Updates:  make(chan models.DisplayUpdate, subscriberBufferSize),
		courtIDs: make(map[uuid.UUID]struct{}),
	}

	h.mu.Lock()
	h.subscribers[subscriber.ID] = subscriber
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"component":     "FanoutHub",
		"subscriber_id": subscriber.ID,
	}).Debug("Registered display board subscriber")

	return subscriber
}

// Subscribe replaces the connection's court set with the given ids.
func (h *FanoutHub) Subscribe(subscriberID uuid.UUID, courtIDs []uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscriber, ok := h.subscribers[subscriberID]
	if !ok {
		return
	}

	subscriber.courtIDs = make(map[uuid.UUID]struct{}, len(courtIDs))
	for _, id := range courtIDs {
		subscriber.courtIDs[id] = struct{}{}
	}

	logrus.WithFields(logrus.Fields{
		"component":     "FanoutHub",
		"subscriber_id": subscriberID,
		"court_count":   len(courtIDs),
	}).Debug("Updated subscriber court set")
}

// Unregister discards a connection's subscription state and closes its
// outbox. No further pushes are attempted after this returns.
func (h *FanoutHub) Unregister(subscriberID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscriber, ok := h.subscribers[subscriberID]
	if !ok {
		return
	}
	delete(h.subscribers, subscriberID)
	close(subscriber.Updates)

	logrus.WithFields(logrus.Fields{
		"component":     "FanoutHub",
		"subscriber_id": subscriberID,
	}).Debug("Unregistered display board subscriber")
}

// PublishBoardUpdate pushes a full court snapshot to every subscriber of
// that court. Events keep production order per subscriber; a full outbox
// drops the event rather than blocking the producer.
func (h *FanoutHub) PublishBoardUpdate(courtID uuid.UUID, courtName string, entries []models.DisplayBoardEntry) {
	update := models.DisplayUpdate{
		Type:      "display-update",
		CourtID:   courtID,
		CourtName: courtName,
		Entries:   entries,
		Timestamp: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, subscriber := range h.subscribers {
		if !subscriber.SubscribedTo(courtID) {
			continue
		}
		select {
		case subscriber.Updates <- update:
			delivered++
		default:
			logrus.WithFields(logrus.Fields{
				"component":     "FanoutHub",
				"subscriber_id": subscriber.ID,
				"court_id":      courtID,
			}).Warn("Subscriber outbox full, dropping display update")
		}
	}

	logrus.WithFields(logrus.Fields{
		"component":  "FanoutHub",
		"court_id":   courtID,
		"court_name": courtName,
		"entries":    len(entries),
		"delivered":  delivered,
	}).Debug("Published display board update")
}

// SubscriberCount returns how many connections are currently registered.
func (h *FanoutHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
