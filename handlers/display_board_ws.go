package handlers

import (
	"github.com/courtdesk/courtboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DisplayBoardSocketHandler struct {
	Hub *services.FanoutHub
}

func NewDisplayBoardSocketHandler(hub *services.FanoutHub) *DisplayBoardSocketHandler {
	return &DisplayBoardSocketHandler{Hub: hub}
}

// UpgradeRequired gates the live endpoint to websocket upgrade requests.
func (h *DisplayBoardSocketHandler) UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

type subscribeMessage struct {
	Type     string   `json:"type"`
	CourtIDs []string `json:"courtIds"`
}

// Serve handles one live display board connection: the client subscribes
// to a set of court ids and receives a display-update event with the full
// board snapshot whenever one of those courts is rescraped. Delivery is
// at-most-once; a client that misses events resynchronizes over REST.
func (h *DisplayBoardSocketHandler) Serve(conn *websocket.Conn) {
	subscriber := h.Hub.Register()

	logger := logrus.WithFields(logrus.Fields{
		"component":     "DisplayBoardSocket",
		"subscriber_id": subscriber.ID,
	})
	logger.Info("Display board client connected")

	// Writer drains the subscriber's outbox; it exits when Unregister
	// closes the channel. Sends never touch another subscriber's pace.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range subscriber.Updates {
			if err := conn.WriteJSON(update); err != nil {
				logger.WithField("error", err).Debug("Failed to push display update, dropping connection")
				return
			}
		}
	}()

	for {
		var message subscribeMessage
		if err := conn.ReadJSON(&message); err != nil {
			break
		}
		if message.Type != "subscribe" {
			continue
		}

		courtIDs := make([]uuid.UUID, 0, len(message.CourtIDs))
		for _, raw := range message.CourtIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				logger.WithField("court_id", raw).Debug("Ignoring invalid court id in subscribe message")
				continue
			}
			courtIDs = append(courtIDs, id)
		}
		h.Hub.Subscribe(subscriber.ID, courtIDs)
	}

	h.Hub.Unregister(subscriber.ID)
	<-done
	logger.Info("Display board client disconnected")
}
