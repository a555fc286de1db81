package notify

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Event types delivered to subscribers.
const (
	EventConnected = "connected"
	EventUpdated   = "updated"
)

// Event is a notification frame. It carries no payload beyond the book key;
// clients re-read the pages they care about.
type Event struct {
	Type      string `json:"type"`
	BookID    string `json:"book_id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Action is a client frame joining or leaving a book's group.
type Action struct {
	Action string `json:"action"`
	BookID int64  `json:"book_id"`
}

// Client actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

func newEvent(typ, key string) Event {
	msg := fmt.Sprintf("Book %s updated", key)
	if typ == EventConnected {
		msg = fmt.Sprintf("Connected to book %s", key)
	}

	return Event{
		Type:      typ,
		BookID:    key,
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
