package service

import "github.com/ikkim/messreview-backend/internal/websocket"

// EventPublisher fans menu change notifications out to live clients.
type EventPublisher interface {
	Publish(event websocket.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(websocket.Event) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
