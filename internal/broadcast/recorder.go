package broadcast

import (
	"context"
	"sync"
)

// Recorded — одно записанное событие.
type Recorded struct {
	Room    string
	Event   Event
	Payload interface{}
}

// Recorder — реализация Broadcaster для тестов: запоминает события,
// при ненулевом Err имитирует отказ транспорта.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded

	Err error
}

func (r *Recorder) Publish(_ context.Context, roomID string, event Event, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Recorded{Room: roomID, Event: event, Payload: payload})
	return nil
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}
