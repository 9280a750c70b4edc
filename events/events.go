// Package events carries committed state changes to the live floor feed and the message broker.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yeremiapane/reservation-app/utils"
)

const (
	ReservationCreated       = "reservation.created"
	ReservationUpdated       = "reservation.updated"
	ReservationStatusChanged = "reservation.status_changed"
	ReservationSeated        = "reservation.seated"
	ReservationFinished      = "reservation.finished"
	TableCreated             = "table.created"
)

// Event is a committed state change. Data is the entity after the change.
type Event struct {
	Type       string      `json:"event"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func New(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to the info logger at debug level.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, evt Event) error {
	utils.InfoLogger.WithField("event", evt.Type).Debug("event published")
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists recorded event types in publish order.
func (r *Recorder) Types() []string {
	var types []string
	for _, evt := range r.Events() {
		types = append(types, evt.Type)
	}
	return types
}
