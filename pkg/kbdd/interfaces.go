package kbdd

import (
	"context"
	"time"
)

// LivenessChecker reports whether the kbdd daemon is running.
type LivenessChecker interface {
	IsRunning(ctx context.Context) (bool, error)
}

// NotificationSource delivers bus signals emitted by kbdd. The returned
// channel is closed when the subscription ends.
type NotificationSource interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// ColourSetter is the colour slot of the hosting widget.
type ColourSetter interface {
	SetColour(colour string)
}

// ChangeObserver is told about every accepted layout change.
type ChangeObserver interface {
	LayoutChanged(change LayoutChange) error
}

// Event is a single signal delivered by a NotificationSource.
type Event struct {
	Name string
	Body []any
}

type LayoutChange struct {
	At     time.Time `json:"at"`
	Index  int       `json:"index"`
	Layout string    `json:"layout"`
}

// Journal persists accepted layout changes.
type Journal interface {
	ChangeObserver
	LayoutCounts() (map[string]int, error)
	Close() error
}
