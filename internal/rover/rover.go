// Package rover tracks the rover's logical position.
package rover

import (
	"sync"

	"github.com/specialistvlad/fieldrover/internal/geo"
)

// Publisher receives every location change. *notifier.Notifier satisfies it.
type Publisher interface {
	Publish(n geo.Node)
}

// Rover holds the current location. The only way to move it is SetLocation,
// which publishes the new location in the same critical section, so events
// come out in exactly the order the mutations happened.
type Rover struct {
	mu       sync.Mutex
	location geo.Node
	events   Publisher
}

// New places a rover at start. The starting location is not published.
func New(start geo.Node, events Publisher) *Rover {
	return &Rover{location: start, events: events}
}

// Location returns the current location.
func (r *Rover) Location() geo.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// SetLocation moves the rover and publishes the change. Setting the same
// location twice publishes twice.
func (r *Rover) SetLocation(n geo.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = n
	if r.events != nil {
		r.events.Publish(n)
	}
}
