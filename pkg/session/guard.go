package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrStale is returned when a result arrives for a target that is no longer
// the one being edited.
var ErrStale = errors.New("session: stale result")

// Target identifies the resource a session edits. Name is empty while
// creating.
type Target struct {
	Kind      string
	Namespace string
	Name      string
}

func (t Target) String() string {
	if t.Name == "" {
		return fmt.Sprintf("%s/%s", t.Kind, t.Namespace)
	}
	return fmt.Sprintf("%s/%s/%s", t.Kind, t.Namespace, t.Name)
}

// Ticket is issued when loading for a target starts.
type Ticket struct {
	Target Target
	seq    uint64
}

// Guard hands out monotonically increasing tickets. Only the most recently
// issued ticket is current; results carried by older tickets are discarded.
type Guard struct {
	mu      sync.Mutex
	seq     uint64
	current Ticket
}

// Begin issues a ticket for target, superseding every earlier ticket.
func (g *Guard) Begin(target Target) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.current = Ticket{Target: target, seq: g.seq}
	return g.current
}

// Current reports whether t is still the latest ticket.
func (g *Guard) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t.seq != 0 && t == g.current
}

// Check returns ErrStale when t has been superseded.
func (g *Guard) Check(t Ticket) error {
	if !g.Current(t) {
		return fmt.Errorf("%w: %s", ErrStale, t.Target)
	}
	return nil
}
