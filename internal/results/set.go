package results

import (
	"sync"

	"github.com/desertthunder/spotsearch/internal/models"
)

// Ticket identifies one in-flight search.
type Ticket uint64

// Snapshot is a point-in-time copy of a [Set].
type Snapshot struct {
	Kind  models.Kind   `json:"type"`
	Items []models.Item `json:"items"`
}

// Len returns the number of items.
func (s Snapshot) Len() int { return len(s.Items) }

// Set is the current result set. Only the response to the most recently issued ticket may replace it.
type Set struct {
	mu    sync.Mutex
	seq   uint64
	kind  models.Kind
	items []models.Item
}

func NewSet() *Set {
	return &Set{}
}

// Begin issues a new ticket, making every earlier one stale.
func (s *Set) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return Ticket(s.seq)
}

// Latest reports whether t is still the most recent ticket.
func (s *Set) Latest(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(t) == s.seq
}

// Apply replaces the set with items if t is still the latest ticket.
// It returns false and leaves the set untouched for a stale ticket.
func (s *Set) Apply(t Ticket, kind models.Kind, items []models.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(t) != s.seq {
		return false
	}
	s.kind = kind
	s.items = append([]models.Item(nil), items...)
	return true
}

func (s *Set) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Kind: s.kind, Items: append([]models.Item(nil), s.items...)}
}

// Reset empties the set. Outstanding tickets stay valid.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = ""
	s.items = nil
}
