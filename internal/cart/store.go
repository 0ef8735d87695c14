package cart

import (
	"sync"
)

// Listener is notified with the new state after every dispatch.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store owns one cart. All mutations go through Dispatch; readers get
// snapshots that later mutations do not touch.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    int

	// notifyMu orders listener calls without holding mu.
	notifyMu sync.Mutex
}

// NewStore returns a store holding items (usually none).
func NewStore(items ...Item) *Store {
	return &Store{state: Reduce(State{}, Restore(items))}
}

// Dispatch applies a and returns the resulting state. Listeners run after
// the state lock is released, one dispatch at a time, and always see the
// latest state; they must not dispatch to the same store.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	s.mu.Unlock()

	s.notify()
	return next
}

// Take removes up to the ordered quantity of each line in ordered and
// returns what was actually removed. Lines added or raised after ordered
// was captured are kept.
func (s *Store) Take(ordered []Item) []Item {
	s.mu.Lock()
	var taken []Item
	for _, o := range ordered {
		cur, ok := s.state.Find(o.Key)
		if !ok || o.Quantity < 1 {
			continue
		}
		cur.Quantity = min(cur.Quantity, o.Quantity)
		taken = append(taken, cur)
	}
	if len(taken) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.state = Reduce(s.state, Take(taken))
	s.mu.Unlock()

	s.notify()
	return taken
}

func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	state := s.state
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(state)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) AddItem(item Item) State { return s.Dispatch(Add(item)) }

func (s *Store) RemoveItem(key string) State { return s.Dispatch(Remove(key)) }

func (s *Store) UpdateQuantity(key string, quantity int) State {
	return s.Dispatch(UpdateQuantity(key, quantity))
}

func (s *Store) Clear() State { return s.Dispatch(Clear()) }
