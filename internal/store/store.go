// Package store owns the authoritative in-memory order collection. All
// reads and writes go through OrderStore; state is intentionally
// volatile and resets on process restart.
package store

import (
	"sync"
	"time"

	"fsanano/order-tracker/internal/model"
)

// MutationHook receives the full post-mutation snapshot. The store
// invokes it exactly once per mutating operation, while the write lock
// is still held, so hooks observe snapshots in mutation order. Hooks
// must not call back into the store and must not block.
type MutationHook func(snapshot []model.Order)

type OrderStore struct {
	mu     sync.RWMutex
	orders []model.Order
	nextID int

	onMutation MutationHook
}

func NewOrderStore() *OrderStore {
	return &OrderStore{nextID: 1}
}

// OnMutation registers the hook fired after every Upsert, DeleteOne and
// DeleteAll. Must be called before the store is shared across
// goroutines.
func (s *OrderStore) OnMutation(fn MutationHook) {
	s.onMutation = fn
}

// List returns all current orders in insertion order.
func (s *OrderStore) List() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// ListForUser returns the orders placed by the given user, in insertion
// order. An unknown user yields an empty list, not an error.
func (s *OrderStore) ListForUser(userID int) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Upsert creates or updates an order. If in.ID matches a live order,
// that order's UserID, Item and Quantity are replaced in place;
// otherwise a fresh id is assigned and the order is appended. The
// timestamp is always stamped by the store. Returns the full
// post-mutation snapshot.
func (s *OrderStore) Upsert(in model.Order) []model.Order {
	s.mu.Lock()
	now := time.Now().UTC()

	updated := false
	if in.ID != 0 {
		for i := range s.orders {
			if s.orders[i].ID == in.ID {
				s.orders[i].UserID = in.UserID
				s.orders[i].Item = in.Item
				s.orders[i].Quantity = in.Quantity
				s.orders[i].Timestamp = now
				updated = true
				break
			}
		}
	}
	if !updated {
		in.ID = s.nextID
		s.nextID++
		in.Timestamp = now
		s.orders = append(s.orders, in)
	}

	snap := s.snapshotLocked()
	s.notify(snap)
	s.mu.Unlock()
	return snap
}

// DeleteOne removes the order with the given id. Deleting an id that
// does not exist is a no-op; either way the current snapshot is
// returned and broadcast.
func (s *OrderStore) DeleteOne(id int) []model.Order {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			break
		}
	}
	snap := s.snapshotLocked()
	s.notify(snap)
	s.mu.Unlock()
	return snap
}

// DeleteAll unconditionally clears the collection.
func (s *OrderStore) DeleteAll() []model.Order {
	s.mu.Lock()
	s.orders = nil
	snap := s.snapshotLocked()
	s.notify(snap)
	s.mu.Unlock()
	return snap
}

// snapshotLocked copies the collection so callers and observers never
// alias the store's backing slice. Callers must hold mu.
func (s *OrderStore) snapshotLocked() []model.Order {
	snap := make([]model.Order, len(s.orders))
	copy(snap, s.orders)
	return snap
}

func (s *OrderStore) notify(snap []model.Order) {
	if s.onMutation != nil {
		s.onMutation(snap)
	}
}
