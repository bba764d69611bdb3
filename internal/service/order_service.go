package service

import (
	"fmt"

	"fsanano/order-tracker/internal/catalog"
	"fsanano/order-tracker/internal/model"
	"fsanano/order-tracker/internal/store"
)

// ValidationError rejects a malformed order submission before it
// reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OrderService is the surface the HTTP layer talks to: delegating reads
// over the catalog and store, plus validated order mutations.
type OrderService struct {
	store   *store.OrderStore
	catalog *catalog.Catalog
}

func NewOrderService(st *store.OrderStore, cat *catalog.Catalog) *OrderService {
	return &OrderService{store: st, catalog: cat}
}

func (s *OrderService) Users() []model.User {
	return s.catalog.Users()
}

func (s *OrderService) Items() []model.Item {
	return s.catalog.Items()
}

func (s *OrderService) AllOrders() []model.Order {
	return s.store.List()
}

func (s *OrderService) OrdersForUser(userID int) []model.Order {
	return s.store.ListForUser(userID)
}

// SubmitOrder validates the submission and applies it to the store. A
// zero ID creates a new order; an ID matching a live order replaces its
// mutable fields. Returns the full post-mutation snapshot.
func (s *OrderService) SubmitOrder(in model.Order) ([]model.Order, error) {
	if in.UserID == 0 {
		return nil, &ValidationError{Field: "userId", Reason: "required"}
	}
	if !s.catalog.HasUser(in.UserID) {
		return nil, &ValidationError{Field: "userId", Reason: fmt.Sprintf("no such user %d", in.UserID)}
	}
	if in.Item == "" {
		return nil, &ValidationError{Field: "item", Reason: "required"}
	}
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	return s.store.Upsert(in), nil
}

// DeleteOrder removes one order; a missing id is a no-op that still
// returns (and broadcasts) the current snapshot.
func (s *OrderService) DeleteOrder(id int) []model.Order {
	return s.store.DeleteOne(id)
}

func (s *OrderService) DeleteAllOrders() []model.Order {
	return s.store.DeleteAll()
}
