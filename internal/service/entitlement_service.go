package service

import (
	"context"
	"fmt"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
)

type Entitlements struct {
	UserID       string                         `json:"user_id"`
	BookingHours lifecycle.AggregateEntitlement `json:"booking_hours"`
	Sessions     lifecycle.AggregateEntitlement `json:"sessions"`
}

type EntitlementService interface {
	Entitlements(ctx context.Context, actor lifecycle.Actor, userID string) (*Entitlements, error)
}

type entitlementService struct {
	base
	stores Stores
}

func NewEntitlementService(stores Stores, opts ...Option) EntitlementService {
	return &entitlementService{base: newBase(opts), stores: stores}
}

// Entitlements totals the remaining booking hours and subscription sessions of
// a user. An empty userID means the actor.
func (s *entitlementService) Entitlements(ctx context.Context, actor lifecycle.Actor, userID string) (*Entitlements, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if !actor.CanRead(userID) {
		return nil, ErrForbidden
	}

	bookings, err := s.stores.Bookings.FindByClient(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	subs, err := s.stores.Subscriptions.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	result := &Entitlements{
		UserID:       userID,
		BookingHours: lifecycle.AggregateBookings(bookings),
		Sessions:     lifecycle.AggregateSubscriptions(subs, s.now()),
	}
	logWarnings("EntitlementService", result.BookingHours.Warnings)
	logWarnings("EntitlementService", result.Sessions.Warnings)
	return result, nil
}
