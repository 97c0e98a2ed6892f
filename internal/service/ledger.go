package service

import (
	"context"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ledger applies a payment transition inside a transaction and persists every
// record it touches. Locks are taken payment first, then the owner's
// subscriptions of the category in id order, then the booking.
type ledger struct {
	stores Stores
}

func (l *ledger) apply(ctx context.Context, tx *gorm.DB, payment models.Payment, to models.PaymentStatus, actor lifecycle.Actor, now time.Time) (lifecycle.PaymentOutcome, error) {
	in := lifecycle.PaymentInput{Payment: payment}

	if payment.SubscriptionID != nil {
		sub, others, err := l.lockSubscription(ctx, tx, *payment.SubscriptionID)
		if err != nil {
			return lifecycle.PaymentOutcome{}, err
		}
		// Two pending purchases in one category must not both become active.
		if to.IsSettled() && sub.Status != models.SubscriptionActive {
			if err := lifecycle.CheckEligibility(sub.Category, others, now); err != nil {
				return lifecycle.PaymentOutcome{}, err
			}
		}
		in.Subscription = sub
	}

	if payment.BookingID != nil {
		booking, err := l.stores.Bookings.FindByIDForUpdate(ctx, tx, *payment.BookingID)
		if err != nil {
			return lifecycle.PaymentOutcome{}, mapNotFound(err, ErrBookingNotFound)
		}
		in.Booking = booking
	}

	out, err := lifecycle.TransitionPayment(in, to, actor)
	if err != nil {
		return lifecycle.PaymentOutcome{}, err
	}

	if err := l.stores.Payments.Save(ctx, tx, &out.Payment); err != nil {
		return lifecycle.PaymentOutcome{}, err
	}
	if out.Subscription != nil {
		if err := l.stores.Subscriptions.Save(ctx, tx, out.Subscription); err != nil {
			return lifecycle.PaymentOutcome{}, err
		}
	}
	if out.Booking != nil {
		if err := l.stores.Bookings.Save(ctx, tx, out.Booking); err != nil {
			return lifecycle.PaymentOutcome{}, err
		}
	}
	if out.Refund != nil {
		out.Refund.Reference = uuid.NewString()
		if err := l.stores.Payments.Create(ctx, tx, out.Refund); err != nil {
			return lifecycle.PaymentOutcome{}, err
		}
	}
	return out, nil
}

// lockSubscription locks every subscription the owner holds in the category
// and returns the requested one plus the rest.
func (l *ledger) lockSubscription(ctx context.Context, tx *gorm.DB, id uint) (*models.Subscription, []models.Subscription, error) {
	peek, err := l.stores.Subscriptions.FindByID(ctx, id)
	if err != nil {
		return nil, nil, mapNotFound(err, ErrSubscriptionNotFound)
	}

	locked, err := l.stores.Subscriptions.LockByUserAndCategory(ctx, tx, peek.UserID, peek.Category)
	if err != nil {
		return nil, nil, err
	}

	var (
		target *models.Subscription
		others []models.Subscription
	)
	for i := range locked {
		if locked[i].ID == id {
			sub := locked[i]
			target = &sub
			continue
		}
		others = append(others, locked[i])
	}
	if target == nil {
		return nil, nil, ErrSubscriptionNotFound
	}
	return target, others, nil
}
