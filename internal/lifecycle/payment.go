package lifecycle

import (
	"github.com/Eursukkul/coaching-service/internal/models"
)

// PaymentInput is the payment plus the records it settles. Inputs are copied;
// TransitionPayment never mutates them.
type PaymentInput struct {
	Payment      models.Payment
	Subscription *models.Subscription
	Booking      *models.Booking
}

// PaymentOutcome holds the new state of every record the transition touched.
// Refund is set when a refund record has to be created.
type PaymentOutcome struct {
	Payment      models.Payment
	Subscription *models.Subscription
	Booking      *models.Booking
	Refund       *models.Payment
}

// NewPayment builds the pending payment for a purchase.
func NewPayment(actor Actor, kind models.PaymentType, amount float64, method string) (models.Payment, error) {
	if actor.UserID == "" {
		return models.Payment{}, invalid("user_id", "is required")
	}
	if kind != models.PaymentTypeBooking && kind != models.PaymentTypeSubscription {
		return models.Payment{}, invalid("type", "must be booking or subscription")
	}
	if amount < 0 {
		return models.Payment{}, invalid("amount", "must not be negative")
	}
	if method == "" {
		method = "card"
	}
	return models.Payment{
		UserID:        actor.UserID,
		Type:          kind,
		Amount:        amount,
		Status:        models.PaymentPending,
		PaymentMethod: method,
	}, nil
}

// TransitionPayment applies the payment state machine:
//
//	pending   -> completed  owner (simulated confirmation), admin, provider
//	pending   -> failed     admin, provider
//	completed -> refunded   admin
func TransitionPayment(in PaymentInput, to models.PaymentStatus, actor Actor) (PaymentOutcome, error) {
	p := in.Payment
	if to == models.PaymentPaid {
		to = models.PaymentCompleted
	}
	reject := func(reason string) (PaymentOutcome, error) {
		return PaymentOutcome{}, &TransitionError{Entity: "payment", From: string(p.Status), To: string(to), Reason: reason}
	}

	if p.Type == models.PaymentTypeRefund {
		return reject("refund records are final")
	}
	if in.Subscription != nil && (p.SubscriptionID == nil || *p.SubscriptionID != in.Subscription.ID) {
		return PaymentOutcome{}, invalid("subscription_id", "payment does not belong to this subscription")
	}
	if in.Booking != nil && (p.BookingID == nil || *p.BookingID != in.Booking.ID) {
		return PaymentOutcome{}, invalid("booking_id", "payment does not belong to this booking")
	}

	out := PaymentOutcome{}
	if in.Subscription != nil {
		sub := *in.Subscription
		out.Subscription = &sub
	}
	if in.Booking != nil {
		b := *in.Booking
		out.Booking = &b
	}

	switch {
	case p.Status == models.PaymentPending && to == models.PaymentCompleted:
		if !actor.IsAdmin() && !actor.IsSystem() && !actor.Owns(p.UserID) {
			return reject("only the payer, an administrator or the provider can confirm")
		}
		if out.Subscription != nil {
			if out.Subscription.Status == models.SubscriptionCancelled {
				return reject("subscription is cancelled")
			}
			out.Subscription.PaymentStatus = models.PaymentPaid
			out.Subscription.Status = models.SubscriptionActive
			out.Subscription.AmountPaid = p.Amount
		}
		if out.Booking != nil {
			if out.Booking.BookingStatus == models.BookingCancelled {
				return reject("booking is cancelled")
			}
			out.Booking.PaymentStatus = models.PaymentCompleted
		}

	case p.Status == models.PaymentPending && to == models.PaymentFailed:
		if !actor.IsAdmin() && !actor.IsSystem() {
			return reject("only the provider or an administrator can fail a payment")
		}
		if out.Subscription != nil {
			out.Subscription.PaymentStatus = models.PaymentFailed
		}
		if out.Booking != nil {
			out.Booking.PaymentStatus = models.PaymentFailed
		}

	case p.Status == models.PaymentCompleted && to == models.PaymentRefunded:
		if !actor.IsAdmin() {
			return reject("refunds are an administrator action")
		}
		if out.Subscription != nil {
			out.Subscription.Status = models.SubscriptionCancelled
			out.Subscription.PaymentStatus = models.PaymentRefunded
		}
		if out.Booking != nil {
			out.Booking.PaymentStatus = models.PaymentRefunded
			if out.Booking.BookingStatus == models.BookingPending || out.Booking.BookingStatus == models.BookingConfirmed {
				out.Booking.BookingStatus = models.BookingCancelled
			}
		}
		originalID := p.ID
		out.Refund = &models.Payment{
			UserID:            p.UserID,
			Type:              models.PaymentTypeRefund,
			Amount:            p.Amount,
			Status:            models.PaymentCompleted,
			PaymentMethod:     p.PaymentMethod,
			BookingID:         p.BookingID,
			SubscriptionID:    p.SubscriptionID,
			OriginalPaymentID: &originalID,
			RecordedBy:        actor.UserID,
		}

	default:
		return reject("")
	}

	p.Status = to
	if actor.IsAdmin() {
		p.RecordedBy = actor.UserID
		if to == models.PaymentCompleted {
			p.PaymentMethod = "manual"
		}
	}
	out.Payment = p
	return out, nil
}
