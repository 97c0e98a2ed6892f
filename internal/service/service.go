package service

import (
	"errors"
	"log"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPackageNotFound      = errors.New("package not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrForbidden            = errors.New("not allowed for this user")
)

// Routing keys published on the lifecycle exchange.
const (
	KeySubscriptionCreated   = "subscription.created"
	KeySubscriptionActivated = "subscription.activated"
	KeySubscriptionCancelled = "subscription.cancelled"
	KeySubscriptionExpired   = "subscription.expired"
	KeySubscriptionRenewed   = "subscription.renewed"
	KeyBookingCreated        = "booking.created"
	KeyBookingStatusChanged  = "booking.status_changed"
	KeyBookingPaid           = "booking.paid"
	KeyPaymentFailed         = "payment.failed"
	KeyPaymentRefunded       = "payment.refunded"
)

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type base struct {
	publisher EventPublisher
	now       func() time.Time
}

type Option func(*base)

// WithPublisher enables lifecycle events. Without it nothing is published.
func WithPublisher(p EventPublisher) Option {
	return func(b *base) { b.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

func newBase(opts []Option) base {
	b := base{now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) publish(routingKey string, payload any) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(routingKey, payload); err != nil {
		log.Printf("[Publisher] failed to publish %s: %v", routingKey, err)
	}
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func logWarnings(component string, warnings []lifecycle.DataIntegrityWarning) {
	for _, w := range warnings {
		log.Printf("[%s] data integrity warning: %s", component, w)
	}
}

func logWarning(component string, e *lifecycle.Entitlement) {
	if e != nil && e.Warning != nil {
		log.Printf("[%s] data integrity warning: %s", component, *e.Warning)
	}
}

// Stores groups the repositories the lifecycle services share.
type Stores struct {
	Tx            repository.Transactor
	Packages      repository.PackageRepository
	Subscriptions repository.SubscriptionRepository
	Bookings      repository.BookingRepository
	Payments      repository.PaymentRepository
}
