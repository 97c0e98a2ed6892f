package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor lifecycle.Actor, packageID uint, notes string) (*models.Booking, *models.Payment, error)
	GetBooking(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, actor lifecycle.Actor, status *models.BookingStatus) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, actor lifecycle.Actor, id uint, to models.BookingStatus) (*models.Booking, error)
	RecordUsage(ctx context.Context, actor lifecycle.Actor, id uint, hours int) (*models.Booking, error)
	ConfirmPayment(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error)
}

// BookingStatusChange is published on booking.status_changed.
type BookingStatusChange struct {
	Booking models.Booking       `json:"booking"`
	From    models.BookingStatus `json:"from"`
	To      models.BookingStatus `json:"to"`
	ActorID string               `json:"actor_id"`
}

type bookingService struct {
	base
	stores Stores
	ledger *ledger
}

func NewBookingService(stores Stores, opts ...Option) BookingService {
	return &bookingService{
		base:   newBase(opts),
		stores: stores,
		ledger: &ledger{stores: stores},
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor lifecycle.Actor, packageID uint, notes string) (*models.Booking, *models.Payment, error) {
	pkg, err := s.stores.Packages.FindByID(ctx, packageID)
	if err != nil {
		return nil, nil, mapNotFound(err, ErrPackageNotFound)
	}
	offering, err := lifecycle.OfferingFromPackage(*pkg)
	if err != nil {
		return nil, nil, err
	}

	booking, err := lifecycle.NewBooking(actor, offering, notes)
	if err != nil {
		return nil, nil, err
	}
	payment, err := lifecycle.NewPayment(actor, models.PaymentTypeBooking, booking.Amount, "")
	if err != nil {
		return nil, nil, err
	}

	err = s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.stores.Bookings.Create(ctx, tx, &booking); err != nil {
			return err
		}
		payment.Reference = uuid.NewString()
		payment.BookingID = &booking.ID
		return s.stores.Payments.Create(ctx, tx, &payment)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}

	log.Printf("[BookingService] client %s requested %d hours (booking %d)", actor.UserID, booking.HoursPurchased, booking.ID)
	s.publish(KeyBookingCreated, booking)
	return &booking, &payment, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error) {
	booking, err := s.stores.Bookings.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBookingNotFound)
	}
	if !actor.CanRead(booking.ClientID) {
		return nil, ErrForbidden
	}
	logWarning("BookingService", entitlementOf(*booking))
	return booking, nil
}

// ListBookings returns every booking for admins and the actor's own otherwise.
func (s *bookingService) ListBookings(ctx context.Context, actor lifecycle.Actor, status *models.BookingStatus) ([]models.Booking, error) {
	if actor.IsAdmin() {
		return s.stores.Bookings.FindAll(ctx, status)
	}
	return s.stores.Bookings.FindByClient(ctx, actor.UserID, status)
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor lifecycle.Actor, id uint, to models.BookingStatus) (*models.Booking, error) {
	change, err := s.update(ctx, actor, id, func(b models.Booking) (models.Booking, error) {
		return lifecycle.TransitionBooking(b, to, actor)
	})
	if err != nil {
		return nil, err
	}
	s.publish(KeyBookingStatusChanged, change)
	return &change.Booking, nil
}

func (s *bookingService) RecordUsage(ctx context.Context, actor lifecycle.Actor, id uint, hours int) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	change, err := s.update(ctx, actor, id, func(b models.Booking) (models.Booking, error) {
		return lifecycle.RecordUsage(b, hours)
	})
	if err != nil {
		return nil, err
	}
	if change.From != change.To {
		s.publish(KeyBookingStatusChanged, change)
	}
	return &change.Booking, nil
}

// ConfirmPayment settles the booking's open charge for its client or an admin.
func (s *bookingService) ConfirmPayment(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var out lifecycle.PaymentOutcome
	err = s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		payment, err := s.stores.Payments.FindPendingForBooking(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &lifecycle.TransitionError{
				Entity: "payment",
				From:   string(booking.PaymentStatus),
				To:     string(models.PaymentCompleted),
				Reason: "booking has no pending payment",
			}
		}
		if err != nil {
			return err
		}

		out, err = s.ledger.apply(ctx, tx, *payment, models.PaymentCompleted, actor, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BookingService] payment %s for booking %d confirmed by %s", out.Payment.Reference, id, actor.UserID)
	s.publish(KeyBookingPaid, *out.Booking)
	return out.Booking, nil
}

func (s *bookingService) update(ctx context.Context, actor lifecycle.Actor, id uint, fn func(models.Booking) (models.Booking, error)) (BookingStatusChange, error) {
	var change BookingStatusChange
	err := s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		booking, err := s.stores.Bookings.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return mapNotFound(err, ErrBookingNotFound)
		}
		if !actor.CanRead(booking.ClientID) {
			return ErrForbidden
		}

		next, err := fn(*booking)
		if err != nil {
			return err
		}
		if err := s.stores.Bookings.Save(ctx, tx, &next); err != nil {
			return err
		}
		change = BookingStatusChange{Booking: next, From: booking.BookingStatus, To: next.BookingStatus, ActorID: actor.UserID}
		return nil
	})
	return change, err
}

func entitlementOf(b models.Booking) *lifecycle.Entitlement {
	e := lifecycle.BookingEntitlement(b)
	return &e
}
