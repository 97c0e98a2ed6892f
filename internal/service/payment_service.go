package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type PaymentStats struct {
	BookingRevenue      float64                        `json:"booking_revenue"`
	SubscriptionRevenue float64                        `json:"subscription_revenue"`
	RefundTotal         float64                        `json:"refund_total"`
	NetRevenue          float64                        `json:"net_revenue"`
	MonthRevenue        float64                        `json:"month_revenue"`
	TodayRevenue        float64                        `json:"today_revenue"`
	CountByStatus       map[models.PaymentStatus]int64 `json:"count_by_status"`
}

type PaymentService interface {
	ListPayments(ctx context.Context, actor lifecycle.Actor) ([]models.Payment, error)
	Stats(ctx context.Context, actor lifecycle.Actor) (*PaymentStats, error)
	RecordManual(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error)
	Refund(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error)
	ApplyProviderResult(ctx context.Context, reference string, succeeded bool) (*lifecycle.PaymentOutcome, error)
}

type paymentService struct {
	base
	stores Stores
	ledger *ledger
}

func NewPaymentService(stores Stores, opts ...Option) PaymentService {
	return &paymentService{
		base:   newBase(opts),
		stores: stores,
		ledger: &ledger{stores: stores},
	}
}

func (s *paymentService) ListPayments(ctx context.Context, actor lifecycle.Actor) ([]models.Payment, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.stores.Payments.FindAll(ctx)
}

// Stats reports settled revenue by type, net of refunds for the current month and day.
func (s *paymentService) Stats(ctx context.Context, actor lifecycle.Actor) (*PaymentStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	stats := &PaymentStats{}
	var err error
	if stats.BookingRevenue, err = s.stores.Payments.SumCompleted(ctx, models.PaymentTypeBooking, nil); err != nil {
		return nil, fmt.Errorf("sum booking revenue: %w", err)
	}
	if stats.SubscriptionRevenue, err = s.stores.Payments.SumCompleted(ctx, models.PaymentTypeSubscription, nil); err != nil {
		return nil, fmt.Errorf("sum subscription revenue: %w", err)
	}
	if stats.RefundTotal, err = s.stores.Payments.SumCompleted(ctx, models.PaymentTypeRefund, nil); err != nil {
		return nil, fmt.Errorf("sum refunds: %w", err)
	}
	stats.NetRevenue = stats.BookingRevenue + stats.SubscriptionRevenue - stats.RefundTotal

	cal := now.With(s.now())
	if stats.MonthRevenue, err = s.netSince(ctx, cal.BeginningOfMonth()); err != nil {
		return nil, err
	}
	if stats.TodayRevenue, err = s.netSince(ctx, cal.BeginningOfDay()); err != nil {
		return nil, err
	}

	if stats.CountByStatus, err = s.stores.Payments.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	return stats, nil
}

func (s *paymentService) netSince(ctx context.Context, since time.Time) (float64, error) {
	var net float64
	for _, kind := range []models.PaymentType{models.PaymentTypeBooking, models.PaymentTypeSubscription, models.PaymentTypeRefund} {
		total, err := s.stores.Payments.SumCompleted(ctx, kind, &since)
		if err != nil {
			return 0, fmt.Errorf("sum %s since %s: %w", kind, since.Format(time.RFC3339), err)
		}
		if kind == models.PaymentTypeRefund {
			total = -total
		}
		net += total
	}
	return net, nil
}

// RecordManual marks a pending payment as received outside the app.
func (s *paymentService) RecordManual(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	out, err := s.transition(ctx, id, models.PaymentCompleted, actor)
	if err != nil {
		return nil, err
	}
	if out.Subscription != nil {
		s.publish(KeySubscriptionActivated, *out.Subscription)
	}
	return out, nil
}

func (s *paymentService) Refund(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	out, err := s.transition(ctx, id, models.PaymentRefunded, actor)
	if err != nil {
		return nil, err
	}
	log.Printf("[PaymentService] payment %d refunded by %s", id, actor.UserID)
	s.publish(KeyPaymentRefunded, out)
	return out, nil
}

// ApplyProviderResult settles or fails the payment with the given reference
// on behalf of the payment provider.
func (s *paymentService) ApplyProviderResult(ctx context.Context, reference string, succeeded bool) (*lifecycle.PaymentOutcome, error) {
	to := models.PaymentFailed
	if succeeded {
		to = models.PaymentCompleted
	}

	var out lifecycle.PaymentOutcome
	err := s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		payment, err := s.stores.Payments.FindByReferenceForUpdate(ctx, tx, reference)
		if err != nil {
			return mapNotFound(err, ErrPaymentNotFound)
		}
		out, err = s.ledger.apply(ctx, tx, *payment, to, lifecycle.SystemActor, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case !succeeded:
		s.publish(KeyPaymentFailed, out.Payment)
	case out.Subscription != nil:
		s.publish(KeySubscriptionActivated, *out.Subscription)
	}
	return &out, nil
}

func (s *paymentService) transition(ctx context.Context, id uint, to models.PaymentStatus, actor lifecycle.Actor) (*lifecycle.PaymentOutcome, error) {
	var out lifecycle.PaymentOutcome
	err := s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		payment, err := s.stores.Payments.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return mapNotFound(err, ErrPaymentNotFound)
		}
		out, err = s.ledger.apply(ctx, tx, *payment, to, actor, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
