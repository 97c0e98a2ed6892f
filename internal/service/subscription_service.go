package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionDetail is a stored subscription with the state derived from it at read time.
type SubscriptionDetail struct {
	models.Subscription
	View lifecycle.SubscriptionView
}

type PurchaseResult struct {
	Subscription models.Subscription
	Payment      models.Payment
}

type SubscriptionService interface {
	Purchase(ctx context.Context, actor lifecycle.Actor, packageID uint) (*PurchaseResult, error)
	ConfirmPayment(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	Cancel(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	RecordSession(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	Renew(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	ExpireDue(ctx context.Context, now time.Time) (int, error)
	List(ctx context.Context, actor lifecycle.Actor, userID string) ([]SubscriptionDetail, error)
	Get(ctx context.Context, actor lifecycle.Actor, id uint) (*SubscriptionDetail, error)
}

type subscriptionService struct {
	base
	stores Stores
	ledger *ledger
}

func NewSubscriptionService(stores Stores, opts ...Option) SubscriptionService {
	return &subscriptionService{
		base:   newBase(opts),
		stores: stores,
		ledger: &ledger{stores: stores},
	}
}

func (s *subscriptionService) Purchase(ctx context.Context, actor lifecycle.Actor, packageID uint) (*PurchaseResult, error) {
	pkg, err := s.stores.Packages.FindByID(ctx, packageID)
	if err != nil {
		return nil, mapNotFound(err, ErrPackageNotFound)
	}
	offering, err := lifecycle.OfferingFromPackage(*pkg)
	if err != nil {
		return nil, err
	}

	var result PurchaseResult
	now := s.now()

	err = s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		// Lock the user's subscriptions of this category to serialize purchases
		existing, err := s.stores.Subscriptions.LockByUserAndCategory(ctx, tx, actor.UserID, offering.Category())
		if err != nil {
			return err
		}
		if err := lifecycle.CheckEligibility(offering.Category(), existing, now); err != nil {
			return err
		}

		sub, err := lifecycle.NewSubscription(actor, offering, now)
		if err != nil {
			return err
		}
		if err := s.stores.Subscriptions.Create(ctx, tx, &sub); err != nil {
			return err
		}

		payment, err := lifecycle.NewPayment(actor, models.PaymentTypeSubscription, sub.AmountDue, "")
		if err != nil {
			return err
		}
		payment.Reference = uuid.NewString()
		payment.SubscriptionID = &sub.ID
		if err := s.stores.Payments.Create(ctx, tx, &payment); err != nil {
			return err
		}

		result = PurchaseResult{Subscription: sub, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SubscriptionService] user %s purchased package %d as subscription %d", actor.UserID, packageID, result.Subscription.ID)
	s.publish(KeySubscriptionCreated, result.Subscription)
	return &result, nil
}

// ConfirmPayment settles the subscription's pending payment. Eligibility is
// checked again under lock because another purchase may have been paid since.
func (s *subscriptionService) ConfirmPayment(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var result models.Subscription
	err = s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		payment, err := s.stores.Payments.FindPendingForSubscription(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &lifecycle.TransitionError{
				Entity: "payment",
				From:   string(sub.PaymentStatus),
				To:     string(models.PaymentPaid),
				Reason: "subscription has no pending payment",
			}
		}
		if err != nil {
			return err
		}

		out, err := s.ledger.apply(ctx, tx, *payment, models.PaymentPaid, actor, s.now())
		if err != nil {
			return err
		}
		result = *out.Subscription
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(KeySubscriptionActivated, result)
	return &result, nil
}

// Cancel closes the subscription. A pending charge it still carries is failed
// in the same transaction so it does not linger in the ledger.
func (s *subscriptionService) Cancel(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}

	var (
		result models.Subscription
		closed *models.Payment
	)
	err := s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		payment, err := s.stores.Payments.FindPendingForSubscription(ctx, tx, id)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		sub, _, err := s.ledger.lockSubscription(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := lifecycle.CancelSubscription(*sub, actor)
		if err != nil {
			return err
		}
		if err := s.stores.Subscriptions.Save(ctx, tx, &next); err != nil {
			return err
		}
		result = next

		if payment == nil {
			return nil
		}
		out, err := s.ledger.apply(ctx, tx, *payment, models.PaymentFailed, lifecycle.SystemActor, s.now())
		if err != nil {
			return err
		}
		result = *out.Subscription
		closed = &out.Payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(KeySubscriptionCancelled, result)
	if closed != nil {
		log.Printf("[SubscriptionService] failed open payment %s of cancelled subscription %d", closed.Reference, id)
		s.publish(KeyPaymentFailed, *closed)
	}
	return &result, nil
}

func (s *subscriptionService) RecordSession(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	now := s.now()
	result, err := s.update(ctx, id, func(sub models.Subscription) (models.Subscription, error) {
		logWarning("SubscriptionService", lifecycle.SessionEntitlement(sub))
		return lifecycle.RecordSessionUse(sub, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *subscriptionService) Renew(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	if !actor.IsAdmin() && !actor.IsSystem() {
		return nil, ErrForbidden
	}
	current, err := s.stores.Subscriptions.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSubscriptionNotFound)
	}
	pkg, err := s.stores.Packages.FindByID(ctx, current.PackageID)
	if err != nil {
		return nil, mapNotFound(err, ErrPackageNotFound)
	}
	offering, err := lifecycle.OfferingFromPackage(*pkg)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result models.Subscription
	err = s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		sub, others, err := s.ledger.lockSubscription(ctx, tx, id)
		if err != nil {
			return err
		}
		// A lapsed plan coming back must not overlap another one of its category.
		if !lifecycle.IsEffective(*sub, now) {
			if err := lifecycle.CheckEligibility(sub.Category, others, now); err != nil {
				return err
			}
		}
		next, err := lifecycle.RenewSubscription(*sub, offering, actor, now)
		if err != nil {
			return err
		}
		if err := s.stores.Subscriptions.Save(ctx, tx, &next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(KeySubscriptionRenewed, result)
	return &result, nil
}

// ExpireDue moves active subscriptions whose window has closed to expired.
// Failures are logged and the sweep continues with the next subscription.
func (s *subscriptionService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.stores.Subscriptions.FindActiveEndedBy(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find due subscriptions: %w", err)
	}

	var (
		expired int
		errs    []error
	)
	for _, candidate := range due {
		var (
			result  models.Subscription
			changed bool
		)
		err := s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
			sub, err := s.stores.Subscriptions.FindByIDForUpdate(ctx, tx, candidate.ID)
			if err != nil {
				return err
			}
			result, changed = lifecycle.ExpireSubscription(*sub, now)
			if !changed {
				return nil
			}
			return s.stores.Subscriptions.Save(ctx, tx, &result)
		})
		if err != nil {
			log.Printf("[SubscriptionService] failed to expire subscription %d: %v", candidate.ID, err)
			errs = append(errs, err)
			continue
		}
		if changed {
			expired++
			s.publish(KeySubscriptionExpired, result)
		}
	}
	return expired, errors.Join(errs...)
}

// List returns the actor's subscriptions. Admins may pass a userID, or an
// empty one to see every subscription.
func (s *subscriptionService) List(ctx context.Context, actor lifecycle.Actor, userID string) ([]SubscriptionDetail, error) {
	var (
		subs []models.Subscription
		err  error
	)
	switch {
	case actor.IsAdmin() && userID == "":
		subs, err = s.stores.Subscriptions.FindAll(ctx)
	case userID == "" || actor.CanRead(userID):
		if userID == "" {
			userID = actor.UserID
		}
		subs, err = s.stores.Subscriptions.FindByUser(ctx, userID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	now := s.now()
	details := make([]SubscriptionDetail, 0, len(subs))
	for _, sub := range subs {
		details = append(details, s.detail(sub, now))
	}
	return details, nil
}

func (s *subscriptionService) Get(ctx context.Context, actor lifecycle.Actor, id uint) (*SubscriptionDetail, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	detail := s.detail(*sub, s.now())
	return &detail, nil
}

func (s *subscriptionService) detail(sub models.Subscription, now time.Time) SubscriptionDetail {
	view := lifecycle.ViewSubscription(sub, now)
	logWarning("SubscriptionService", view.Sessions)
	return SubscriptionDetail{Subscription: sub, View: view}
}

func (s *subscriptionService) load(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	sub, err := s.stores.Subscriptions.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSubscriptionNotFound)
	}
	if !actor.CanRead(sub.UserID) && !actor.IsSystem() {
		return nil, ErrForbidden
	}
	return sub, nil
}

// update locks the subscription, applies fn and saves the result.
func (s *subscriptionService) update(ctx context.Context, id uint, fn func(models.Subscription) (models.Subscription, error)) (*models.Subscription, error) {
	var result models.Subscription
	err := s.stores.Tx.WithinTx(ctx, func(tx *gorm.DB) error {
		sub, err := s.stores.Subscriptions.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return mapNotFound(err, ErrSubscriptionNotFound)
		}
		next, err := fn(*sub)
		if err != nil {
			return err
		}
		if err := s.stores.Subscriptions.Save(ctx, tx, &next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
