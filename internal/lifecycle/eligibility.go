package lifecycle

import (
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
)

// IsEffective is the single predicate for "this subscription grants
// entitlements right now". The stored status alone is not trusted: it stays
// "active" until the expiry sweep runs.
func IsEffective(s models.Subscription, now time.Time) bool {
	return s.Status == models.SubscriptionActive &&
		s.PaymentStatus.IsSettled() &&
		now.Before(s.EndDate)
}

// ActiveSubscription returns the effective subscription of the category that
// ends last, if any.
func ActiveSubscription(subs []models.Subscription, category models.Category, now time.Time) (models.Subscription, bool) {
	var (
		found models.Subscription
		ok    bool
	)
	for _, s := range subs {
		if s.Category != category || !IsEffective(s, now) {
			continue
		}
		if !ok || s.EndDate.After(found.EndDate) {
			found, ok = s, true
		}
	}
	return found, ok
}

func HasActiveSubscription(subs []models.Subscription, category models.Category, now time.Time) bool {
	_, ok := ActiveSubscription(subs, category, now)
	return ok
}

// CheckEligibility allows a purchase unless an effective subscription of the
// same category exists. Categories are independent entitlements.
func CheckEligibility(category models.Category, subs []models.Subscription, now time.Time) error {
	if !category.Valid() {
		return invalid("category", "must be private_sessions or self_training")
	}
	active, ok := ActiveSubscription(subs, category, now)
	if !ok {
		return nil
	}
	return &IneligiblePurchaseError{
		Category:       string(category),
		SubscriptionID: active.ID,
		ActiveUntil:    active.EndDate,
	}
}
