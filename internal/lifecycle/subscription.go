package lifecycle

import (
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
)

// NewSubscription builds a pending purchase of the offering starting at start.
func NewSubscription(actor Actor, offering Offering, start time.Time) (models.Subscription, error) {
	if actor.UserID == "" {
		return models.Subscription{}, invalid("user_id", "is required")
	}
	if offering == nil {
		return models.Subscription{}, invalid("package", "is required")
	}
	info := offering.Info()
	if !info.IsActive {
		return models.Subscription{}, invalid("package", "is not available for purchase")
	}

	window, err := NewWindow(start, offering.EndDate(start))
	if err != nil {
		return models.Subscription{}, err
	}

	sub := models.Subscription{
		UserID:        actor.UserID,
		PackageID:     info.ID,
		PackageName:   info.Name,
		Category:      offering.Category(),
		StartDate:     window.Start,
		EndDate:       window.End,
		Status:        models.SubscriptionPending,
		PaymentStatus: models.PaymentPending,
		AmountDue:     offering.FinalPrice(),
	}
	if p, ok := offering.(PrivateSessionsPackage); ok {
		count, remaining := p.SessionsCount, p.SessionsCount
		sub.SessionsCount = &count
		sub.SessionsRemaining = &remaining
		sub.IncludesSelfTraining = p.IncludesSelfTraining
	}
	return sub, nil
}

func SubscriptionWindow(s models.Subscription) Window {
	return Window{Start: s.StartDate, End: s.EndDate}
}

// RecordSessionUse consumes one session of an effective private-sessions subscription.
func RecordSessionUse(s models.Subscription, now time.Time) (models.Subscription, error) {
	if s.Category != models.CategoryPrivateSessions || s.SessionsCount == nil {
		return s, &NotUsableError{Entity: "subscription", ID: s.ID, Reason: "has no session allotment"}
	}
	if !IsEffective(s, now) {
		return s, &NotUsableError{Entity: "subscription", ID: s.ID, Reason: "is not active, paid and within its validity window"}
	}
	if s.SessionsUsed >= *s.SessionsCount {
		return s, &NotUsableError{Entity: "subscription", ID: s.ID, Reason: "no sessions remaining"}
	}

	s.SessionsUsed++
	remaining := *s.SessionsCount - s.SessionsUsed
	s.SessionsRemaining = &remaining
	return s, nil
}

func CancelSubscription(s models.Subscription, actor Actor) (models.Subscription, error) {
	if !actor.IsAdmin() && !actor.Owns(s.UserID) {
		return s, &TransitionError{Entity: "subscription", From: string(s.Status), To: string(models.SubscriptionCancelled), Reason: "only the owner or an administrator may cancel"}
	}
	switch s.Status {
	case models.SubscriptionPending, models.SubscriptionActive:
		s.Status = models.SubscriptionCancelled
		return s, nil
	}
	return s, &TransitionError{Entity: "subscription", From: string(s.Status), To: string(models.SubscriptionCancelled)}
}

// ExpireSubscription reports whether the subscription had to be moved to expired.
func ExpireSubscription(s models.Subscription, now time.Time) (models.Subscription, bool) {
	if s.Status != models.SubscriptionActive || now.Before(s.EndDate) {
		return s, false
	}
	s.Status = models.SubscriptionExpired
	return s, true
}

// RenewSubscription extends a paid self-training subscription by one more
// duration of its package, counted from the later of its end date and now.
// This is the only operation that moves end_date.
func RenewSubscription(s models.Subscription, offering Offering, actor Actor, now time.Time) (models.Subscription, error) {
	if !actor.IsAdmin() && !actor.IsSystem() {
		return s, &TransitionError{Entity: "subscription", From: string(s.Status), To: string(models.SubscriptionActive), Reason: "renewal is an administrator action"}
	}
	plan, ok := offering.(SelfTrainingPackage)
	if !ok || s.Category != models.CategorySelfTraining {
		return s, invalid("category", "only self_training subscriptions can be renewed")
	}
	if plan.ID != s.PackageID {
		return s, invalid("package_id", "does not match the subscription's package")
	}
	if s.Status == models.SubscriptionCancelled || s.Status == models.SubscriptionPending || !s.PaymentStatus.IsSettled() {
		return s, &TransitionError{Entity: "subscription", From: string(s.Status), To: string(models.SubscriptionActive), Reason: "only paid subscriptions can be renewed"}
	}

	from := s.EndDate
	if now.After(from) {
		from = now
	}
	s.EndDate = plan.EndDate(from)
	s.Status = models.SubscriptionActive
	return s, nil
}

// SubscriptionView is the derived state screens display for a subscription.
type SubscriptionView struct {
	Effective            bool         `json:"effective"`
	Expired              bool         `json:"expired"`
	DaysRemaining        int          `json:"days_remaining"`
	DisplayDaysRemaining int          `json:"display_days_remaining"`
	ElapsedPercent       float64      `json:"elapsed_percent"`
	Sessions             *Entitlement `json:"sessions,omitempty"`
}

func ViewSubscription(s models.Subscription, now time.Time) SubscriptionView {
	w := SubscriptionWindow(s)
	return SubscriptionView{
		Effective:            IsEffective(s, now),
		Expired:              w.IsExpired(now),
		DaysRemaining:        w.DaysRemaining(now),
		DisplayDaysRemaining: w.DisplayDaysRemaining(now),
		ElapsedPercent:       w.ElapsedPercent(now),
		Sessions:             SessionEntitlement(s),
	}
}
