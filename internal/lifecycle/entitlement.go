package lifecycle

import (
	"math"
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
)

type Entitlement struct {
	Purchased       int                   `json:"purchased"`
	Used            int                   `json:"used"`
	Remaining       int                   `json:"remaining"`
	ProgressPercent int                   `json:"progress_percent"`
	Warning         *DataIntegrityWarning `json:"-"`
}

// Entitle derives the remaining allotment. ProgressPercent is the share that
// is still left, so it reaches 0 once everything is used.
func Entitle(purchased, used int) Entitlement {
	e := Entitlement{Purchased: purchased, Used: used}
	if purchased < 0 || used < 0 || used > purchased {
		e.Warning = &DataIntegrityWarning{Purchased: purchased, Used: used}
	}
	if purchased <= 0 {
		return e
	}

	remaining := purchased - used
	if remaining < 0 {
		remaining = 0
	}
	if remaining > purchased {
		remaining = purchased
	}
	e.Remaining = remaining
	e.ProgressPercent = clampPercent(math.Round(float64(remaining) / float64(purchased) * 100))
	return e
}

func clampPercent(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v)
}

type AggregateEntitlement struct {
	Remaining int                    `json:"remaining"`
	Records   int                    `json:"records"`
	Warnings  []DataIntegrityWarning `json:"-"`
}

// BookingQualifies reports whether a booking's remaining hours count toward the
// user's total: it must be open and either confirmed or settled.
func BookingQualifies(b models.Booking) bool {
	if b.BookingStatus == models.BookingCancelled || b.BookingStatus == models.BookingCompleted {
		return false
	}
	return b.BookingStatus == models.BookingConfirmed || b.PaymentStatus.IsSettled()
}

func BookingEntitlement(b models.Booking) Entitlement {
	e := Entitle(b.HoursPurchased, b.HoursUsed)
	if e.Warning != nil {
		e.Warning.Entity = "booking"
		e.Warning.ID = b.ID
	}
	return e
}

func AggregateBookings(bookings []models.Booking) AggregateEntitlement {
	var agg AggregateEntitlement
	for _, b := range bookings {
		if !BookingQualifies(b) {
			continue
		}
		e := BookingEntitlement(b)
		if e.Warning != nil {
			agg.Warnings = append(agg.Warnings, *e.Warning)
		}
		agg.Remaining += e.Remaining
		agg.Records++
	}
	return agg
}

// SessionEntitlement returns nil for subscriptions without a session allotment.
func SessionEntitlement(s models.Subscription) *Entitlement {
	if s.SessionsCount == nil {
		return nil
	}
	e := Entitle(*s.SessionsCount, s.SessionsUsed)
	if e.Warning != nil {
		e.Warning.Entity = "subscription"
		e.Warning.ID = s.ID
	}
	return &e
}

func AggregateSubscriptions(subs []models.Subscription, now time.Time) AggregateEntitlement {
	var agg AggregateEntitlement
	for _, s := range subs {
		if s.Category != models.CategoryPrivateSessions || !IsEffective(s, now) {
			continue
		}
		e := SessionEntitlement(s)
		if e == nil {
			continue
		}
		if e.Warning != nil {
			agg.Warnings = append(agg.Warnings, *e.Warning)
		}
		agg.Remaining += e.Remaining
		agg.Records++
	}
	return agg
}
