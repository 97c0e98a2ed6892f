package models

type Category string

const (
	CategoryPrivateSessions Category = "private_sessions"
	CategorySelfTraining    Category = "self_training"
)

func (c Category) Valid() bool {
	return c == CategoryPrivateSessions || c == CategorySelfTraining
}

type SubscriptionType string

const (
	SubscriptionMonthly   SubscriptionType = "monthly"
	SubscriptionQuarterly SubscriptionType = "quarterly"
	SubscriptionYearly    SubscriptionType = "yearly"
)

func (t SubscriptionType) Valid() bool {
	switch t {
	case SubscriptionMonthly, SubscriptionQuarterly, SubscriptionYearly:
		return true
	}
	return false
}

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// PaymentStatus is shared by payment records, subscriptions and bookings.
// Subscriptions settle as "paid", payment records and bookings as "completed".
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) IsSettled() bool {
	return s == PaymentPaid || s == PaymentCompleted
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentType string

const (
	PaymentTypeBooking      PaymentType = "booking"
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeRefund       PaymentType = "refund"
)
