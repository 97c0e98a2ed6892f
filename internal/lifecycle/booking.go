package lifecycle

import (
	"github.com/Eursukkul/coaching-service/internal/models"
)

// NewBooking creates a pending request for the hours of a private-sessions offering.
func NewBooking(actor Actor, offering Offering, notes string) (models.Booking, error) {
	if actor.UserID == "" {
		return models.Booking{}, invalid("client_id", "is required")
	}
	p, ok := offering.(PrivateSessionsPackage)
	if !ok {
		return models.Booking{}, invalid("package", "bookings need a private_sessions package")
	}
	if !p.IsActive {
		return models.Booking{}, invalid("package", "is not available for purchase")
	}
	return models.Booking{
		ClientID:       actor.UserID,
		PackageID:      p.ID,
		PackageName:    p.Name,
		HoursPurchased: p.SessionsCount,
		HoursUsed:      0,
		BookingStatus:  models.BookingPending,
		PaymentStatus:  models.PaymentPending,
		Amount:         p.FinalPrice(),
		Notes:          notes,
	}, nil
}

// TransitionBooking applies the booking state machine:
//
//	pending   -> confirmed  admin
//	pending   -> cancelled  admin, owner
//	confirmed -> completed  admin
func TransitionBooking(b models.Booking, to models.BookingStatus, actor Actor) (models.Booking, error) {
	reject := func(reason string) (models.Booking, error) {
		return b, &TransitionError{Entity: "booking", From: string(b.BookingStatus), To: string(to), Reason: reason}
	}

	switch {
	case b.BookingStatus == models.BookingPending && to == models.BookingConfirmed:
		if !actor.IsAdmin() {
			return reject("confirmation is an administrator action")
		}
	case b.BookingStatus == models.BookingPending && to == models.BookingCancelled:
		if !actor.IsAdmin() && !actor.Owns(b.ClientID) {
			return reject("only the client or an administrator may cancel")
		}
	case b.BookingStatus == models.BookingConfirmed && to == models.BookingCompleted:
		if !actor.IsAdmin() && !actor.IsSystem() {
			return reject("closing a booking is an administrator action")
		}
	default:
		return reject("")
	}

	b.BookingStatus = to
	return b, nil
}

// RecordUsage adds consumed hours to a confirmed booking. Reaching the
// purchased hours completes it.
func RecordUsage(b models.Booking, hours int) (models.Booking, error) {
	if b.BookingStatus != models.BookingConfirmed {
		return b, &NotUsableError{Entity: "booking", ID: b.ID, Reason: "status is " + string(b.BookingStatus)}
	}
	if b.HoursUsed >= b.HoursPurchased {
		return b, &NotUsableError{Entity: "booking", ID: b.ID, Reason: "all purchased hours are used"}
	}
	if hours <= 0 {
		return b, invalid("hours", "must be greater than 0")
	}
	if b.HoursUsed+hours > b.HoursPurchased {
		return b, invalid("hours", "exceeds the remaining hours")
	}

	b.HoursUsed += hours
	if b.HoursUsed == b.HoursPurchased {
		b.BookingStatus = models.BookingCompleted
	}
	return b, nil
}
