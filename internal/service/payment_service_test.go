package service

import (
	"context"
	"testing"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentTime = time.Date(2024, 6, 18, 15, 30, 0, 0, time.UTC)

func paidSubscriptionFixture() *fixture {
	f := newFixture()
	f.subs.rows[1] = models.Subscription{
		ID:            1,
		UserID:        client.UserID,
		Category:      models.CategorySelfTraining,
		StartDate:     paymentTime.AddDate(0, 0, -5),
		EndDate:       paymentTime.AddDate(0, 1, -5),
		Status:        models.SubscriptionActive,
		PaymentStatus: models.PaymentPaid,
		AmountPaid:    49,
	}
	f.payments.rows[10] = models.Payment{
		ID:             10,
		Reference:      "ref-10",
		UserID:         client.UserID,
		Type:           models.PaymentTypeSubscription,
		Amount:         49,
		Status:         models.PaymentCompleted,
		PaymentMethod:  "card",
		SubscriptionID: uintPtr(1),
	}
	return f
}

func TestRefund_CancelsSubscriptionAndRecordsRefund(t *testing.T) {
	f := paidSubscriptionFixture()
	svc := NewPaymentService(f.stores, f.options(paymentTime)...)

	_, err := svc.Refund(context.Background(), client, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	out, err := svc.Refund(context.Background(), admin, 10)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, f.payments.rows[10].Status)
	assert.Equal(t, models.SubscriptionCancelled, f.subs.rows[1].Status)
	require.NotNil(t, out.Refund)
	refund := f.payments.rows[out.Refund.ID]
	assert.Equal(t, models.PaymentTypeRefund, refund.Type)
	assert.Equal(t, uint(10), *refund.OriginalPaymentID)
	assert.Equal(t, -49.0, refund.DisplayAmount())
	assert.NotEmpty(t, refund.Reference)
	assert.Equal(t, []string{KeyPaymentRefunded}, f.pub.keys)

	_, err = svc.Refund(context.Background(), admin, 10)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStateTransition)
}

func TestRecordManual_SettlesPendingBookingPayment(t *testing.T) {
	f := newFixture()
	f.bookings.rows[3] = models.Booking{ID: 3, ClientID: client.UserID, HoursPurchased: 5, BookingStatus: models.BookingPending, PaymentStatus: models.PaymentPending}
	f.payments.rows[20] = models.Payment{ID: 20, UserID: client.UserID, Type: models.PaymentTypeBooking, Amount: 250, Status: models.PaymentPending, PaymentMethod: "card", BookingID: uintPtr(3)}
	svc := NewPaymentService(f.stores, f.options(paymentTime)...)

	out, err := svc.RecordManual(context.Background(), admin, 20)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, out.Payment.Status)
	assert.Equal(t, "manual", f.payments.rows[20].PaymentMethod)
	assert.Equal(t, admin.UserID, f.payments.rows[20].RecordedBy)
	assert.Equal(t, models.PaymentCompleted, f.bookings.rows[3].PaymentStatus)
}

func TestApplyProviderResult(t *testing.T) {
	f := newFixture()
	f.subs.rows[1] = models.Subscription{ID: 1, UserID: client.UserID, Category: models.CategorySelfTraining, StartDate: paymentTime, EndDate: paymentTime.AddDate(0, 1, 0), Status: models.SubscriptionPending, PaymentStatus: models.PaymentPending}
	f.payments.rows[30] = models.Payment{ID: 30, Reference: "ref-30", UserID: client.UserID, Type: models.PaymentTypeSubscription, Amount: 49, Status: models.PaymentPending, SubscriptionID: uintPtr(1)}
	svc := NewPaymentService(f.stores, f.options(paymentTime)...)

	_, err := svc.ApplyProviderResult(context.Background(), "missing", true)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	out, err := svc.ApplyProviderResult(context.Background(), "ref-30", false)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, out.Payment.Status)
	assert.Equal(t, models.PaymentFailed, f.subs.rows[1].PaymentStatus)
	assert.Equal(t, []string{KeyPaymentFailed}, f.pub.keys)

	_, err = svc.ApplyProviderResult(context.Background(), "ref-30", true)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStateTransition)
}

func TestStats(t *testing.T) {
	f := newFixture()
	f.payments.rows[1] = models.Payment{ID: 1, Status: models.PaymentCompleted}
	f.payments.rows[2] = models.Payment{ID: 2, Status: models.PaymentPending}
	f.payments.rows[3] = models.Payment{ID: 3, Status: models.PaymentPending}
	var sinces []time.Time
	f.payments.sumFn = func(kind models.PaymentType, since *time.Time) (float64, error) {
		if since != nil {
			sinces = append(sinces, *since)
		}
		switch kind {
		case models.PaymentTypeBooking:
			return 500, nil
		case models.PaymentTypeSubscription:
			return 200, nil
		default:
			return 100, nil
		}
	}
	svc := NewPaymentService(f.stores, f.options(paymentTime)...)

	_, err := svc.Stats(context.Background(), client)
	assert.ErrorIs(t, err, ErrForbidden)

	stats, err := svc.Stats(context.Background(), admin)

	require.NoError(t, err)
	assert.Equal(t, 600.0, stats.NetRevenue)
	assert.Equal(t, 600.0, stats.MonthRevenue)
	assert.Equal(t, 600.0, stats.TodayRevenue)
	assert.Equal(t, int64(2), stats.CountByStatus[models.PaymentPending])
	require.Len(t, sinces, 6)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), sinces[0])
	assert.Equal(t, time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC), sinces[3])
}
