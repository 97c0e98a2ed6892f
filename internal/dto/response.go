package dto

import (
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/service"
)

type PackageResponse struct {
	ID                   uint                     `json:"id"`
	Name                 string                   `json:"name"`
	Description          string                   `json:"description"`
	Category             models.Category          `json:"category"`
	Price                float64                  `json:"price"`
	DiscountPercentage   float64                  `json:"discount_percentage"`
	FinalPrice           float64                  `json:"final_price"`
	Features             []string                 `json:"features"`
	IsPopular            bool                     `json:"is_popular"`
	IsActive             bool                     `json:"is_active"`
	DisplayOrder         int                      `json:"display_order"`
	SessionsCount        *int                     `json:"sessions_count,omitempty"`
	ValidityDays         *int                     `json:"validity_days,omitempty"`
	IncludesSelfTraining *bool                    `json:"includes_self_training,omitempty"`
	SubscriptionType     *models.SubscriptionType `json:"subscription_type,omitempty"`
	DurationMonths       *int                     `json:"duration_months,omitempty"`
	AutoRenewal          *bool                    `json:"auto_renewal,omitempty"`
}

type SubscriptionResponse struct {
	ID                   uint                      `json:"id"`
	UserID               string                    `json:"user_id"`
	PackageID            uint                      `json:"package_id"`
	PackageName          string                    `json:"package_name"`
	Category             models.Category           `json:"category"`
	Status               models.SubscriptionStatus `json:"status"`
	PaymentStatus        models.PaymentStatus      `json:"payment_status"`
	StartDate            time.Time                 `json:"start_date"`
	EndDate              time.Time                 `json:"end_date"`
	SessionsCount        *int                      `json:"sessions_count,omitempty"`
	SessionsUsed         int                       `json:"sessions_used"`
	SessionsRemaining    *int                      `json:"sessions_remaining,omitempty"`
	IncludesSelfTraining bool                      `json:"includes_self_training"`
	AmountDue            float64                   `json:"amount_due"`
	AmountPaid           float64                   `json:"amount_paid"`
	CreatedAt            time.Time                 `json:"created_at"`

	Effective            *bool                  `json:"effective,omitempty"`
	DaysRemaining        *int                   `json:"days_remaining,omitempty"`
	DisplayDaysRemaining *int                   `json:"display_days_remaining,omitempty"`
	ElapsedPercent       *float64               `json:"elapsed_percent,omitempty"`
	Sessions             *lifecycle.Entitlement `json:"sessions,omitempty"`
}

type PaymentResponse struct {
	ID                uint                 `json:"id"`
	Reference         string               `json:"reference"`
	UserID            string               `json:"user_id"`
	Type              models.PaymentType   `json:"type"`
	Amount            float64              `json:"amount"`
	DisplayAmount     float64              `json:"display_amount"`
	Status            models.PaymentStatus `json:"status"`
	PaymentMethod     string               `json:"payment_method"`
	BookingID         *uint                `json:"booking_id,omitempty"`
	SubscriptionID    *uint                `json:"subscription_id,omitempty"`
	OriginalPaymentID *uint                `json:"original_payment_id,omitempty"`
	RecordedBy        string               `json:"recorded_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

type PurchaseResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Payment      PaymentResponse      `json:"payment"`
}

type BookingResponse struct {
	ID             uint                 `json:"id"`
	ClientID       string               `json:"client_id"`
	PackageID      uint                 `json:"package_id"`
	PackageName    string               `json:"package_name"`
	HoursPurchased int                  `json:"hours_purchased"`
	HoursUsed      int                  `json:"hours_used"`
	HoursRemaining int                  `json:"hours_remaining"`
	Progress       int                  `json:"progress_percent"`
	BookingStatus  models.BookingStatus `json:"booking_status"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	Amount         float64              `json:"amount"`
	Notes          string               `json:"notes,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type CreateBookingResponse struct {
	Booking BookingResponse `json:"booking"`
	Payment PaymentResponse `json:"payment"`
}

type PaymentOutcomeResponse struct {
	Payment      PaymentResponse       `json:"payment"`
	Refund       *PaymentResponse      `json:"refund,omitempty"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
	Booking      *BookingResponse      `json:"booking,omitempty"`
}

type EntitlementsResponse struct {
	UserID                string   `json:"user_id"`
	BookingHoursRemaining int      `json:"booking_hours_remaining"`
	BookingRecords        int      `json:"booking_records"`
	SessionsRemaining     int      `json:"sessions_remaining"`
	SessionRecords        int      `json:"session_records"`
	Warnings              []string `json:"warnings,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToPackageResponse(p *models.Package) PackageResponse {
	resp := PackageResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		Category:             p.Category,
		Price:                p.Price,
		DiscountPercentage:   p.DiscountPercentage,
		FinalPrice:           p.Price,
		Features:             p.FeatureList(),
		IsPopular:            p.IsPopular,
		IsActive:             p.IsActive,
		DisplayOrder:         p.DisplayOrder,
		SessionsCount:        p.SessionsCount,
		ValidityDays:         p.ValidityDays,
		IncludesSelfTraining: p.IncludesSelfTraining,
		SubscriptionType:     p.SubscriptionType,
		DurationMonths:       p.DurationMonths,
		AutoRenewal:          p.AutoRenewal,
	}
	if offering, err := lifecycle.OfferingFromPackage(*p); err == nil {
		resp.FinalPrice = offering.FinalPrice()
	}
	return resp
}

func ToSubscriptionResponse(s *models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                   s.ID,
		UserID:               s.UserID,
		PackageID:            s.PackageID,
		PackageName:          s.PackageName,
		Category:             s.Category,
		Status:               s.Status,
		PaymentStatus:        s.PaymentStatus,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		SessionsCount:        s.SessionsCount,
		SessionsUsed:         s.SessionsUsed,
		SessionsRemaining:    s.SessionsRemaining,
		IncludesSelfTraining: s.IncludesSelfTraining,
		AmountDue:            s.AmountDue,
		AmountPaid:           s.AmountPaid,
		CreatedAt:            s.CreatedAt,
	}
}

func ToSubscriptionDetailResponse(d *service.SubscriptionDetail) SubscriptionResponse {
	resp := ToSubscriptionResponse(&d.Subscription)
	v := d.View
	resp.Effective = &v.Effective
	resp.DaysRemaining = &v.DaysRemaining
	resp.DisplayDaysRemaining = &v.DisplayDaysRemaining
	resp.ElapsedPercent = &v.ElapsedPercent
	resp.Sessions = v.Sessions
	return resp
}

func ToPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		Reference:         p.Reference,
		UserID:            p.UserID,
		Type:              p.Type,
		Amount:            p.Amount,
		DisplayAmount:     p.DisplayAmount(),
		Status:            p.Status,
		PaymentMethod:     p.PaymentMethod,
		BookingID:         p.BookingID,
		SubscriptionID:    p.SubscriptionID,
		OriginalPaymentID: p.OriginalPaymentID,
		RecordedBy:        p.RecordedBy,
		CreatedAt:         p.CreatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	e := lifecycle.BookingEntitlement(*b)
	return BookingResponse{
		ID:             b.ID,
		ClientID:       b.ClientID,
		PackageID:      b.PackageID,
		PackageName:    b.PackageName,
		HoursPurchased: b.HoursPurchased,
		HoursUsed:      b.HoursUsed,
		HoursRemaining: e.Remaining,
		Progress:       e.ProgressPercent,
		BookingStatus:  b.BookingStatus,
		PaymentStatus:  b.PaymentStatus,
		Amount:         b.Amount,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
	}
}

func ToPaymentOutcomeResponse(out *lifecycle.PaymentOutcome) PaymentOutcomeResponse {
	resp := PaymentOutcomeResponse{Payment: ToPaymentResponse(&out.Payment)}
	if out.Refund != nil {
		r := ToPaymentResponse(out.Refund)
		resp.Refund = &r
	}
	if out.Subscription != nil {
		s := ToSubscriptionResponse(out.Subscription)
		resp.Subscription = &s
	}
	if out.Booking != nil {
		b := ToBookingResponse(out.Booking)
		resp.Booking = &b
	}
	return resp
}

func ToEntitlementsResponse(e *service.Entitlements) EntitlementsResponse {
	resp := EntitlementsResponse{
		UserID:                e.UserID,
		BookingHoursRemaining: e.BookingHours.Remaining,
		BookingRecords:        e.BookingHours.Records,
		SessionsRemaining:     e.Sessions.Remaining,
		SessionRecords:        e.Sessions.Records,
	}
	for _, w := range e.BookingHours.Warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	for _, w := range e.Sessions.Warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	return resp
}
