package lifecycle

import (
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
)

var (
	owner = Actor{UserID: "user-1", Role: RoleUser}
	other = Actor{UserID: "user-2", Role: RoleUser}
	admin = Actor{UserID: "admin-1", Role: RoleAdmin}
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
func uintPtr(v uint) *uint { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func privatePackage() models.Package {
	return models.Package{
		ID:                   1,
		Name:                 "8 Private Sessions",
		Price:                400,
		Category:             models.CategoryPrivateSessions,
		IsActive:             true,
		SessionsCount:        intPtr(8),
		ValidityDays:         intPtr(90),
		IncludesSelfTraining: boolPtr(true),
	}
}

func selfTrainingPackage() models.Package {
	monthly := models.SubscriptionMonthly
	return models.Package{
		ID:               2,
		Name:             "Monthly Self Training",
		Price:            49,
		Category:         models.CategorySelfTraining,
		IsActive:         true,
		SubscriptionType: &monthly,
		DurationMonths:   intPtr(1),
		AutoRenewal:      boolPtr(false),
	}
}

func activeSub(category models.Category, end time.Time) models.Subscription {
	return models.Subscription{
		ID:            10,
		UserID:        owner.UserID,
		Category:      category,
		StartDate:     end.AddDate(0, -1, 0),
		EndDate:       end,
		Status:        models.SubscriptionActive,
		PaymentStatus: models.PaymentPaid,
	}
}
