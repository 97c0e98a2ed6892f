package lifecycle

import (
	"math"
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
)

// PackageInfo holds the fields shared by every offering.
type PackageInfo struct {
	ID                 uint
	Name               string
	Description        string
	Price              float64
	Features           []string
	DiscountPercentage float64
	IsPopular          bool
	IsActive           bool
	DisplayOrder       int
}

// Offering is a validated package: exactly one of PrivateSessionsPackage or
// SelfTrainingPackage.
type Offering interface {
	Info() PackageInfo
	Category() models.Category
	EndDate(start time.Time) time.Time
	FinalPrice() float64
}

type PrivateSessionsPackage struct {
	PackageInfo
	SessionsCount        int
	ValidityDays         int
	IncludesSelfTraining bool
}

func (p PrivateSessionsPackage) Info() PackageInfo { return p.PackageInfo }

func (p PrivateSessionsPackage) Category() models.Category { return models.CategoryPrivateSessions }

func (p PrivateSessionsPackage) EndDate(start time.Time) time.Time {
	return start.AddDate(0, 0, p.ValidityDays)
}

func (p PrivateSessionsPackage) FinalPrice() float64 { return discounted(p.Price, p.DiscountPercentage) }

type SelfTrainingPackage struct {
	PackageInfo
	SubscriptionType models.SubscriptionType
	DurationMonths   int
	AutoRenewal      bool
}

func (p SelfTrainingPackage) Info() PackageInfo { return p.PackageInfo }

func (p SelfTrainingPackage) Category() models.Category { return models.CategorySelfTraining }

func (p SelfTrainingPackage) EndDate(start time.Time) time.Time {
	return start.AddDate(0, p.DurationMonths, 0)
}

func (p SelfTrainingPackage) FinalPrice() float64 { return discounted(p.Price, p.DiscountPercentage) }

func discounted(price, pct float64) float64 {
	if pct <= 0 {
		return price
	}
	return math.Round(price*(100-pct)) / 100
}

// OfferingFromPackage validates a stored package row and returns its variant.
// Fields belonging to the other category must be absent.
func OfferingFromPackage(p models.Package) (Offering, error) {
	if p.Name == "" {
		return nil, invalid("name", "is required")
	}
	if p.Price < 0 {
		return nil, invalid("price", "must not be negative")
	}
	if p.DiscountPercentage < 0 || p.DiscountPercentage > 100 {
		return nil, invalid("discount_percentage", "must be between 0 and 100")
	}

	info := PackageInfo{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		Features:           p.FeatureList(),
		DiscountPercentage: p.DiscountPercentage,
		IsPopular:          p.IsPopular,
		IsActive:           p.IsActive,
		DisplayOrder:       p.DisplayOrder,
	}

	switch p.Category {
	case models.CategoryPrivateSessions:
		if p.SubscriptionType != nil || p.DurationMonths != nil || p.AutoRenewal != nil {
			return nil, invalid("category", "private_sessions package carries self_training fields")
		}
		if p.SessionsCount == nil || *p.SessionsCount <= 0 {
			return nil, invalid("sessions_count", "must be greater than 0")
		}
		if p.ValidityDays == nil || *p.ValidityDays <= 0 {
			return nil, invalid("validity_days", "must be greater than 0")
		}
		offering := PrivateSessionsPackage{
			PackageInfo:   info,
			SessionsCount: *p.SessionsCount,
			ValidityDays:  *p.ValidityDays,
		}
		if p.IncludesSelfTraining != nil {
			offering.IncludesSelfTraining = *p.IncludesSelfTraining
		}
		return offering, nil

	case models.CategorySelfTraining:
		if p.SessionsCount != nil || p.ValidityDays != nil || p.IncludesSelfTraining != nil {
			return nil, invalid("category", "self_training package carries private_sessions fields")
		}
		if p.SubscriptionType == nil || !p.SubscriptionType.Valid() {
			return nil, invalid("subscription_type", "must be monthly, quarterly or yearly")
		}
		if p.DurationMonths == nil || *p.DurationMonths <= 0 {
			return nil, invalid("duration_months", "must be greater than 0")
		}
		offering := SelfTrainingPackage{
			PackageInfo:      info,
			SubscriptionType: *p.SubscriptionType,
			DurationMonths:   *p.DurationMonths,
		}
		if p.AutoRenewal != nil {
			offering.AutoRenewal = *p.AutoRenewal
		}
		return offering, nil

	default:
		return nil, invalid("category", "must be private_sessions or self_training")
	}
}
