package dto

import (
	"github.com/Eursukkul/coaching-service/internal/models"
)

type PackageRequest struct {
	Name               string   `json:"name" validate:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" validate:"gte=0"`
	Category           string   `json:"category" validate:"required,oneof=private_sessions self_training"`
	DiscountPercentage float64  `json:"discount_percentage" validate:"gte=0,lte=100"`
	Features           []string `json:"features"`
	IsPopular          bool     `json:"is_popular"`
	IsActive           *bool    `json:"is_active"`
	DisplayOrder       int      `json:"display_order"`

	SessionsCount        *int  `json:"sessions_count" validate:"omitempty,gt=0"`
	ValidityDays         *int  `json:"validity_days" validate:"omitempty,gt=0"`
	IncludesSelfTraining *bool `json:"includes_self_training"`

	SubscriptionType *string `json:"subscription_type" validate:"omitempty,oneof=monthly quarterly yearly"`
	DurationMonths   *int    `json:"duration_months" validate:"omitempty,gt=0"`
	AutoRenewal      *bool   `json:"auto_renewal"`
}

// ToModel builds the storage row. Category rules are checked by the service.
func (r *PackageRequest) ToModel() (*models.Package, error) {
	pkg := &models.Package{
		Name:                 r.Name,
		Description:          r.Description,
		Price:                r.Price,
		Category:             models.Category(r.Category),
		DiscountPercentage:   r.DiscountPercentage,
		IsPopular:            r.IsPopular,
		IsActive:             true,
		DisplayOrder:         r.DisplayOrder,
		SessionsCount:        r.SessionsCount,
		ValidityDays:         r.ValidityDays,
		IncludesSelfTraining: r.IncludesSelfTraining,
		DurationMonths:       r.DurationMonths,
		AutoRenewal:          r.AutoRenewal,
	}
	if r.IsActive != nil {
		pkg.IsActive = *r.IsActive
	}
	if r.SubscriptionType != nil {
		st := models.SubscriptionType(*r.SubscriptionType)
		pkg.SubscriptionType = &st
	}
	if err := pkg.SetFeatureList(r.Features); err != nil {
		return nil, err
	}
	return pkg, nil
}

type PurchaseRequest struct {
	PackageID uint `json:"package_id" validate:"required"`
}

type CreateBookingRequest struct {
	PackageID uint   `json:"package_id" validate:"required"`
	Notes     string `json:"notes" validate:"max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type RecordUsageRequest struct {
	Hours int `json:"hours" validate:"required,gt=0"`
}
