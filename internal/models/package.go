package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Package is the flat storage row of an offering. Category-specific columns
// are nullable; lifecycle.OfferingFromPackage enforces which ones may be set.
type Package struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"not null" json:"name"`
	Description        string         `json:"description"`
	Price              float64        `gorm:"not null" json:"price"`
	Category           Category       `gorm:"type:varchar(32);not null;index" json:"category"`
	DiscountPercentage float64        `gorm:"not null;default:0" json:"discount_percentage"`
	Features           datatypes.JSON `json:"features"`
	IsPopular          bool           `gorm:"not null;default:false" json:"is_popular"`
	IsActive           bool           `gorm:"not null" json:"is_active"`
	DisplayOrder       int            `gorm:"not null;default:0" json:"display_order"`

	// private_sessions
	SessionsCount        *int  `json:"sessions_count,omitempty"`
	ValidityDays         *int  `json:"validity_days,omitempty"`
	IncludesSelfTraining *bool `json:"includes_self_training,omitempty"`

	// self_training
	SubscriptionType *SubscriptionType `gorm:"type:varchar(16)" json:"subscription_type,omitempty"`
	DurationMonths   *int              `json:"duration_months,omitempty"`
	AutoRenewal      *bool             `json:"auto_renewal,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Package) FeatureList() []string {
	if len(p.Features) == 0 {
		return []string{}
	}
	var features []string
	if err := json.Unmarshal(p.Features, &features); err != nil {
		return []string{}
	}
	return features
}

func (p *Package) SetFeatureList(features []string) error {
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.Features = datatypes.JSON(raw)
	return nil
}
