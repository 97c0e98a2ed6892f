package models

import "time"

type Subscription struct {
	ID                   uint               `gorm:"primaryKey" json:"id"`
	UserID               string             `gorm:"not null;index:idx_subscription_user_category" json:"user_id"`
	PackageID            uint               `gorm:"not null" json:"package_id"`
	PackageName          string             `gorm:"not null" json:"package_name"`
	Category             Category           `gorm:"type:varchar(32);not null;index:idx_subscription_user_category" json:"category"`
	SessionsCount        *int               `json:"sessions_count,omitempty"`
	SessionsRemaining    *int               `json:"sessions_remaining"`
	SessionsUsed         int                `gorm:"not null;default:0" json:"sessions_used"`
	StartDate            time.Time          `gorm:"not null" json:"start_date"`
	EndDate              time.Time          `gorm:"not null;index" json:"end_date"`
	Status               SubscriptionStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	PaymentStatus        PaymentStatus      `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`
	AmountDue            float64            `gorm:"not null;default:0" json:"amount_due"`
	AmountPaid           float64            `gorm:"not null;default:0" json:"amount_paid"`
	IncludesSelfTraining bool               `gorm:"not null;default:false" json:"includes_self_training"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}
