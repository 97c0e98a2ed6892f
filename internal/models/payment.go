package models

import "time"

type Payment struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	Reference         string        `gorm:"type:varchar(36);not null;uniqueIndex" json:"reference"`
	UserID            string        `gorm:"not null;index" json:"user_id"`
	Type              PaymentType   `gorm:"type:varchar(20);not null" json:"type"`
	Amount            float64       `gorm:"not null" json:"amount"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod     string        `gorm:"type:varchar(20);not null" json:"payment_method"`
	BookingID         *uint         `gorm:"index" json:"booking_id,omitempty"`
	SubscriptionID    *uint         `gorm:"index" json:"subscription_id,omitempty"`
	OriginalPaymentID *uint         `json:"original_payment_id,omitempty"`
	Notes             string        `json:"notes"`
	RecordedBy        string        `json:"recorded_by,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// DisplayAmount is negative for refunds.
func (p *Payment) DisplayAmount() float64 {
	if p.Type == PaymentTypeRefund {
		return -p.Amount
	}
	return p.Amount
}
