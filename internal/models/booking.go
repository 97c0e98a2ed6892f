package models

import "time"

type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	ClientID       string        `gorm:"not null;index" json:"client_id"`
	PackageID      uint          `gorm:"not null" json:"package_id"`
	PackageName    string        `gorm:"not null" json:"package_name"`
	HoursPurchased int           `gorm:"not null" json:"hours_purchased"`
	HoursUsed      int           `gorm:"not null;default:0" json:"hours_used"`
	BookingStatus  BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"booking_status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Amount         float64       `gorm:"not null;default:0" json:"amount"`
	Notes          string        `json:"notes"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
