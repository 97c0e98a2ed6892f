package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	Save(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error)
	FindByReferenceForUpdate(ctx context.Context, tx *gorm.DB, reference string) (*models.Payment, error)
	FindPendingForSubscription(ctx context.Context, tx *gorm.DB, subscriptionID uint) (*models.Payment, error)
	FindPendingForBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error)
	FindAll(ctx context.Context) ([]models.Payment, error)
	SumCompleted(ctx context.Context, kind models.PaymentType, since *time.Time) (float64, error)
	CountByStatus(ctx context.Context) (map[models.PaymentStatus]int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return conn(r.db, tx).WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Save(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return conn(r.db, tx).WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(r.db, tx).WithContext(ctx).Clauses(forUpdate).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByReferenceForUpdate(ctx context.Context, tx *gorm.DB, reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(r.db, tx).WithContext(ctx).
		Clauses(forUpdate).
		Where("reference = ?", reference).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindPendingForSubscription returns the most recent pending charge of a subscription.
func (r *paymentRepository) FindPendingForSubscription(ctx context.Context, tx *gorm.DB, subscriptionID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(r.db, tx).WithContext(ctx).
		Clauses(forUpdate).
		Where("subscription_id = ? AND type = ? AND status = ?", subscriptionID, models.PaymentTypeSubscription, models.PaymentPending).
		Order("id DESC").
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindPendingForBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(r.db, tx).WithContext(ctx).
		Clauses(forUpdate).
		Where("booking_id = ? AND type = ? AND status = ?", bookingID, models.PaymentTypeBooking, models.PaymentPending).
		Order("id DESC").
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindAll(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumCompleted totals settled charges of a type, optionally from since onward.
// Charges that were later refunded still count; their refund records offset them.
func (r *paymentRepository) SumCompleted(ctx context.Context, kind models.PaymentType, since *time.Time) (float64, error) {
	var total float64
	q := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ? AND status IN ?", kind, []models.PaymentStatus{models.PaymentCompleted, models.PaymentRefunded})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err := q.Scan(&total).Error
	return total, err
}

func (r *paymentRepository) CountByStatus(ctx context.Context) (map[models.PaymentStatus]int64, error) {
	var rows []struct {
		Status models.PaymentStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.PaymentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
