package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error
	Save(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error
	FindByID(ctx context.Context, id uint) (*models.Subscription, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Subscription, error)
	FindByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	FindAll(ctx context.Context) ([]models.Subscription, error)
	LockByUserAndCategory(ctx context.Context, tx *gorm.DB, userID string, category models.Category) ([]models.Subscription, error)
	FindActiveEndedBy(ctx context.Context, now time.Time) ([]models.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	return conn(r.db, tx).WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Save(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	return conn(r.db, tx).WithContext(ctx).Save(sub).Error
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByIDForUpdate acquires a row-level lock on the subscription within the given transaction.
func (r *subscriptionRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := conn(r.db, tx).WithContext(ctx).Clauses(forUpdate).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) FindAll(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// LockByUserAndCategory locks every subscription the user holds in the
// category, serializing purchases and confirmations for that pair.
func (r *subscriptionRepository) LockByUserAndCategory(ctx context.Context, tx *gorm.DB, userID string, category models.Category) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := conn(r.db, tx).WithContext(ctx).
		Clauses(forUpdate).
		Where("user_id = ? AND category = ?", userID, category).
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FindActiveEndedBy returns subscriptions still marked active whose window closed at or before now.
func (r *subscriptionRepository) FindActiveEndedBy(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date <= ?", models.SubscriptionActive, now).
		Order("end_date ASC, id ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
