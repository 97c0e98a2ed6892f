package repository

import (
	"context"

	"github.com/Eursukkul/coaching-service/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByClient(ctx context.Context, clientID string, status *models.BookingStatus) ([]models.Booking, error)
	FindAll(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(r.db, tx).WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(r.db, tx).WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate acquires a row-level lock on the booking within the given transaction.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := conn(r.db, tx).WithContext(ctx).Clauses(forUpdate).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByClient(ctx context.Context, clientID string, status *models.BookingStatus) ([]models.Booking, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("client_id = ?", clientID), status)
}

func (r *bookingRepository) FindAll(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	return r.find(ctx, r.db.WithContext(ctx), status)
}

func (r *bookingRepository) find(_ context.Context, q *gorm.DB, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	if status != nil {
		q = q.Where("booking_status = ?", *status)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
