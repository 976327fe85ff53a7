package repositories

import (
	"context"
	"errors"

	"parkslot/internal/adapters/persistence/models"
	"parkslot/internal/core/domain"

	"gorm.io/gorm"
)

// bookingRepository handles booking database operations
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create inserts a new booking. The unique index on date closes the
// race window between the service-level conflict check and the insert:
// a concurrent duplicate comes back as ErrDateAlreadyBooked.
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	err := r.db.WithContext(ctx).Create(booking).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDateAlreadyBooked
	}
	return err
}

// GetAll returns all bookings ordered by date descending
func (r *bookingRepository) GetAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Order("date DESC").Find(&bookings).Error
	return bookings, err
}

// GetByID returns a booking by ID, or nil if none exists
func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByDate returns the booking for a date, or nil if the date is free
func (r *bookingRepository) GetByDate(ctx context.Context, date string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByEmployee returns all bookings for an employee (exact name match)
func (r *bookingRepository) GetByEmployee(ctx context.Context, employeeName string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("employee_name = ?", employeeName).
		Order("date DESC").
		Find(&bookings).Error
	return bookings, err
}

// Delete removes a booking by ID and reports how many rows went away.
// Zero rows after a successful lookup means a concurrent cancellation won.
func (r *bookingRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Booking{})
	return result.RowsAffected, result.Error
}
