package services

import (
	"context"
	"log"
	"strings"
	"time"

	"parkslot/internal/adapters/persistence/models"
	"parkslot/internal/adapters/persistence/repositories"
	"parkslot/internal/core/domain"

	"github.com/google/uuid"
)

// BookingService handles parking slot admission control
type BookingService struct {
	bookingRepo repositories.BookingRepository
}

// NewBookingService creates a new booking service
func NewBookingService(bookingRepo repositories.BookingRepository) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
	}
}

// CreateBookingInput represents a booking creation request
type CreateBookingInput struct {
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date"`
}

// CancelBookingInput represents a booking cancellation request
type CancelBookingInput struct {
	EmployeeName string `json:"employeeName"`
}

// ListBookings returns all bookings ordered by date descending
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	return bookings, nil
}

// GetBookingByDate returns the booking occupying a date, or nil if it is free.
// The date must be well-formed and today or later.
func (s *BookingService) GetBookingByDate(ctx context.Context, date string) (*models.Booking, error) {
	if _, ok := ParseBookingDate(date, time.Now()); !ok {
		return nil, domain.ErrInvalidDate
	}
	return s.bookingRepo.GetByDate(ctx, date)
}

// CreateBooking validates and persists a new booking.
// Validation order is fixed: structural input checks, then business
// policy, then conflict detection, then the write. The conflict check
// here is only a fast path for a friendly message; the unique index on
// the date column decides the race.
func (s *BookingService) CreateBooking(ctx context.Context, input *CreateBookingInput) (*models.Booking, error) {
	// 1. Validate employee name
	name := strings.TrimSpace(input.EmployeeName)
	if name == "" {
		return nil, domain.ErrEmployeeNameRequired
	}
	if !IsValidEmployeeName(name) {
		return nil, domain.ErrInvalidEmployeeName
	}

	// 2. Validate date (well-formed, real calendar day, today or later)
	now := time.Now()
	date, ok := ParseBookingDate(input.Date, now)
	if !ok {
		return nil, domain.ErrInvalidDate
	}

	// 3. Business days only
	if !IsBusinessDay(date) {
		return nil, domain.ErrNotBusinessDay
	}

	// 4. Check the date is free
	existing, err := s.bookingRepo.GetByDate(ctx, input.Date)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if existing != nil {
		return nil, domain.ErrDateAlreadyBooked
	}

	// 5. Cooldown: no other booking by this employee within 7 days
	employeeBookings, err := s.bookingRepo.GetByEmployee(ctx, name)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	dates := make([]string, 0, len(employeeBookings))
	for _, b := range employeeBookings {
		dates = append(dates, b.Date)
	}
	if WithinCooldown(dates, date) {
		return nil, domain.ErrCooldownActive
	}

	// 6. Persist; a concurrent insert for the same date loses here
	booking := &models.Booking{
		ID:           uuid.NewString(),
		EmployeeName: name,
		Date:         input.Date,
		CreatedAt:    now,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if err == domain.ErrDateAlreadyBooked {
			return nil, err
		}
		return nil, domain.ErrStoreUnavailable
	}

	log.Printf("✅ Booking created: %s (%s on %s)", booking.ID, name, booking.Date)
	return booking, nil
}

// CancelBooking removes a future booking owned by the requesting employee
func (s *BookingService) CancelBooking(ctx context.Context, id string, input *CancelBookingInput) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrBookingIDRequired
	}
	requester := strings.TrimSpace(input.EmployeeName)
	if requester == "" {
		return domain.ErrEmployeeNameRequired
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrStoreUnavailable
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}

	// Ownership: case-insensitive name match
	if !strings.EqualFold(booking.EmployeeName, requester) {
		return domain.ErrNotBookingOwner
	}

	// Today's and past bookings are history, not cancellable
	now := time.Now()
	date, err := time.ParseInLocation(DateLayout, booking.Date, now.Location())
	if err != nil || !date.After(LocalMidnight(now)) {
		return domain.ErrCancelTooLate
	}

	rows, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		return domain.ErrStoreUnavailable
	}
	if rows == 0 {
		// Lost a race with a concurrent cancellation; must not report success
		return domain.ErrStoreUnavailable
	}

	log.Printf("🗑️ Booking cancelled: %s (%s on %s)", booking.ID, booking.EmployeeName, booking.Date)
	return nil
}
