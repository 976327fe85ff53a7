package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"parkslot/internal/adapters/persistence/models"
	"parkslot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingRepo is an in-memory BookingRepository for service tests
type fakeBookingRepo struct {
	byID       map[string]models.Booking
	createErr  error
	deleteRows *int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]models.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, b := range f.byID {
		if b.Date == booking.Date {
			return domain.ErrDateAlreadyBooked
		}
	}
	f.byID[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) GetAll(ctx context.Context) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0, len(f.byID))
	for _, b := range f.byID {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Date > bookings[j].Date })
	return bookings, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := f.byID[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByDate(ctx context.Context, date string) (*models.Booking, error) {
	for _, b := range f.byID {
		if b.Date == date {
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByEmployee(ctx context.Context, employeeName string) ([]models.Booking, error) {
	var bookings []models.Booking
	for _, b := range f.byID {
		if b.EmployeeName == employeeName {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id string) (int64, error) {
	if f.deleteRows != nil {
		return *f.deleteRows, nil
	}
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

// nextWeekday returns the first date on the wanted weekday at least
// minDaysAhead days in the future, formatted for the wire
func nextWeekday(weekday time.Weekday, minDaysAhead int) string {
	d := time.Now().AddDate(0, 0, minDaysAhead)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(DateLayout)
}

func TestCreateBookingThenGetByDate(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())
	date := nextWeekday(time.Monday, 1)

	created, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith",
		Date:         date,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Alice Smith", created.EmployeeName)
	assert.Equal(t, date, created.Date)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := svc.GetBookingByDate(context.Background(), date)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateBookingTrimsEmployeeName(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())

	created, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "  Bob Jones  ",
		Date:         nextWeekday(time.Tuesday, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", created.EmployeeName)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())
	monday := nextWeekday(time.Monday, 1)

	tests := []struct {
		name    string
		input   CreateBookingInput
		wantErr error
	}{
		{"blank name", CreateBookingInput{EmployeeName: "   ", Date: monday}, domain.ErrEmployeeNameRequired},
		{"name too short", CreateBookingInput{EmployeeName: "A", Date: monday}, domain.ErrInvalidEmployeeName},
		{"name bad chars", CreateBookingInput{EmployeeName: "Bob!", Date: monday}, domain.ErrInvalidEmployeeName},
		{"past date", CreateBookingInput{EmployeeName: "Alice Smith", Date: "2020-01-01"}, domain.ErrInvalidDate},
		{"malformed date", CreateBookingInput{EmployeeName: "Alice Smith", Date: "01/01/2030"}, domain.ErrInvalidDate},
		{"saturday", CreateBookingInput{EmployeeName: "Alice Smith", Date: nextWeekday(time.Saturday, 1)}, domain.ErrNotBusinessDay},
		{"sunday", CreateBookingInput{EmployeeName: "Alice Smith", Date: nextWeekday(time.Sunday, 1)}, domain.ErrNotBusinessDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), &tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBookingConflict(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())
	date := nextWeekday(time.Wednesday, 1)

	_, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: date,
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Bob Jones", Date: date,
	})
	assert.ErrorIs(t, err, domain.ErrDateAlreadyBooked)
}

func TestCreateBookingLosesInsertRace(t *testing.T) {
	// The pre-check sees a free date but the store-level unique
	// constraint rejects the insert (a concurrent writer won)
	repo := newFakeBookingRepo()
	repo.createErr = domain.ErrDateAlreadyBooked
	svc := NewBookingService(repo)

	_, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: nextWeekday(time.Thursday, 1),
	})
	assert.ErrorIs(t, err, domain.ErrDateAlreadyBooked)
}

func TestCreateBookingCooldown(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())
	monday := nextWeekday(time.Monday, 14)

	first, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: monday,
	})
	require.NoError(t, err)

	base, _ := time.ParseInLocation(DateLayout, first.Date, time.Local)

	// Monday a week later: 7 days apart, still inside the cooldown
	within := base.AddDate(0, 0, 7).Format(DateLayout)
	_, err = svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: within,
	})
	assert.ErrorIs(t, err, domain.ErrCooldownActive)

	// Tuesday eight days later is allowed
	outside := base.AddDate(0, 0, 8).Format(DateLayout)
	_, err = svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: outside,
	})
	assert.NoError(t, err)

	// A different employee is unaffected by Alice's cooldown
	otherDate := base.AddDate(0, 0, 1).Format(DateLayout)
	_, err = svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Bob Jones", Date: otherDate,
	})
	assert.NoError(t, err)
}

func TestCreateBookingCooldownMatchesNameExactly(t *testing.T) {
	// Cooldown matches the employee name case-sensitively, unlike
	// cancellation ownership
	svc := NewBookingService(newFakeBookingRepo())
	monday := nextWeekday(time.Monday, 14)

	first, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "ALICE SMITH", Date: monday,
	})
	require.NoError(t, err)

	base, _ := time.ParseInLocation(DateLayout, first.Date, time.Local)
	nextDay := base.AddDate(0, 0, 1).Format(DateLayout)

	_, err = svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: nextDay,
	})
	assert.NoError(t, err)
}

func TestListBookingsOrder(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())

	early := nextWeekday(time.Monday, 14)
	late := nextWeekday(time.Friday, 28)
	for _, b := range []CreateBookingInput{
		{EmployeeName: "Alice Smith", Date: early},
		{EmployeeName: "Bob Jones", Date: late},
	} {
		_, err := svc.CreateBooking(context.Background(), &b)
		require.NoError(t, err)
	}

	bookings, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, late, bookings[0].Date)
	assert.Equal(t, early, bookings[1].Date)
}

func TestGetBookingByDateValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())

	_, err := svc.GetBookingByDate(context.Background(), "2020-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.GetBookingByDate(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	// A free future date is not an error, just no booking
	booking, err := svc.GetBookingByDate(context.Background(), nextWeekday(time.Friday, 1))
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestCancelBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo)

	created, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: nextWeekday(time.Monday, 1),
	})
	require.NoError(t, err)

	// Wrong person
	err = svc.CancelBooking(context.Background(), created.ID, &CancelBookingInput{EmployeeName: "Bob Jones"})
	assert.ErrorIs(t, err, domain.ErrNotBookingOwner)

	// Owner, case-insensitive and trimmed
	err = svc.CancelBooking(context.Background(), created.ID, &CancelBookingInput{EmployeeName: "  alice smith "})
	require.NoError(t, err)

	bookings, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestCancelBookingValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo())

	err := svc.CancelBooking(context.Background(), "  ", &CancelBookingInput{EmployeeName: "Alice Smith"})
	assert.ErrorIs(t, err, domain.ErrBookingIDRequired)

	err = svc.CancelBooking(context.Background(), "some-id", &CancelBookingInput{EmployeeName: " "})
	assert.ErrorIs(t, err, domain.ErrEmployeeNameRequired)

	err = svc.CancelBooking(context.Background(), "unknown-id", &CancelBookingInput{EmployeeName: "Alice Smith"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestCancelBookingTodayOrPast(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo)

	today := time.Now().Format(DateLayout)
	repo.byID["today-id"] = models.Booking{
		ID: "today-id", EmployeeName: "Alice Smith", Date: today, CreatedAt: time.Now(),
	}
	repo.byID["past-id"] = models.Booking{
		ID: "past-id", EmployeeName: "Alice Smith", Date: "2020-06-01", CreatedAt: time.Now(),
	}

	err := svc.CancelBooking(context.Background(), "today-id", &CancelBookingInput{EmployeeName: "Alice Smith"})
	assert.ErrorIs(t, err, domain.ErrCancelTooLate)

	err = svc.CancelBooking(context.Background(), "past-id", &CancelBookingInput{EmployeeName: "Alice Smith"})
	assert.ErrorIs(t, err, domain.ErrCancelTooLate)
}

func TestCancelBookingLosesDeleteRace(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo)

	created, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		EmployeeName: "Alice Smith", Date: nextWeekday(time.Tuesday, 1),
	})
	require.NoError(t, err)

	// Checks pass but the delete affects zero rows: a concurrent
	// cancellation got there first, and that must not look like success
	var zero int64
	repo.deleteRows = &zero

	err = svc.CancelBooking(context.Background(), created.ID, &CancelBookingInput{EmployeeName: "Alice Smith"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
