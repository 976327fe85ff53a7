package handlers

import (
	"parkslot/internal/core/domain"
	"parkslot/internal/core/services"
	"parkslot/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// ListBookings handles listing all bookings
// @Summary List bookings
// @Description Returns all bookings ordered by date descending
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	bookings, err := h.bookingService.ListBookings(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch bookings")
	}
	return response.Success(c, bookings)
}

// GetBookingByDate handles fetching the booking for one date
// @Summary Get booking by date
// @Description Returns the booking occupying a date, or null if the date is free
// @Tags Bookings
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD, today or later)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bookings/{date} [get]
func (h *BookingHandler) GetBookingByDate(c *fiber.Ctx) error {
	booking, err := h.bookingService.GetBookingByDate(c.Context(), c.Params("date"))
	if err != nil {
		if err == domain.ErrInvalidDate {
			return response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD and date must be today or in the future")
		}
		return response.InternalServerError(c, "Failed to fetch booking")
	}
	// data is null when the date is free
	if booking == nil {
		return response.SuccessNullable(c, nil)
	}
	return response.Success(c, booking)
}

// CreateBooking handles booking creation
// @Summary Create booking
// @Description Books the parking slot for a business day
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body services.CreateBookingInput true "Booking request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var input services.CreateBookingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	booking, err := h.bookingService.CreateBooking(c.Context(), &input)
	if err != nil {
		switch err {
		case domain.ErrEmployeeNameRequired:
			return response.BadRequest(c, "Employee name is required")
		case domain.ErrInvalidEmployeeName:
			return response.BadRequest(c, "Employee name must be 2-50 characters long and contain only letters, numbers, and spaces")
		case domain.ErrInvalidDate:
			return response.BadRequest(c, "Valid date is required (YYYY-MM-DD, must be today or in the future)")
		case domain.ErrNotBusinessDay:
			return response.BadRequest(c, "Bookings are only allowed on business days (Monday-Friday)")
		case domain.ErrDateAlreadyBooked:
			return response.Conflict(c, "This date is already booked")
		case domain.ErrCooldownActive:
			return response.BadRequest(c, "You already have a booking within 7 days. Please wait before booking again.")
		default:
			return response.InternalServerError(c, "Failed to create booking")
		}
	}
	return response.Created(c, booking)
}

// CancelBooking handles booking cancellation
// @Summary Cancel booking
// @Description Cancels a future booking owned by the requesting employee
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body services.CancelBookingInput true "Requesting employee"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	var input services.CancelBookingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.bookingService.CancelBooking(c.Context(), c.Params("id"), &input)
	if err != nil {
		switch err {
		case domain.ErrBookingIDRequired:
			return response.BadRequest(c, "Booking ID is required")
		case domain.ErrEmployeeNameRequired:
			return response.BadRequest(c, "Employee name is required to cancel booking")
		case domain.ErrBookingNotFound:
			return response.NotFound(c, "Booking not found")
		case domain.ErrNotBookingOwner:
			return response.Forbidden(c, "You can only cancel your own bookings")
		case domain.ErrCancelTooLate:
			return response.BadRequest(c, "Cannot cancel bookings for today or past dates")
		default:
			return response.InternalServerError(c, "Failed to cancel booking")
		}
	}
	return response.Success(c, fiber.Map{"deleted": true})
}
