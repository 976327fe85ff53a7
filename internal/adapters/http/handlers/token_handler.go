package handlers

import (
	"strconv"
	"time"

	"parkslot/internal/core/domain"
	"parkslot/internal/core/services"
	"parkslot/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TokenHandler handles token budget endpoints
type TokenHandler struct {
	tokenService *services.TokenService
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
	}
}

// TokenSpendInput represents a spend or refund request
type TokenSpendInput struct {
	Tokens      int    `json:"tokens"`
	Description string `json:"description"`
	SessionID   string `json:"sessionId"`
}

// GetBalance handles fetching a user's token balance
// @Summary Get token balance
// @Description Returns the user's weekly token balance and the days until the next refill, resetting the balance if the stored week has expired
// @Tags Tokens
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tokens/{userId}/balance [get]
func (h *TokenHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.tokenService.GetUserBalance(c.Context(), c.Params("userId"))
	if err != nil {
		if err == domain.ErrInvalidUserID {
			return response.BadRequest(c, "User ID is required")
		}
		return response.InternalServerError(c, "Failed to fetch token balance")
	}
	return response.Success(c, fiber.Map{
		"balance":          balance,
		"daysUntilRefresh": h.tokenService.DaysUntilRefresh(time.Now()),
	})
}

// GetTransactions handles fetching a user's recent token transactions
// @Summary Get token transactions
// @Description Returns the user's most recent token transactions, newest first
// @Tags Tokens
// @Produce json
// @Param userId path string true "User ID"
// @Param limit query int false "Max entries (default 20)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tokens/{userId}/transactions [get]
func (h *TokenHandler) GetTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	txns, err := h.tokenService.GetTransactions(c.Context(), c.Params("userId"), limit)
	if err != nil {
		if err == domain.ErrInvalidUserID {
			return response.BadRequest(c, "User ID is required")
		}
		return response.InternalServerError(c, "Failed to fetch transactions")
	}
	return response.Success(c, txns)
}

// SpendTokens handles debiting tokens from a user's balance
// @Summary Spend tokens
// @Description Debits tokens; fails without mutation when the balance cannot cover the cost
// @Tags Tokens
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body TokenSpendInput true "Spend request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tokens/{userId}/spend [post]
func (h *TokenHandler) SpendTokens(c *fiber.Ctx) error {
	var input TokenSpendInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	spent, balance, err := h.tokenService.SpendTokens(
		c.Context(), c.Params("userId"), input.Tokens, input.Description, input.SessionID)
	if err != nil {
		switch err {
		case domain.ErrInvalidUserID:
			return response.BadRequest(c, "User ID is required")
		case domain.ErrInvalidTokenAmount:
			return response.BadRequest(c, "Token amount must be a positive number")
		default:
			return response.InternalServerError(c, "Failed to spend tokens")
		}
	}
	if !spent {
		return response.BadRequest(c, "Insufficient token balance")
	}
	return response.Success(c, fiber.Map{
		"spent":   true,
		"balance": balance,
	})
}

// RefundTokens handles crediting tokens back to a user's balance
// @Summary Refund tokens
// @Description Credits tokens back, clamped at the weekly total
// @Tags Tokens
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body TokenSpendInput true "Refund request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tokens/{userId}/refund [post]
func (h *TokenHandler) RefundTokens(c *fiber.Ctx) error {
	var input TokenSpendInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	balance, err := h.tokenService.RefundTokens(
		c.Context(), c.Params("userId"), input.Tokens, input.Description, input.SessionID)
	if err != nil {
		switch err {
		case domain.ErrInvalidUserID:
			return response.BadRequest(c, "User ID is required")
		case domain.ErrInvalidTokenAmount:
			return response.BadRequest(c, "Token amount must be a positive number")
		default:
			return response.InternalServerError(c, "Failed to refund tokens")
		}
	}
	return response.Success(c, fiber.Map{"balance": balance})
}

// GetQuote handles pricing a parking session in tokens
// @Summary Quote session cost
// @Description Returns the token cost for a parking duration, with optional priority surcharge
// @Tags Tokens
// @Produce json
// @Param hours query int true "Parking duration in hours (3, 6 or 9)"
// @Param priority query bool false "Priority parking"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tokens/quote [get]
func (h *TokenHandler) GetQuote(c *fiber.Ctx) error {
	hours, err := strconv.Atoi(c.Query("hours"))
	if err != nil || hours <= 0 {
		return response.BadRequest(c, "hours must be a positive number")
	}
	priority := c.QueryBool("priority", false)

	tokens := h.tokenService.CalculateTotalTokens(hours, priority)
	return response.Success(c, fiber.Map{
		"hours":    hours,
		"priority": priority,
		"tokens":   tokens,
	})
}
