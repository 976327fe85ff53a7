package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"parkslot/internal/adapters/persistence/models"
	"parkslot/internal/config"
	"parkslot/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenRepo is an in-memory TokenRepository for handler tests
type fakeTokenRepo struct {
	balances map[string]models.TokenBalance
	txns     []models.TokenTransaction
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{balances: make(map[string]models.TokenBalance)}
}

func (f *fakeTokenRepo) GetBalance(ctx context.Context, userID string) (*models.TokenBalance, error) {
	if b, ok := f.balances[userID]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeTokenRepo) SaveBalance(ctx context.Context, balance *models.TokenBalance, txn *models.TokenTransaction) error {
	f.balances[balance.UserID] = *balance
	if txn != nil {
		f.txns = append(f.txns, *txn)
	}
	return nil
}

func (f *fakeTokenRepo) GetTransactions(ctx context.Context, userID string, limit int) ([]models.TokenTransaction, error) {
	var out []models.TokenTransaction
	for i := len(f.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if f.txns[i].UserID == userID {
			out = append(out, f.txns[i])
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) GetExpiredBalances(ctx context.Context, weekStart time.Time) ([]models.TokenBalance, error) {
	var out []models.TokenBalance
	for _, b := range f.balances {
		if b.WeekStartDate.Before(weekStart) {
			out = append(out, b)
		}
	}
	return out, nil
}

func newTokenTestApp(repo *fakeTokenRepo) *fiber.App {
	app := fiber.New()
	handler := NewTokenHandler(services.NewTokenService(repo, config.TokenConfig{
		WeeklyCap: 10, PrioritySurcharge: 5,
	}))

	tokens := app.Group("/api/v1/tokens")
	tokens.Get("/quote", handler.GetQuote)
	tokens.Get("/:userId/balance", handler.GetBalance)
	tokens.Get("/:userId/transactions", handler.GetTransactions)
	tokens.Post("/:userId/spend", handler.SpendTokens)
	tokens.Post("/:userId/refund", handler.RefundTokens)
	return app
}

func TestGetTokenBalanceEndpoint(t *testing.T) {
	app := newTokenTestApp(newFakeTokenRepo())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tokens/user-1/balance", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])

	data := envelope["data"].(map[string]interface{})
	balance := data["balance"].(map[string]interface{})
	assert.Equal(t, float64(10), balance["currentTokens"])
	assert.Equal(t, float64(10), balance["totalTokens"])

	days := data["daysUntilRefresh"].(float64)
	assert.GreaterOrEqual(t, days, float64(1))
	assert.LessOrEqual(t, days, float64(7))
}

func TestSpendTokensEndpoint(t *testing.T) {
	app := newTokenTestApp(newFakeTokenRepo())

	resp, err := app.Test(jsonRequest("POST", "/api/v1/tokens/user-1/spend", fiber.Map{
		"tokens": 3, "description": "9h parking", "sessionId": "session-1",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, data["spent"])

	balance := data["balance"].(map[string]interface{})
	assert.Equal(t, float64(7), balance["currentTokens"])
}

func TestSpendTokensEndpointInsufficientBalance(t *testing.T) {
	app := newTokenTestApp(newFakeTokenRepo())

	resp, err := app.Test(jsonRequest("POST", "/api/v1/tokens/user-1/spend", fiber.Map{
		"tokens": 11, "description": "too much",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Insufficient token balance", envelope["error"])
}

func TestSpendTokensEndpointRejectsNonPositiveAmount(t *testing.T) {
	app := newTokenTestApp(newFakeTokenRepo())

	resp, err := app.Test(jsonRequest("POST", "/api/v1/tokens/user-1/spend", fiber.Map{
		"tokens": 0,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "Token amount must be a positive number", envelope["error"])
}

func TestRefundTokensEndpointClampsAtTotal(t *testing.T) {
	app := newTokenTestApp(newFakeTokenRepo())

	resp, err := app.Test(jsonRequest("POST", "/api/v1/tokens/user-1/spend", fiber.Map{
		"tokens": 2, "description": "6h parking", "sessionId": "session-1",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/api/v1/tokens/user-1/refund", fiber.Map{
		"tokens": 5, "description": "session cancelled", "sessionId": "session-1",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	balance := data["balance"].(map[string]interface{})
	assert.Equal(t, float64(10), balance["currentTokens"])
}

func TestTokenQuoteEndpoint(t *testing.T) {
	app := newTokenTestApp(newFakeTokenRepo())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tokens/quote?hours=6&priority=true", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["tokens"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/tokens/quote?hours=abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetTokenTransactionsEndpoint(t *testing.T) {
	repo := newFakeTokenRepo()
	app := newTokenTestApp(repo)

	resp, err := app.Test(jsonRequest("POST", "/api/v1/tokens/user-1/spend", fiber.Map{
		"tokens": 1, "description": "3h parking",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/tokens/user-1/transactions?limit=10", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])

	// The refill that seeded the balance plus the spend, newest first
	txns := envelope["data"].([]interface{})
	require.Len(t, txns, 2)
	first := txns[0].(map[string]interface{})
	assert.Equal(t, "spend", first["type"])
	assert.Equal(t, float64(1), first["tokens"])
}
