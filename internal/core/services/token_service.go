package services

import (
	"context"
	"log"
	"strings"
	"time"

	"parkslot/internal/adapters/persistence/models"
	"parkslot/internal/adapters/persistence/repositories"
	"parkslot/internal/config"
	"parkslot/internal/core/domain"
)

// durationTokens maps a parking duration in hours to its base token cost.
// Unknown durations cost 0.
var durationTokens = map[int]int{
	3: 1,
	6: 2,
	9: 3,
}

// TokenService handles the weekly parking token budget
type TokenService struct {
	tokenRepo         repositories.TokenRepository
	weeklyCap         int
	prioritySurcharge int
}

// NewTokenService creates a new token service
func NewTokenService(tokenRepo repositories.TokenRepository, cfg config.TokenConfig) *TokenService {
	return &TokenService{
		tokenRepo:         tokenRepo,
		weeklyCap:         cfg.WeeklyCap,
		prioritySurcharge: cfg.PrioritySurcharge,
	}
}

// GetCurrentWeekRange returns the token week containing now.
// A week runs Saturday 18:00 local time through the following Friday
// 17:59:59.999 — not an ISO week. On a Saturday the week starts that
// same day at 18:00.
func GetCurrentWeekRange(now time.Time) (time.Time, time.Time) {
	daysToSaturday := int(now.Weekday()) + 1
	if now.Weekday() == time.Saturday {
		daysToSaturday = 0
	}

	anchor := now.AddDate(0, 0, -daysToSaturday)
	start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 18, 0, 0, 0, now.Location())

	endDay := start.AddDate(0, 0, 6)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 17, 59, 59, 999*int(time.Millisecond), now.Location())

	return start, end
}

// GetUserBalance returns the user's balance, lazily resetting it to the
// weekly cap when the stored week has expired
func (s *TokenService) GetUserBalance(ctx context.Context, userID string) (*models.TokenBalance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUserID
	}

	balance, err := s.tokenRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}

	weekStart, _ := GetCurrentWeekRange(time.Now())
	if balance == nil || balance.WeekStartDate.Before(weekStart) {
		return s.refreshBalance(ctx, userID, time.Now())
	}
	return balance, nil
}

// refreshBalance resets a user to the full weekly cap and logs the refill
func (s *TokenService) refreshBalance(ctx context.Context, userID string, now time.Time) (*models.TokenBalance, error) {
	start, end := GetCurrentWeekRange(now)

	balance := &models.TokenBalance{
		UserID:        userID,
		CurrentTokens: s.weeklyCap,
		TotalTokens:   s.weeklyCap,
		WeekStartDate: start,
		WeekEndDate:   end,
	}
	txn := &models.TokenTransaction{
		UserID:      userID,
		Type:        "refill",
		Tokens:      s.weeklyCap,
		Timestamp:   now,
		Description: "Weekly token refill",
	}

	if err := s.tokenRepo.SaveBalance(ctx, balance, txn); err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	return balance, nil
}

// CanAfford reports whether the user's current balance covers a cost
func (s *TokenService) CanAfford(ctx context.Context, userID string, tokens int) (bool, error) {
	balance, err := s.GetUserBalance(ctx, userID)
	if err != nil {
		return false, err
	}
	return balance.CurrentTokens >= tokens, nil
}

// SpendTokens debits the balance. It returns false and mutates nothing
// when the balance cannot cover the cost.
func (s *TokenService) SpendTokens(ctx context.Context, userID string, tokens int, description, sessionID string) (bool, *models.TokenBalance, error) {
	if tokens <= 0 {
		return false, nil, domain.ErrInvalidTokenAmount
	}

	balance, err := s.GetUserBalance(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	if balance.CurrentTokens < tokens {
		return false, balance, nil
	}

	balance.CurrentTokens -= tokens
	txn := &models.TokenTransaction{
		UserID:      userID,
		Type:        "spend",
		Tokens:      tokens,
		Timestamp:   time.Now(),
		Description: description,
		SessionID:   sessionID,
	}
	if err := s.tokenRepo.SaveBalance(ctx, balance, txn); err != nil {
		return false, nil, domain.ErrStoreUnavailable
	}

	log.Printf("💸 Tokens spent: %d by %s (%d left)", tokens, userID, balance.CurrentTokens)
	return true, balance, nil
}

// RefundTokens credits the balance, clamped at the weekly total
func (s *TokenService) RefundTokens(ctx context.Context, userID string, tokens int, description, sessionID string) (*models.TokenBalance, error) {
	if tokens <= 0 {
		return nil, domain.ErrInvalidTokenAmount
	}

	balance, err := s.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance.CurrentTokens += tokens
	if balance.CurrentTokens > balance.TotalTokens {
		balance.CurrentTokens = balance.TotalTokens
	}

	txn := &models.TokenTransaction{
		UserID:      userID,
		Type:        "refill",
		Tokens:      tokens,
		Timestamp:   time.Now(),
		Description: description,
		SessionID:   sessionID,
	}
	if err := s.tokenRepo.SaveBalance(ctx, balance, txn); err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	return balance, nil
}

// GetTransactions returns the user's recent transactions, newest first
func (s *TokenService) GetTransactions(ctx context.Context, userID string, limit int) ([]models.TokenTransaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.tokenRepo.GetTransactions(ctx, userID, limit)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	return txns, nil
}

// TokensForDuration returns the base token cost for a parking duration
func (s *TokenService) TokensForDuration(hours int) int {
	return durationTokens[hours]
}

// CalculateTotalTokens returns the token cost of a parking session:
// the duration's base cost plus the priority surcharge if requested
func (s *TokenService) CalculateTotalTokens(hours int, isPriority bool) int {
	total := s.TokensForDuration(hours)
	if isPriority {
		total += s.prioritySurcharge
	}
	return total
}

// DaysUntilRefresh returns how many days remain until the next weekly refill
func (s *TokenService) DaysUntilRefresh(now time.Time) int {
	_, end := GetCurrentWeekRange(now)
	diff := end.Sub(now)
	days := int(diff.Hours() / 24)
	if diff > time.Duration(days)*24*time.Hour {
		days++
	}
	return days
}
