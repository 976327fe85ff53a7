package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the weekly token refill sweep.
// The lazy reset in GetUserBalance stays authoritative; this job only
// keeps stored balances from going stale between reads.
type CronService struct {
	cron         *cron.Cron
	tokenService *TokenService
}

// NewCronService creates a new cron service
func NewCronService(tokenService *TokenService) *CronService {
	return &CronService{
		cron:         cron.New(),
		tokenService: tokenService,
	}
}

// Start schedules the refill sweep for Saturday 18:00 local time,
// the moment a new token week begins
func (s *CronService) Start() {
	s.cron.AddFunc("0 18 * * 6", s.refillExpiredBalances)
	s.cron.Start()
	log.Println("🚀 CronService started (weekly token refill sweep)")
}

// Stop stops the cron scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 CronService stopped")
}

// refillExpiredBalances resets every balance whose stored week has ended
func (s *CronService) refillExpiredBalances() {
	ctx := context.Background()
	now := time.Now()
	weekStart, _ := GetCurrentWeekRange(now)

	balances, err := s.tokenService.tokenRepo.GetExpiredBalances(ctx, weekStart)
	if err != nil {
		log.Printf("❌ Refill sweep query error: %v", err)
		return
	}

	refilled := 0
	for _, balance := range balances {
		if _, err := s.tokenService.refreshBalance(ctx, balance.UserID, now); err != nil {
			log.Printf("❌ Refill sweep error for user %s: %v", balance.UserID, err)
			continue
		}
		refilled++
	}

	if refilled > 0 {
		log.Printf("🔄 Weekly refill sweep reset %d token balances", refilled)
	}
}
