package repositories

import (
	"context"
	"time"

	"parkslot/internal/adapters/persistence/models"
)

// BookingRepository defines booking repository interface
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetAll(ctx context.Context) ([]models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByDate(ctx context.Context, date string) (*models.Booking, error)
	GetByEmployee(ctx context.Context, employeeName string) ([]models.Booking, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// TokenRepository defines token balance repository interface
type TokenRepository interface {
	GetBalance(ctx context.Context, userID string) (*models.TokenBalance, error)
	SaveBalance(ctx context.Context, balance *models.TokenBalance, txn *models.TokenTransaction) error
	GetTransactions(ctx context.Context, userID string, limit int) ([]models.TokenTransaction, error)
	GetExpiredBalances(ctx context.Context, weekStart time.Time) ([]models.TokenBalance, error)
}
