package repositories

import (
	"context"
	"errors"
	"time"

	"parkslot/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// transactionRingSize bounds the audit log: only the newest entries are kept
const transactionRingSize = 100

// tokenRepository handles token balance database operations
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// GetBalance returns the stored balance for a user, or nil if none exists yet
func (r *tokenRepository) GetBalance(ctx context.Context, userID string) (*models.TokenBalance, error) {
	var balance models.TokenBalance
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// SaveBalance upserts a balance and appends its audit transaction in one
// database transaction, so a spend is never persisted without its log entry.
func (r *tokenRepository) SaveBalance(ctx context.Context, balance *models.TokenBalance, txn *models.TokenTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Upsert: the user id is a preset primary key, so a plain Save
		// would never insert the first row for a new user
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(balance).Error; err != nil {
			return err
		}
		if txn == nil {
			return nil
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return trimTransactions(tx)
	})
}

// trimTransactions keeps the ring bounded to the newest entries
func trimTransactions(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.TokenTransaction{}).Count(&count).Error; err != nil {
		return err
	}
	if count <= transactionRingSize {
		return nil
	}
	return tx.Exec(
		"DELETE FROM token_transactions ORDER BY timestamp ASC, id ASC LIMIT ?",
		count-transactionRingSize,
	).Error
}

// GetTransactions returns a user's most recent transactions, newest first
func (r *tokenRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]models.TokenTransaction, error) {
	var txns []models.TokenTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// GetExpiredBalances returns balances whose stored week predates weekStart
func (r *tokenRepository) GetExpiredBalances(ctx context.Context, weekStart time.Time) ([]models.TokenBalance, error) {
	var balances []models.TokenBalance
	err := r.db.WithContext(ctx).
		Where("week_start_date < ?", weekStart).
		Find(&balances).Error
	return balances, err
}
