package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Booking Tables
// ============================================================

// Booking represents the bookings table.
// The unique index on Date is the single source of truth for the
// one-booking-per-date invariant; the service-level check only exists
// to give a friendly error before the insert.
// EmployeeName carries a binary collation: the cooldown lookup matches
// names exactly, so "ALICE" and "Alice" are different employees there
// (cancellation ownership compares case-insensitively in the service).
type Booking struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeName string    `gorm:"type:varchar(50) COLLATE utf8mb4_bin;not null;index" json:"employeeName"`
	Date         string    `gorm:"size:10;not null;uniqueIndex" json:"date"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

// ============================================================
// Token Budget Tables
// ============================================================

// TokenBalance represents the token_balances table (one row per user)
type TokenBalance struct {
	UserID        string    `gorm:"primaryKey;size:50" json:"userId"`
	CurrentTokens int       `gorm:"not null" json:"currentTokens"`
	TotalTokens   int       `gorm:"not null" json:"totalTokens"`
	WeekStartDate time.Time `gorm:"not null" json:"weekStartDate"`
	WeekEndDate   time.Time `gorm:"not null" json:"weekEndDate"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (TokenBalance) TableName() string {
	return "token_balances"
}

// TokenTransaction represents the token_transactions table.
// Append-only audit log, ring-trimmed to the most recent entries.
type TokenTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:50;not null;index" json:"userId"`
	Type        string    `gorm:"size:10;not null" json:"type"` // "spend" or "refill"
	Tokens      int       `gorm:"not null" json:"tokens"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	Description string    `gorm:"size:255" json:"description"`
	SessionID   string    `gorm:"size:50" json:"sessionId,omitempty"`
}

func (TokenTransaction) TableName() string {
	return "token_transactions"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Booking{},
		&TokenBalance{},
		&TokenTransaction{},
	)
}
