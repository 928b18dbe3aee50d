package domain

import "time"

// Bank represents a supported bank
type Bank struct {
	ID        int
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Category is a cashback category with its MCC codes, scoped to a bank
type Category struct {
	ID       int
	BankID   int
	Name     string
	MCCCodes []string
}

// CashbackSetting is a user-configured rate for (user, bank, category)
type CashbackSetting struct {
	ID           int
	UserID       int64
	BankID       int
	CategoryID   int
	Rate         int
	BankName     string
	CategoryName string
	UpdatedAt    time.Time
}

// Favorite is a saved (user, bank, category) pair with an optional rate;
// the rate may be fractional, unlike cashback settings
type Favorite struct {
	ID           int
	UserID       int64
	BankID       int
	CategoryID   int
	Rate         *float64
	BankName     string
	CategoryName string
	MCCCodes     []string
	AddedAt      time.Time
}
