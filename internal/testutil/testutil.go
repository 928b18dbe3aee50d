package testutil

import (
	"time"

	"cashbackhelp/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FreeLimits are the default free-tier caps used across tests
var FreeLimits = domain.Limits{MaxBanks: 4, MaxCategoriesPerBank: 4}

// NewTestUser creates a free-tier test user
func NewTestUser(telegramID int64) *domain.User {
	return &domain.User{
		TelegramID:       telegramID,
		SubscriptionType: domain.SubscriptionFree,
		CreatedAt:        time.Now(),
	}
}

// NewTestProUser creates a pro user whose subscription expires at expiry
func NewTestProUser(telegramID int64, expiry time.Time) *domain.User {
	return &domain.User{
		TelegramID:         telegramID,
		SubscriptionType:   domain.SubscriptionPro,
		SubscriptionExpiry: &expiry,
		CreatedAt:          time.Now(),
	}
}

// NewTestBank creates a test bank
func NewTestBank(id int, code, name string) *domain.Bank {
	return &domain.Bank{
		ID:        id,
		Code:      code,
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

// NewTestCategory creates a test category
func NewTestCategory(id, bankID int, name string, mccCodes ...string) *domain.Category {
	return &domain.Category{
		ID:       id,
		BankID:   bankID,
		Name:     name,
		MCCCodes: mccCodes,
	}
}
