package repository

import (
	"time"

	"cashbackhelp/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	GetByTelegramID(telegramID int64) (*domain.User, error)
	GetOrCreate(telegramID int64, username, firstName string) (*domain.User, error)
	UpdateSubscription(telegramID int64, subType domain.SubscriptionType, expiry *time.Time) error
}

// BankRepository defines bank lookups
type BankRepository interface {
	GetActive() ([]domain.Bank, error)
	GetAll() ([]domain.Bank, error)
	GetByCode(code string) (*domain.Bank, error)
	GetByID(id int) (*domain.Bank, error)
}

// CategoryRepository defines cashback category lookups
type CategoryRepository interface {
	GetByBank(bankID int) ([]domain.Category, error)
	GetByID(id int) (*domain.Category, error)
	SearchByName(term string, bankID int) ([]domain.Category, error)
	FindByMCC(code string, bankID int) ([]domain.Category, error)
}

// CashbackRepository defines per-user cashback rate settings
type CashbackRepository interface {
	Upsert(userID int64, bankID, categoryID, rate int) error
	ListByUser(userID int64) ([]domain.CashbackSetting, error)
	CountBanks(userID int64) (int, error)
	CountByBank(userID int64, bankID int) (int, error)
	HasBank(userID int64, bankID int) (bool, error)
	Remove(userID int64, bankID, categoryID int) error
}

// FavoriteRepository defines favorite category storage
type FavoriteRepository interface {
	ListByUser(userID int64) ([]domain.Favorite, error)
	CategoryIDsByBank(userID int64, bankID int) ([]int, error)
	Exists(userID int64, bankID, categoryID int) (bool, error)
	Add(userID int64, bankID, categoryID int, rate *float64) error
	Remove(userID int64, bankID, categoryID int) error
	CountBanks(userID int64) (int, error)
	CountByBank(userID int64, bankID int) (int, error)
	HasBank(userID int64, bankID int) (bool, error)
}

// ServiceSettingRepository defines admin service toggle storage
type ServiceSettingRepository interface {
	FindGlobal(service domain.ServiceType) (*domain.ServiceSetting, error)
	FindUser(userID int64, service domain.ServiceType) (*domain.ServiceSetting, error)
	UpsertGlobal(service domain.ServiceType, enabled bool, note string) error
	UpsertUser(userID int64, service domain.ServiceType, enabled bool, note string) error
	RemoveUser(userID int64, service domain.ServiceType) error
	ListAll() ([]domain.ServiceSetting, error)
	ListUser(userID int64) ([]domain.ServiceSetting, error)
}

// SessionRepository stores opaque session blobs keyed by (user, chat) identity.
// Get returns (nil, nil) for an absent key.
type SessionRepository interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Delete(key string) error
}

// PaymentRepository records Pro subscription invoices
type PaymentRepository interface {
	Create(p *domain.Payment) error
	UpdateStatus(payload string, status domain.PaymentStatus) error
	GetByPayload(payload string) (*domain.Payment, error)
}
