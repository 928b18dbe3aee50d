package testutil

import (
	"time"

	"cashbackhelp/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByTelegramID(telegramID int64) (*domain.User, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(telegramID int64, username, firstName string) (*domain.User, error) {
	args := m.Called(telegramID, username, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSubscription(telegramID int64, subType domain.SubscriptionType, expiry *time.Time) error {
	args := m.Called(telegramID, subType, expiry)
	return args.Error(0)
}

// MockBankRepository is a mock for repository.BankRepository
type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) GetActive() ([]domain.Bank, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bank), args.Error(1)
}

func (m *MockBankRepository) GetAll() ([]domain.Bank, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bank), args.Error(1)
}

func (m *MockBankRepository) GetByCode(code string) (*domain.Bank, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankRepository) GetByID(id int) (*domain.Bank, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

// MockCategoryRepository is a mock for repository.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByBank(bankID int) ([]domain.Category, error) {
	args := m.Called(bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id int) (*domain.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SearchByName(term string, bankID int) ([]domain.Category, error) {
	args := m.Called(term, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByMCC(code string, bankID int) ([]domain.Category, error) {
	args := m.Called(code, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// MockCashbackRepository is a mock for repository.CashbackRepository
type MockCashbackRepository struct {
	mock.Mock
}

func (m *MockCashbackRepository) Upsert(userID int64, bankID, categoryID, rate int) error {
	args := m.Called(userID, bankID, categoryID, rate)
	return args.Error(0)
}

func (m *MockCashbackRepository) ListByUser(userID int64) ([]domain.CashbackSetting, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashbackSetting), args.Error(1)
}

func (m *MockCashbackRepository) CountBanks(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCashbackRepository) CountByBank(userID int64, bankID int) (int, error) {
	args := m.Called(userID, bankID)
	return args.Int(0), args.Error(1)
}

func (m *MockCashbackRepository) HasBank(userID int64, bankID int) (bool, error) {
	args := m.Called(userID, bankID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCashbackRepository) Remove(userID int64, bankID, categoryID int) error {
	args := m.Called(userID, bankID, categoryID)
	return args.Error(0)
}

// MockFavoriteRepository is a mock for repository.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) ListByUser(userID int64) ([]domain.Favorite, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) CategoryIDsByBank(userID int64, bankID int) ([]int, error) {
	args := m.Called(userID, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockFavoriteRepository) Exists(userID int64, bankID, categoryID int) (bool, error) {
	args := m.Called(userID, bankID, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Add(userID int64, bankID, categoryID int, rate *float64) error {
	args := m.Called(userID, bankID, categoryID, rate)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(userID int64, bankID, categoryID int) error {
	args := m.Called(userID, bankID, categoryID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) CountBanks(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockFavoriteRepository) CountByBank(userID int64, bankID int) (int, error) {
	args := m.Called(userID, bankID)
	return args.Int(0), args.Error(1)
}

func (m *MockFavoriteRepository) HasBank(userID int64, bankID int) (bool, error) {
	args := m.Called(userID, bankID)
	return args.Bool(0), args.Error(1)
}

// MockServiceSettingRepository is a mock for repository.ServiceSettingRepository
type MockServiceSettingRepository struct {
	mock.Mock
}

func (m *MockServiceSettingRepository) FindGlobal(service domain.ServiceType) (*domain.ServiceSetting, error) {
	args := m.Called(service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceSetting), args.Error(1)
}

func (m *MockServiceSettingRepository) FindUser(userID int64, service domain.ServiceType) (*domain.ServiceSetting, error) {
	args := m.Called(userID, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceSetting), args.Error(1)
}

func (m *MockServiceSettingRepository) UpsertGlobal(service domain.ServiceType, enabled bool, note string) error {
	args := m.Called(service, enabled, note)
	return args.Error(0)
}

func (m *MockServiceSettingRepository) UpsertUser(userID int64, service domain.ServiceType, enabled bool, note string) error {
	args := m.Called(userID, service, enabled, note)
	return args.Error(0)
}

func (m *MockServiceSettingRepository) RemoveUser(userID int64, service domain.ServiceType) error {
	args := m.Called(userID, service)
	return args.Error(0)
}

func (m *MockServiceSettingRepository) ListAll() ([]domain.ServiceSetting, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceSetting), args.Error(1)
}

func (m *MockServiceSettingRepository) ListUser(userID int64) ([]domain.ServiceSetting, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceSetting), args.Error(1)
}

// MockSessionRepository is a mock for repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSessionRepository) Set(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockPaymentRepository is a mock for repository.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(p *domain.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateStatus(payload string, status domain.PaymentStatus) error {
	args := m.Called(payload, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByPayload(payload string) (*domain.Payment, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
