package service

import (
	"errors"
	"testing"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func newCashbackFixture(user *domain.User) (*CashbackService, *testutil.MockCashbackRepository) {
	users := new(testutil.MockUserRepository)
	users.On("GetByTelegramID", user.TelegramID).Return(user, nil)

	repo := new(testutil.MockCashbackRepository)
	subs := NewSubscriptionService(users, repo, nil, testutil.FreeLimits, testutil.NewTestLogger())

	return NewCashbackService(repo, subs, testutil.NewTestLogger()), repo
}

func TestCashbackService_SetRate(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("HasBank", int64(123), 1).Return(true, nil)
	repo.On("CountByBank", int64(123), 1).Return(2, nil)
	repo.On("Upsert", int64(123), 1, 5, 10).Return(nil)

	err := svc.SetRate(123, 1, 5, 10)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCashbackService_SetRate_InvalidRate(t *testing.T) {
	tests := []struct {
		name string
		rate int
	}{
		{name: "negative", rate: -1},
		{name: "above hundred", rate: 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newCashbackFixture(testutil.NewTestUser(123))

			err := svc.SetRate(123, 1, 5, tt.rate)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			repo.AssertNotCalled(t, "Upsert")
		})
	}
}

func TestCashbackService_SetRate_BankLimit(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("HasBank", int64(123), 9).Return(false, nil)
	repo.On("CountBanks", int64(123)).Return(testutil.FreeLimits.MaxBanks, nil)

	err := svc.SetRate(123, 9, 5, 10)
	assert.ErrorIs(t, err, domain.ErrBankLimit)
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	repo.AssertNotCalled(t, "Upsert")
}

func TestCashbackService_SetRate_CategoryLimit(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("HasBank", int64(123), 1).Return(true, nil)
	repo.On("CountByBank", int64(123), 1).Return(testutil.FreeLimits.MaxCategoriesPerBank, nil)

	err := svc.SetRate(123, 1, 5, 10)
	assert.ErrorIs(t, err, domain.ErrCategoryLimit)
	repo.AssertNotCalled(t, "Upsert")
}

func TestCashbackService_SetRate_RepoError(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("HasBank", int64(123), 1).Return(true, nil)
	repo.On("CountByBank", int64(123), 1).Return(0, nil)
	repo.On("Upsert", int64(123), 1, 5, 10).Return(errors.New("db down"))

	err := svc.SetRate(123, 1, 5, 10)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestCashbackService_ListGrouped(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("ListByUser", int64(123)).Return([]domain.CashbackSetting{
		{UserID: 123, BankID: 1, BankName: "Сбер", CategoryName: "АЗС", Rate: 5},
		{UserID: 123, BankID: 1, BankName: "Сбер", CategoryName: "Рестораны", Rate: 10},
		{UserID: 123, BankID: 2, BankName: "Тинькофф", CategoryName: "Аптеки", Rate: 3},
	}, nil)

	groups, err := svc.ListGrouped(123)
	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, "Сбер", groups[0].BankName)
	assert.Len(t, groups[0].Settings, 2)
	assert.Equal(t, "Тинькофф", groups[1].BankName)
	assert.Len(t, groups[1].Settings, 1)
}

func TestCashbackService_ListGrouped_Empty(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("ListByUser", int64(123)).Return([]domain.CashbackSetting{}, nil)

	groups, err := svc.ListGrouped(123)
	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestCashbackService_Remove(t *testing.T) {
	svc, repo := newCashbackFixture(testutil.NewTestUser(123))

	repo.On("Remove", int64(123), 1, 5).Return(nil)

	err := svc.Remove(123, 1, 5)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
