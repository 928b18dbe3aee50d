package service

import (
	"testing"
	"time"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func newFavoritesFixture(user *domain.User) (*FavoritesService, *testutil.MockFavoriteRepository, *testutil.MockCategoryRepository) {
	users := new(testutil.MockUserRepository)
	users.On("GetByTelegramID", user.TelegramID).Return(user, nil)

	repo := new(testutil.MockFavoriteRepository)
	banks := new(testutil.MockBankRepository)
	categories := new(testutil.MockCategoryRepository)

	catalog := NewCatalogService(banks, categories, testutil.NewTestLogger())
	subs := NewSubscriptionService(users, nil, repo, testutil.FreeLimits, testutil.NewTestLogger())

	svc := NewFavoritesService(repo, catalog, subs, testutil.NewTestLogger())
	return svc, repo, categories
}

func TestFavoritesService_AvailableCategories(t *testing.T) {
	svc, repo, categories := newFavoritesFixture(testutil.NewTestUser(123))

	categories.On("GetByBank", 1).Return([]domain.Category{
		{ID: 1, BankID: 1, Name: "АЗС"},
		{ID: 2, BankID: 1, Name: "Рестораны"},
		{ID: 3, BankID: 1, Name: "Аптеки"},
	}, nil)
	repo.On("CategoryIDsByBank", int64(123), 1).Return([]int{2}, nil)

	available, err := svc.AvailableCategories(123, 1)
	assert.NoError(t, err)
	assert.Len(t, available, 2)
	assert.Equal(t, "АЗС", available[0].Name)
	assert.Equal(t, "Аптеки", available[1].Name)
}

func TestFavoritesService_Search(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "case-insensitive substring", term: "аПт", want: []string{"Аптеки"}},
		{name: "empty term returns all available", term: "  ", want: []string{"АЗС", "Аптеки"}},
		{name: "no match", term: "такси", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, categories := newFavoritesFixture(testutil.NewTestUser(123))

			categories.On("GetByBank", 1).Return([]domain.Category{
				{ID: 1, BankID: 1, Name: "АЗС"},
				{ID: 2, BankID: 1, Name: "Рестораны"},
				{ID: 3, BankID: 1, Name: "Аптеки"},
			}, nil)
			repo.On("CategoryIDsByBank", int64(123), 1).Return([]int{2}, nil)

			matched, err := svc.Search(123, 1, tt.term)
			assert.NoError(t, err)

			var names []string
			for _, category := range matched {
				names = append(names, category.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFavoritesService_Add(t *testing.T) {
	svc, repo, _ := newFavoritesFixture(testutil.NewTestUser(123))

	rate := 5.5
	repo.On("Exists", int64(123), 1, 3).Return(false, nil)
	repo.On("HasBank", int64(123), 1).Return(true, nil)
	repo.On("CountByBank", int64(123), 1).Return(1, nil)
	repo.On("Add", int64(123), 1, 3, &rate).Return(nil)

	err := svc.Add(123, 1, 3, &rate)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFavoritesService_Add_WithoutRate(t *testing.T) {
	svc, repo, _ := newFavoritesFixture(testutil.NewTestUser(123))

	repo.On("Exists", int64(123), 1, 3).Return(false, nil)
	repo.On("HasBank", int64(123), 1).Return(true, nil)
	repo.On("CountByBank", int64(123), 1).Return(0, nil)
	repo.On("Add", int64(123), 1, 3, (*float64)(nil)).Return(nil)

	err := svc.Add(123, 1, 3, nil)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFavoritesService_Add_Duplicate(t *testing.T) {
	svc, repo, _ := newFavoritesFixture(testutil.NewTestUser(123))

	repo.On("Exists", int64(123), 1, 3).Return(true, nil)

	err := svc.Add(123, 1, 3, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	repo.AssertNotCalled(t, "Add")
}

func TestFavoritesService_Add_InvalidRate(t *testing.T) {
	svc, repo, _ := newFavoritesFixture(testutil.NewTestUser(123))

	rate := 150.0
	err := svc.Add(123, 1, 3, &rate)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Exists")
}

func TestFavoritesService_Add_BankLimit(t *testing.T) {
	svc, repo, _ := newFavoritesFixture(testutil.NewTestUser(123))

	repo.On("Exists", int64(123), 9, 3).Return(false, nil)
	repo.On("HasBank", int64(123), 9).Return(false, nil)
	repo.On("CountBanks", int64(123)).Return(testutil.FreeLimits.MaxBanks, nil)

	err := svc.Add(123, 9, 3, nil)
	assert.ErrorIs(t, err, domain.ErrBankLimit)
	repo.AssertNotCalled(t, "Add")
}

func TestFavoritesService_Add_ProBypassesLimits(t *testing.T) {
	user := testutil.NewTestProUser(123, time.Now().Add(24*time.Hour))
	svc, repo, _ := newFavoritesFixture(user)

	repo.On("Exists", int64(123), 9, 3).Return(false, nil)
	repo.On("Add", int64(123), 9, 3, (*float64)(nil)).Return(nil)

	err := svc.Add(123, 9, 3, nil)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "CountBanks")
}

func TestFavoritesService_Remove(t *testing.T) {
	svc, repo, _ := newFavoritesFixture(testutil.NewTestUser(123))

	repo.On("Remove", int64(123), 1, 3).Return(nil)

	err := svc.Remove(123, 1, 3)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
