package service

import (
	"testing"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/testutil"

	"github.com/stretchr/testify/assert"
)

type favoritesFlowFixture struct {
	svc        *FavoritesFlowService
	banks      *testutil.MockBankRepository
	categories *testutil.MockCategoryRepository
	favorites  *testutil.MockFavoriteRepository
}

func newFavoritesFlowFixture(user *domain.User) *favoritesFlowFixture {
	users := new(testutil.MockUserRepository)
	users.On("GetByTelegramID", user.TelegramID).Return(user, nil)

	banks := new(testutil.MockBankRepository)
	categories := new(testutil.MockCategoryRepository)
	favorites := new(testutil.MockFavoriteRepository)

	logger := testutil.NewTestLogger()
	catalog := NewCatalogService(banks, categories, logger)
	subs := NewSubscriptionService(users, nil, favorites, testutil.FreeLimits, logger)
	svc := NewFavoritesFlowService(catalog, NewFavoritesService(favorites, catalog, subs, logger), subs, logger)

	return &favoritesFlowFixture{svc: svc, banks: banks, categories: categories, favorites: favorites}
}

func (f *favoritesFlowFixture) stubTinkoff() {
	bank := testutil.NewTestBank(2, "tinkoff", "Тинькофф")
	f.banks.On("GetActive").Return([]domain.Bank{*bank}, nil)
	f.banks.On("GetByCode", "tinkoff").Return(bank, nil)
	f.categories.On("GetByBank", 2).Return([]domain.Category{
		*testutil.NewTestCategory(4, 2, "Такси", "4121"),
		*testutil.NewTestCategory(5, 2, "Кино", "7832"),
	}, nil)
	f.categories.On("GetByID", 4).Return(testutil.NewTestCategory(4, 2, "Такси", "4121"), nil)
	f.categories.On("GetByID", 5).Return(testutil.NewTestCategory(5, 2, "Кино", "7832"), nil)
}

func TestFavoritesFlow_FullAddWithRate(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))
	f.stubTinkoff()
	f.favorites.On("CountBanks", int64(123)).Return(0, nil)
	f.favorites.On("HasBank", int64(123), 2).Return(false, nil)
	f.favorites.On("CountByBank", int64(123), 2).Return(0, nil)
	f.favorites.On("CategoryIDsByBank", int64(123), 2).Return([]int{}, nil)
	f.favorites.On("Exists", int64(123), 2, 4).Return(false, nil)
	rate := 7.5
	f.favorites.On("Add", int64(123), 2, 4, &rate).Return(nil)

	session := domain.NewSession("123:123")

	banks, err := f.svc.Start(session, 123)
	assert.NoError(t, err)
	assert.Len(t, banks, 1)
	assert.True(t, session.IsInState(domain.StateAddingFavoritesBank))

	_, available, err := f.svc.SelectBank(session, 123, "tinkoff")
	assert.NoError(t, err)
	assert.Len(t, available, 2)
	assert.True(t, session.IsInState(domain.StateAddingFavoritesCategory))

	category, err := f.svc.SelectCategory(session, 4)
	assert.NoError(t, err)
	assert.Equal(t, "Такси", category.Name)
	assert.True(t, f.svc.AwaitingRate(session))

	result, err := f.svc.RateInput(session, 123, "7,5")
	assert.NoError(t, err)
	assert.Equal(t, 7.5, *result.Rate)
	assert.True(t, session.IsInState(domain.StateIdle))
	assert.Nil(t, session.Favorites)

	f.favorites.AssertExpectations(t)
}

func TestFavoritesFlow_AddWithoutRate(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))
	f.stubTinkoff()
	f.favorites.On("CountBanks", int64(123)).Return(0, nil)
	f.favorites.On("HasBank", int64(123), 2).Return(false, nil)
	f.favorites.On("CountByBank", int64(123), 2).Return(0, nil)
	f.favorites.On("CategoryIDsByBank", int64(123), 2).Return([]int{}, nil)
	f.favorites.On("Exists", int64(123), 2, 5).Return(false, nil)
	f.favorites.On("Add", int64(123), 2, 5, (*float64)(nil)).Return(nil)

	session := domain.NewSession("123:123")
	_, _ = f.svc.Start(session, 123)
	_, _, _ = f.svc.SelectBank(session, 123, "tinkoff")
	_, _ = f.svc.SelectCategory(session, 5)

	result, err := f.svc.AddWithoutRate(session, 123)
	assert.NoError(t, err)
	assert.Nil(t, result.Rate)
	assert.True(t, session.IsInState(domain.StateIdle))
}

func TestFavoritesFlow_StartBlockedAtBankCap(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))
	f.favorites.On("CountBanks", int64(123)).Return(testutil.FreeLimits.MaxBanks, nil)

	session := domain.NewSession("123:123")
	_, err := f.svc.Start(session, 123)
	assert.ErrorIs(t, err, domain.ErrBankLimit)
	assert.True(t, session.IsInState(domain.StateIdle))
}

func TestFavoritesFlow_OccupiedBankPassesCap(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))
	f.stubTinkoff()
	f.favorites.On("CountBanks", int64(123)).Return(testutil.FreeLimits.MaxBanks-1, nil).Once()
	f.favorites.On("HasBank", int64(123), 2).Return(true, nil)
	f.favorites.On("CountByBank", int64(123), 2).Return(1, nil)
	f.favorites.On("CategoryIDsByBank", int64(123), 2).Return([]int{4}, nil)

	session := domain.NewSession("123:123")
	_, err := f.svc.Start(session, 123)
	assert.NoError(t, err)

	_, available, err := f.svc.SelectBank(session, 123, "tinkoff")
	assert.NoError(t, err)
	assert.Len(t, available, 1)
	assert.Equal(t, "Кино", available[0].Name)
}

func TestFavoritesFlow_MidSearch(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))
	f.stubTinkoff()
	f.favorites.On("CountBanks", int64(123)).Return(0, nil)
	f.favorites.On("HasBank", int64(123), 2).Return(false, nil)
	f.favorites.On("CountByBank", int64(123), 2).Return(0, nil)
	f.favorites.On("CategoryIDsByBank", int64(123), 2).Return([]int{}, nil)

	session := domain.NewSession("123:123")
	_, _ = f.svc.Start(session, 123)
	_, _, _ = f.svc.SelectBank(session, 123, "tinkoff")

	assert.True(t, f.svc.InMidSearch(session))

	matched, err := f.svc.Search(session, 123, "кин")
	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "Кино", matched[0].Name)
}

func TestFavoritesFlow_DuplicateKeepsWaiting(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))
	f.stubTinkoff()
	f.favorites.On("CountBanks", int64(123)).Return(0, nil)
	f.favorites.On("HasBank", int64(123), 2).Return(false, nil)
	f.favorites.On("CountByBank", int64(123), 2).Return(0, nil)
	f.favorites.On("CategoryIDsByBank", int64(123), 2).Return([]int{}, nil)
	f.favorites.On("Exists", int64(123), 2, 4).Return(true, nil)

	session := domain.NewSession("123:123")
	_, _ = f.svc.Start(session, 123)
	_, _, _ = f.svc.SelectBank(session, 123, "tinkoff")
	_, _ = f.svc.SelectCategory(session, 4)

	_, err := f.svc.RateInput(session, 123, "5")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, f.svc.AwaitingRate(session))
}

func TestFavoritesFlow_SelectBankOutOfState(t *testing.T) {
	f := newFavoritesFlowFixture(testutil.NewTestUser(123))

	session := domain.NewSession("123:123")
	_, _, err := f.svc.SelectBank(session, 123, "tinkoff")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.True(t, session.IsInState(domain.StateIdle))
}
