package service

import (
	"fmt"
	"strconv"
	"strings"

	"cashbackhelp/internal/domain"

	"go.uber.org/zap"
)

// FavoritesFlowService drives the guided favorites conversation: pick a
// bank, pick (or search for) a category, then optionally attach a rate.
type FavoritesFlowService struct {
	catalog   *CatalogService
	favorites *FavoritesService
	subs      *SubscriptionService
	logger    *zap.Logger
}

// NewFavoritesFlowService creates a new favorites flow controller
func NewFavoritesFlowService(catalog *CatalogService, favorites *FavoritesService, subs *SubscriptionService, logger *zap.Logger) *FavoritesFlowService {
	return &FavoritesFlowService{catalog: catalog, favorites: favorites, subs: subs, logger: logger}
}

// FavoriteResult describes the favorite that was just stored
type FavoriteResult struct {
	Bank     *domain.Bank
	Category *domain.Category
	Rate     *float64
}

// Start abandons any in-flight flow and opens bank selection. The overall
// bank cap is checked up front so a capped user is refused before picking
// anything.
func (s *FavoritesFlowService) Start(session *domain.Session, userID int64) ([]domain.Bank, error) {
	if err := s.subs.CanAddFavoriteBank(userID, 0); err != nil {
		return nil, err
	}

	banks, err := s.catalog.GetActiveBanks()
	if err != nil {
		return nil, err
	}

	session.ResetFSM()
	session.ClearFavoritesFlow()
	session.ClearCashbackFlow()
	session.Transition(domain.ActionStartFavoritesAdd, nil)
	return banks, nil
}

// SelectBank records the chosen bank and returns the categories the user
// has not favorited yet
func (s *FavoritesFlowService) SelectBank(session *domain.Session, userID int64, bankCode string) (*domain.Bank, []domain.Category, error) {
	if !session.IsInState(domain.StateAddingFavoritesBank) {
		session.ResetFSM()
		session.ClearFavoritesFlow()
		return nil, nil, domain.ErrSessionExpired
	}

	bank, err := s.catalog.GetBankByCode(bankCode)
	if err != nil {
		return nil, nil, err
	}

	if err := s.subs.CanAddFavoriteBank(userID, bank.ID); err != nil {
		return nil, nil, err
	}
	if err := s.subs.CanAddFavoriteCategory(userID, bank.ID); err != nil {
		return nil, nil, err
	}

	available, err := s.favorites.AvailableCategories(userID, bank.ID)
	if err != nil {
		return nil, nil, err
	}

	session.Favorites = &domain.FavoritesFlow{SelectedBank: bank.Code}
	session.Transition(domain.ActionBankSelected, nil)
	return bank, available, nil
}

// InMidSearch reports whether the next free-text message should be treated
// as a category search within the chosen bank
func (s *FavoritesFlowService) InMidSearch(session *domain.Session) bool {
	return session.IsInState(domain.StateAddingFavoritesCategory) && session.Favorites != nil
}

// Search filters the chosen bank's available categories by name
func (s *FavoritesFlowService) Search(session *domain.Session, userID int64, term string) ([]domain.Category, error) {
	if !s.InMidSearch(session) {
		return nil, domain.ErrSessionExpired
	}

	bank, err := s.catalog.GetBankByCode(session.Favorites.SelectedBank)
	if err != nil {
		return nil, err
	}
	return s.favorites.Search(userID, bank.ID, term)
}

// SelectCategory records the chosen category and starts waiting for a rate
func (s *FavoritesFlowService) SelectCategory(session *domain.Session, categoryID int) (*domain.Category, error) {
	if !session.IsInState(domain.StateAddingFavoritesCategory) || session.Favorites == nil {
		return nil, domain.ErrSessionExpired
	}

	category, err := s.catalog.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}

	session.Favorites.SelectedCategory = category.ID
	session.Favorites.WaitingForCashbackRate = true
	session.Transition(domain.ActionCategorySelected, nil)
	return category, nil
}

// AwaitingRate reports whether the flow expects the next free-text message
// to be a cashback rate for the chosen category
func (s *FavoritesFlowService) AwaitingRate(session *domain.Session) bool {
	return session.IsInState(domain.StateAddingFavoritesRate) &&
		session.Favorites != nil && session.Favorites.WaitingForCashbackRate
}

// AddWithoutRate stores the favorite with no rate and completes the flow
func (s *FavoritesFlowService) AddWithoutRate(session *domain.Session, userID int64) (*FavoriteResult, error) {
	if !s.AwaitingRate(session) {
		return nil, domain.ErrSessionExpired
	}
	return s.complete(session, userID, nil)
}

// RateInput consumes the rate message. The rate may be fractional; a comma
// decimal separator is accepted. Invalid input leaves the flow in place so
// the user can retry.
func (s *FavoritesFlowService) RateInput(session *domain.Session, userID int64, text string) (*FavoriteResult, error) {
	if !s.AwaitingRate(session) {
		return nil, domain.ErrSessionExpired
	}

	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	rate, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil, fmt.Errorf("rate must be a number: %w", domain.ErrInvalidInput)
	}
	return s.complete(session, userID, &rate)
}

func (s *FavoritesFlowService) complete(session *domain.Session, userID int64, rate *float64) (*FavoriteResult, error) {
	flow := session.Favorites

	bank, err := s.catalog.GetBankByCode(flow.SelectedBank)
	if err != nil {
		return nil, err
	}
	category, err := s.catalog.GetCategory(flow.SelectedCategory)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.Add(userID, bank.ID, category.ID, rate); err != nil {
		return nil, err
	}

	session.ClearFavoritesFlow()
	session.Transition(domain.ActionRateCompleted, nil)

	s.logger.Info("Favorite flow completed",
		zap.Int64("user_id", userID),
		zap.String("bank", bank.Code),
		zap.Int("category_id", category.ID),
	)
	return &FavoriteResult{Bank: bank, Category: category, Rate: rate}, nil
}

// Back steps one screen back: rate -> category list, category list -> banks
func (s *FavoritesFlowService) Back(session *domain.Session) (domain.State, error) {
	switch {
	case session.IsInState(domain.StateAddingFavoritesRate):
		if session.Favorites != nil {
			session.Favorites.SelectedCategory = 0
			session.Favorites.WaitingForCashbackRate = false
		}
	case session.IsInState(domain.StateAddingFavoritesCategory):
		session.ClearFavoritesFlow()
	default:
		return session.GetState(), domain.ErrSessionExpired
	}
	return session.Transition(domain.ActionBack, nil), nil
}

// Cancel abandons the flow from any of its states
func (s *FavoritesFlowService) Cancel(session *domain.Session) {
	session.ClearFavoritesFlow()
	session.Transition(domain.ActionCancel, nil)
}
