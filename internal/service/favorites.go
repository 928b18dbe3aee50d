package service

import (
	"fmt"
	"strings"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// FavoritesService manages the user's favorite categories
type FavoritesService struct {
	repo    repository.FavoriteRepository
	catalog *CatalogService
	subs    *SubscriptionService
	logger  *zap.Logger
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(repo repository.FavoriteRepository, catalog *CatalogService, subs *SubscriptionService, logger *zap.Logger) *FavoritesService {
	return &FavoritesService{repo: repo, catalog: catalog, subs: subs, logger: logger}
}

// List returns the user's favorites with bank and category names
func (s *FavoritesService) List(userID int64) ([]domain.Favorite, error) {
	favorites, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// AvailableCategories returns the bank's categories the user has not
// favorited yet, preserving catalog order
func (s *FavoritesService) AvailableCategories(userID int64, bankID int) ([]domain.Category, error) {
	categories, err := s.catalog.GetCategoriesByBank(bankID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.CategoryIDsByBank(userID, bankID)
	if err != nil {
		return nil, fmt.Errorf("list favorited categories: %w", err)
	}

	takenSet := make(map[int]bool, len(taken))
	for _, id := range taken {
		takenSet[id] = true
	}

	available := make([]domain.Category, 0, len(categories))
	for _, category := range categories {
		if !takenSet[category.ID] {
			available = append(available, category)
		}
	}
	return available, nil
}

// Search filters the bank's available categories by a case-insensitive
// substring match on the name
func (s *FavoritesService) Search(userID int64, bankID int, term string) ([]domain.Category, error) {
	available, err := s.AvailableCategories(userID, bankID)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return available, nil
	}

	var matched []domain.Category
	for _, category := range available {
		if strings.Contains(strings.ToLower(category.Name), term) {
			matched = append(matched, category)
		}
	}
	return matched, nil
}

// Add stores a favorite, optionally with a cashback rate. A nil rate means
// the user tracks the category without a rate.
func (s *FavoritesService) Add(userID int64, bankID, categoryID int, rate *float64) error {
	if rate != nil && (*rate < 0 || *rate > 100) {
		return fmt.Errorf("rate %v out of range: %w", *rate, domain.ErrInvalidInput)
	}

	exists, err := s.repo.Exists(userID, bankID, categoryID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		return domain.ErrDuplicate
	}

	if err := s.subs.CanAddFavoriteBank(userID, bankID); err != nil {
		return err
	}
	if err := s.subs.CanAddFavoriteCategory(userID, bankID); err != nil {
		return err
	}

	if err := s.repo.Add(userID, bankID, categoryID, rate); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	s.logger.Info("Favorite added",
		zap.Int64("user_id", userID),
		zap.Int("bank_id", bankID),
		zap.Int("category_id", categoryID),
	)
	return nil
}

// Remove deletes one favorite
func (s *FavoritesService) Remove(userID int64, bankID, categoryID int) error {
	if err := s.repo.Remove(userID, bankID, categoryID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	s.logger.Info("Favorite removed",
		zap.Int64("user_id", userID),
		zap.Int("bank_id", bankID),
		zap.Int("category_id", categoryID),
	)
	return nil
}
