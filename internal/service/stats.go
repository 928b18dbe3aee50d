package service

import (
	"fmt"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"
)

// UserStats is the per-user usage summary rendered by /stats
type UserStats struct {
	Status         domain.SubscriptionStatus
	CashbackBanks  int
	CashbackTotal  int
	FavoriteBanks  int
	FavoritesTotal int
}

// StatsService aggregates the user's configured data into one summary
type StatsService struct {
	cashback  repository.CashbackRepository
	favorites repository.FavoriteRepository
	subs      *SubscriptionService
}

// NewStatsService creates a new stats service
func NewStatsService(cashback repository.CashbackRepository, favorites repository.FavoriteRepository, subs *SubscriptionService) *StatsService {
	return &StatsService{cashback: cashback, favorites: favorites, subs: subs}
}

// GetUserStats builds the summary for userID
func (s *StatsService) GetUserStats(userID int64) (*UserStats, error) {
	status, err := s.subs.GetStatus(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{Status: status}

	if stats.CashbackBanks, err = s.cashback.CountBanks(userID); err != nil {
		return nil, fmt.Errorf("count cashback banks: %w", err)
	}
	settings, err := s.cashback.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list cashback settings: %w", err)
	}
	stats.CashbackTotal = len(settings)

	if stats.FavoriteBanks, err = s.favorites.CountBanks(userID); err != nil {
		return nil, fmt.Errorf("count favorite banks: %w", err)
	}
	favorites, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	stats.FavoritesTotal = len(favorites)

	return stats, nil
}
