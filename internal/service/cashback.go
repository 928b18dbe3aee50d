package service

import (
	"fmt"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// CashbackService manages per-user cashback rate settings
type CashbackService struct {
	repo   repository.CashbackRepository
	subs   *SubscriptionService
	logger *zap.Logger
}

// NewCashbackService creates a new cashback service
func NewCashbackService(repo repository.CashbackRepository, subs *SubscriptionService, logger *zap.Logger) *CashbackService {
	return &CashbackService{repo: repo, subs: subs, logger: logger}
}

// SetRate validates and persists the rate for (user, bank, category).
// Limits are re-checked here even if the flow checked them earlier, because
// counts can change between confirmation and completion.
func (s *CashbackService) SetRate(userID int64, bankID, categoryID, rate int) error {
	if rate < 0 || rate > 100 {
		return fmt.Errorf("rate %d out of range: %w", rate, domain.ErrInvalidInput)
	}

	if err := s.subs.CanAddCashbackBank(userID, bankID); err != nil {
		return err
	}
	if err := s.subs.CanAddCashbackCategory(userID, bankID); err != nil {
		return err
	}

	if err := s.repo.Upsert(userID, bankID, categoryID, rate); err != nil {
		return fmt.Errorf("set cashback rate: %w", err)
	}

	s.logger.Info("Cashback rate set",
		zap.Int64("user_id", userID),
		zap.Int("bank_id", bankID),
		zap.Int("category_id", categoryID),
		zap.Int("rate", rate),
	)
	return nil
}

// BankGroup is one bank's settings for display
type BankGroup struct {
	BankName string
	Settings []domain.CashbackSetting
}

// ListGrouped returns the user's settings grouped by bank, banks in name order
func (s *CashbackService) ListGrouped(userID int64) ([]BankGroup, error) {
	settings, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list cashback settings: %w", err)
	}

	var groups []BankGroup
	for _, setting := range settings {
		if len(groups) == 0 || groups[len(groups)-1].BankName != setting.BankName {
			groups = append(groups, BankGroup{BankName: setting.BankName})
		}
		last := &groups[len(groups)-1]
		last.Settings = append(last.Settings, setting)
	}

	return groups, nil
}

// List returns the user's settings flat
func (s *CashbackService) List(userID int64) ([]domain.CashbackSetting, error) {
	return s.repo.ListByUser(userID)
}

// Remove deletes one setting
func (s *CashbackService) Remove(userID int64, bankID, categoryID int) error {
	if err := s.repo.Remove(userID, bankID, categoryID); err != nil {
		return fmt.Errorf("remove cashback setting: %w", err)
	}

	s.logger.Info("Cashback setting removed",
		zap.Int64("user_id", userID),
		zap.Int("bank_id", bankID),
		zap.Int("category_id", categoryID),
	)
	return nil
}
