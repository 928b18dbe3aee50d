package service

import (
	"fmt"
	"time"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// bankCounter is the slice of a settings store the limiter needs: how many
// distinct banks a user occupies, how many entries within one bank, and
// whether the bank is already occupied (an occupied bank never counts against
// the bank cap)
type bankCounter interface {
	CountBanks(userID int64) (int, error)
	CountByBank(userID int64, bankID int) (int, error)
	HasBank(userID int64, bankID int) (bool, error)
}

// SubscriptionService derives subscription status and enforces free-tier caps
type SubscriptionService struct {
	users      repository.UserRepository
	cashback   repository.CashbackRepository
	favorites  repository.FavoriteRepository
	freeLimits domain.Limits
	logger     *zap.Logger

	now func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	users repository.UserRepository,
	cashback repository.CashbackRepository,
	favorites repository.FavoriteRepository,
	freeLimits domain.Limits,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		users:      users,
		cashback:   cashback,
		favorites:  favorites,
		freeLimits: freeLimits,
		logger:     logger,
		now:        time.Now,
	}
}

// GetStatus derives the user's subscription status
func (s *SubscriptionService) GetStatus(userID int64) (domain.SubscriptionStatus, error) {
	user, err := s.users.GetByTelegramID(userID)
	if err != nil {
		return domain.SubscriptionStatus{}, fmt.Errorf("get subscription status: %w", err)
	}
	if user == nil {
		return domain.SubscriptionStatus{}, domain.ErrNotFound
	}

	return domain.NewSubscriptionStatus(user, s.freeLimits, s.now()), nil
}

// CanAddCashbackBank reports whether the user may create a cashback setting
// in bankID. A bank the user already occupies never counts against the cap.
func (s *SubscriptionService) CanAddCashbackBank(userID int64, bankID int) error {
	return s.canAddBank(userID, bankID, s.cashback)
}

// CanAddCashbackCategory reports whether the user may add another category
// setting within bankID
func (s *SubscriptionService) CanAddCashbackCategory(userID int64, bankID int) error {
	return s.canAddCategory(userID, bankID, s.cashback)
}

// CanAddFavoriteBank reports whether the user may favorite a category in a
// new bank; bankID 0 checks the overall cap before a bank is chosen
func (s *SubscriptionService) CanAddFavoriteBank(userID int64, bankID int) error {
	return s.canAddBank(userID, bankID, s.favorites)
}

// CanAddFavoriteCategory reports whether the user may favorite another
// category within bankID
func (s *SubscriptionService) CanAddFavoriteCategory(userID int64, bankID int) error {
	return s.canAddCategory(userID, bankID, s.favorites)
}

func (s *SubscriptionService) canAddBank(userID int64, bankID int, counter bankCounter) error {
	status, err := s.GetStatus(userID)
	if err != nil {
		return err
	}
	if status.BypassesLimits() {
		return nil
	}

	if bankID != 0 {
		occupied, err := counter.HasBank(userID, bankID)
		if err != nil {
			return fmt.Errorf("check bank occupancy: %w", err)
		}
		if occupied {
			return nil
		}
	}

	count, err := counter.CountBanks(userID)
	if err != nil {
		return fmt.Errorf("count banks: %w", err)
	}
	if count >= status.Limits.MaxBanks {
		return domain.ErrBankLimit
	}

	return nil
}

func (s *SubscriptionService) canAddCategory(userID int64, bankID int, counter bankCounter) error {
	status, err := s.GetStatus(userID)
	if err != nil {
		return err
	}
	if status.BypassesLimits() {
		return nil
	}

	count, err := counter.CountByBank(userID, bankID)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count >= status.Limits.MaxCategoriesPerBank {
		return domain.ErrCategoryLimit
	}

	return nil
}

// UpgradeToPro grants pro for durationDays from now
func (s *SubscriptionService) UpgradeToPro(userID int64, durationDays int) error {
	expiry := s.now().AddDate(0, 0, durationDays)

	if err := s.users.UpdateSubscription(userID, domain.SubscriptionPro, &expiry); err != nil {
		return fmt.Errorf("upgrade to pro: %w", err)
	}

	s.logger.Info("User upgraded to Pro",
		zap.Int64("user_id", userID),
		zap.Time("expiry", expiry),
	)
	return nil
}

// DowngradeToFree reverts the user to the free tier
func (s *SubscriptionService) DowngradeToFree(userID int64) error {
	if err := s.users.UpdateSubscription(userID, domain.SubscriptionFree, nil); err != nil {
		return fmt.Errorf("downgrade to free: %w", err)
	}

	s.logger.Info("User downgraded to Free", zap.Int64("user_id", userID))
	return nil
}
