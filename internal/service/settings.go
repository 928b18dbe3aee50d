package service

import (
	"fmt"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// SettingsService resolves and mutates admin service toggles. Resolution is a
// strict two-tier override: a user-scope row is authoritative when present,
// otherwise the global row, otherwise enabled.
type SettingsService struct {
	repo     repository.ServiceSettingRepository
	adminIDs map[int64]struct{}
	logger   *zap.Logger

	// FailOpen controls the answer when a lookup fails: true treats the
	// service as enabled
	FailOpen bool
}

// NewSettingsService creates a new settings service; adminIDs may be empty
func NewSettingsService(repo repository.ServiceSettingRepository, adminIDs []int64, logger *zap.Logger) *SettingsService {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}

	return &SettingsService{
		repo:     repo,
		adminIDs: ids,
		logger:   logger,
		FailOpen: true,
	}
}

// IsAdmin reports whether the user may use admin commands
func (s *SettingsService) IsAdmin(userID int64) bool {
	_, ok := s.adminIDs[userID]
	return ok
}

// IsServiceEnabledForUser resolves whether the service is available to the
// user. User-scope overrides win; a missing row on both tiers means enabled.
func (s *SettingsService) IsServiceEnabledForUser(userID int64, service domain.ServiceType) bool {
	userSetting, err := s.repo.FindUser(userID, service)
	if err != nil {
		return s.failOpen(userID, service, err)
	}
	if userSetting != nil {
		return userSetting.IsEnabled
	}

	globalSetting, err := s.repo.FindGlobal(service)
	if err != nil {
		return s.failOpen(userID, service, err)
	}
	if globalSetting != nil {
		return globalSetting.IsEnabled
	}

	return true
}

func (s *SettingsService) failOpen(userID int64, service domain.ServiceType, err error) bool {
	s.logger.Error("Failed to resolve service availability",
		zap.Int64("user_id", userID),
		zap.String("service", string(service)),
		zap.Bool("fail_open", s.FailOpen),
		zap.Error(err),
	)
	return s.FailOpen
}

// ToggleGlobalService flips the global row for the service
func (s *SettingsService) ToggleGlobalService(service domain.ServiceType, enabled bool, note string) error {
	if !domain.IsKnownServiceType(service) {
		return fmt.Errorf("unknown service type %q: %w", service, domain.ErrNotFound)
	}

	if err := s.repo.UpsertGlobal(service, enabled, note); err != nil {
		return fmt.Errorf("toggle global service: %w", err)
	}

	s.logger.Info("Global service toggled",
		zap.String("service", string(service)),
		zap.Bool("enabled", enabled),
	)
	return nil
}

// ToggleUserService creates or updates a user-scope override
func (s *SettingsService) ToggleUserService(userID int64, service domain.ServiceType, enabled bool, note string) error {
	if !domain.IsKnownServiceType(service) {
		return fmt.Errorf("unknown service type %q: %w", service, domain.ErrNotFound)
	}

	if err := s.repo.UpsertUser(userID, service, enabled, note); err != nil {
		return fmt.Errorf("toggle user service: %w", err)
	}

	s.logger.Info("User service toggled",
		zap.Int64("user_id", userID),
		zap.String("service", string(service)),
		zap.Bool("enabled", enabled),
	)
	return nil
}

// RemoveUserSetting deletes the user-scope override, reverting to global
func (s *SettingsService) RemoveUserSetting(userID int64, service domain.ServiceType) error {
	if err := s.repo.RemoveUser(userID, service); err != nil {
		return fmt.Errorf("remove user setting: %w", err)
	}

	s.logger.Info("User service override removed",
		zap.Int64("user_id", userID),
		zap.String("service", string(service)),
	)
	return nil
}

// InitializeDefaultSettings ensures every known service has a global row
// defaulting to enabled. Existing rows are never overwritten, so the call is
// idempotent and safe at every startup.
func (s *SettingsService) InitializeDefaultSettings() error {
	for _, service := range domain.AllServiceTypes() {
		existing, err := s.repo.FindGlobal(service)
		if err != nil {
			return fmt.Errorf("initialize default settings: %w", err)
		}
		if existing != nil {
			continue
		}
		if err := s.repo.UpsertGlobal(service, true, "default"); err != nil {
			return fmt.Errorf("initialize default settings: %w", err)
		}
	}

	s.logger.Info("Default service settings initialized")
	return nil
}

// ListAll returns every setting row for the admin overview
func (s *SettingsService) ListAll() ([]domain.ServiceSetting, error) {
	return s.repo.ListAll()
}

// ListUserOverrides returns the user's override rows
func (s *SettingsService) ListUserOverrides(userID int64) ([]domain.ServiceSetting, error) {
	return s.repo.ListUser(userID)
}
