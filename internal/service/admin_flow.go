package service

import (
	"fmt"
	"strconv"
	"strings"

	"cashbackhelp/internal/domain"
)

// Admin per-user targeting: the admin picks a service type, the bot asks
// for a numeric user id, and the next free-text message from that admin is
// consumed here.

// RequestUserTarget starts waiting for a target user id for service
func (s *SettingsService) RequestUserTarget(session *domain.Session, service domain.ServiceType) error {
	if !domain.IsKnownServiceType(service) {
		return fmt.Errorf("unknown service %q: %w", service, domain.ErrInvalidInput)
	}
	session.Admin = &domain.AdminFlow{WaitingForUserID: service}
	return nil
}

// AwaitingUserID reports whether the session is waiting for a target user
// id, and for which service
func (s *SettingsService) AwaitingUserID(session *domain.Session) (domain.ServiceType, bool) {
	if session.Admin == nil || session.Admin.WaitingForUserID == "" {
		return "", false
	}
	return session.Admin.WaitingForUserID, true
}

// HandleUserIDInput parses the admin's reply as a user id. Non-numeric
// input is rejected and the targeting state is preserved so the admin can
// retry; a valid id clears it.
func (s *SettingsService) HandleUserIDInput(session *domain.Session, text string) (int64, domain.ServiceType, error) {
	service, waiting := s.AwaitingUserID(session)
	if !waiting {
		return 0, "", domain.ErrSessionExpired
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("user id must be a number: %w", domain.ErrInvalidInput)
	}

	session.ClearAdminFlow()
	return userID, service, nil
}

// EffectiveStatus resolves what the (userID, service) pair currently gets:
// the override row if one exists, otherwise the global flag
func (s *SettingsService) EffectiveStatus(userID int64, service domain.ServiceType) (enabled bool, overridden bool, err error) {
	userSetting, err := s.repo.FindUser(userID, service)
	if err != nil {
		return false, false, fmt.Errorf("find user setting: %w", err)
	}
	if userSetting != nil {
		return userSetting.IsEnabled, true, nil
	}

	global, err := s.repo.FindGlobal(service)
	if err != nil {
		return false, false, fmt.Errorf("find global setting: %w", err)
	}
	if global != nil {
		return global.IsEnabled, false, nil
	}
	return true, false, nil
}
