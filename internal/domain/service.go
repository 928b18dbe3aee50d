package domain

import "time"

// ServiceType names a user-facing service that admins can toggle
type ServiceType string

const (
	ServiceSetCashback    ServiceType = "set_cashback"
	ServiceMyCashback     ServiceType = "my_cashback"
	ServiceRemoveCashback ServiceType = "remove_cashback"
	ServiceSearch         ServiceType = "search"
	ServiceFavorites      ServiceType = "favorites"
	ServiceSubscription   ServiceType = "subscription"
	ServiceStats          ServiceType = "stats"
	ServiceBanks          ServiceType = "banks"
)

// AllServiceTypes lists every known service in stable order
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceSetCashback,
		ServiceMyCashback,
		ServiceRemoveCashback,
		ServiceSearch,
		ServiceFavorites,
		ServiceSubscription,
		ServiceStats,
		ServiceBanks,
	}
}

// IsKnownServiceType reports whether t names a real service
func IsKnownServiceType(t ServiceType) bool {
	for _, known := range AllServiceTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ServiceTitle returns the human-readable name for admin listings
func ServiceTitle(t ServiceType) string {
	switch t {
	case ServiceSetCashback:
		return "Установка кэшбэка"
	case ServiceMyCashback:
		return "Мои настройки кэшбэка"
	case ServiceRemoveCashback:
		return "Удаление кэшбэка"
	case ServiceSearch:
		return "Поиск категорий"
	case ServiceFavorites:
		return "Избранные категории"
	case ServiceSubscription:
		return "Управление подпиской"
	case ServiceStats:
		return "Статистика пользователя"
	case ServiceBanks:
		return "Список банков"
	default:
		return string(t)
	}
}

// SettingScope distinguishes global rows from per-user overrides
type SettingScope string

const (
	ScopeGlobal SettingScope = "global"
	ScopeUser   SettingScope = "user"
)

// ServiceSetting is one admin toggle row; user-scope rows override global ones
type ServiceSetting struct {
	ID          int
	ServiceType ServiceType
	IsEnabled   bool
	Scope       SettingScope
	UserID      *int64
	Note        string
	UpdatedAt   time.Time
}
