package domain

import "time"

// SubscriptionType is the user's tier
type SubscriptionType string

const (
	SubscriptionFree SubscriptionType = "free"
	SubscriptionPro  SubscriptionType = "pro"
)

// User represents a bot user, keyed by Telegram ID
type User struct {
	TelegramID         int64
	Username           string
	FirstName          string
	SubscriptionType   SubscriptionType
	SubscriptionExpiry *time.Time
	CreatedAt          time.Time
}

// Limits are the subscription caps; zero means unlimited
type Limits struct {
	MaxBanks             int
	MaxCategoriesPerBank int
}

// Unlimited reports whether the limits impose no caps
func (l Limits) Unlimited() bool {
	return l.MaxBanks == 0 && l.MaxCategoriesPerBank == 0
}

// SubscriptionStatus is derived from the user record, never stored
type SubscriptionStatus struct {
	Type       SubscriptionType
	IsActive   bool
	ExpiryDate *time.Time
	Limits     Limits
}

// NewSubscriptionStatus derives the status: free is always active, pro is
// active only while an expiry timestamp exists and is in the future
func NewSubscriptionStatus(u *User, freeLimits Limits, now time.Time) SubscriptionStatus {
	status := SubscriptionStatus{
		Type:       u.SubscriptionType,
		ExpiryDate: u.SubscriptionExpiry,
	}

	switch u.SubscriptionType {
	case SubscriptionPro:
		status.IsActive = u.SubscriptionExpiry != nil && u.SubscriptionExpiry.After(now)
		if status.IsActive {
			return status
		}
		// Expired pro falls back to free caps
		status.Limits = freeLimits
	default:
		status.IsActive = true
		status.Limits = freeLimits
	}

	return status
}

// BypassesLimits reports whether the status skips all cap checks
func (s SubscriptionStatus) BypassesLimits() bool {
	return s.Type == SubscriptionPro && s.IsActive
}
