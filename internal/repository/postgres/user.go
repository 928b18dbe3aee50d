package postgres

import (
	"database/sql"
	"time"

	"cashbackhelp/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByTelegramID returns the user, or (nil, nil) if not registered
func (r *UserRepo) GetByTelegramID(telegramID int64) (*domain.User, error) {
	query := `
		SELECT telegram_id, username, first_name, subscription_type, subscription_expiry, created_at
		FROM users WHERE telegram_id = $1
	`

	var u domain.User
	var username, firstName sql.NullString
	var expiry sql.NullTime

	err := r.db.QueryRow(query, telegramID).Scan(
		&u.TelegramID, &username, &firstName, &u.SubscriptionType, &expiry, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	u.FirstName = firstName.String
	if expiry.Valid {
		t := expiry.Time
		u.SubscriptionExpiry = &t
	}

	return &u, nil
}

// GetOrCreate inserts the user on first contact, refreshing the profile fields
func (r *UserRepo) GetOrCreate(telegramID int64, username, firstName string) (*domain.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, first_name, subscription_type)
		VALUES ($1, $2, $3, 'free')
		ON CONFLICT (telegram_id)
		DO UPDATE SET username = EXCLUDED.username, first_name = EXCLUDED.first_name
	`
	if _, err := r.db.Exec(query, telegramID, username, firstName); err != nil {
		return nil, err
	}

	return r.GetByTelegramID(telegramID)
}

// UpdateSubscription sets the tier and expiry; expiry is nil for free
func (r *UserRepo) UpdateSubscription(telegramID int64, subType domain.SubscriptionType, expiry *time.Time) error {
	query := `
		UPDATE users SET subscription_type = $2, subscription_expiry = $3
		WHERE telegram_id = $1
	`

	var exp sql.NullTime
	if expiry != nil {
		exp = sql.NullTime{Time: *expiry, Valid: true}
	}

	_, err := r.db.Exec(query, telegramID, string(subType), exp)
	return err
}
