package postgres

import (
	"database/sql"

	"cashbackhelp/internal/domain"
)

// CashbackRepo implements repository.CashbackRepository
type CashbackRepo struct {
	db *sql.DB
}

// NewCashbackRepo creates a new cashback settings repository
func NewCashbackRepo(db *sql.DB) *CashbackRepo {
	return &CashbackRepo{db: db}
}

// Upsert writes the rate for (user, bank, category), overwriting any prior value
func (r *CashbackRepo) Upsert(userID int64, bankID, categoryID, rate int) error {
	query := `
		INSERT INTO cashback_settings (user_id, bank_id, category_id, rate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, bank_id, category_id)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()
	`
	_, err := r.db.Exec(query, userID, bankID, categoryID, rate)
	return err
}

// ListByUser returns the user's settings with bank and category names,
// grouped by bank name then category name
func (r *CashbackRepo) ListByUser(userID int64) ([]domain.CashbackSetting, error) {
	query := `
		SELECT s.id, s.user_id, s.bank_id, s.category_id, s.rate, b.name, c.name, s.updated_at
		FROM cashback_settings s
		JOIN banks b ON b.id = s.bank_id
		JOIN categories c ON c.id = s.category_id
		WHERE s.user_id = $1
		ORDER BY b.name, c.name
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.CashbackSetting
	for rows.Next() {
		var s domain.CashbackSetting
		err := rows.Scan(
			&s.ID, &s.UserID, &s.BankID, &s.CategoryID, &s.Rate,
			&s.BankName, &s.CategoryName, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}

	return settings, rows.Err()
}

// CountBanks counts distinct banks the user has settings in
func (r *CashbackRepo) CountBanks(userID int64) (int, error) {
	query := `SELECT COUNT(DISTINCT bank_id) FROM cashback_settings WHERE user_id = $1`

	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// CountByBank counts the user's settings within one bank
func (r *CashbackRepo) CountByBank(userID int64, bankID int) (int, error) {
	query := `SELECT COUNT(*) FROM cashback_settings WHERE user_id = $1 AND bank_id = $2`

	var count int
	err := r.db.QueryRow(query, userID, bankID).Scan(&count)
	return count, err
}

// HasBank reports whether the user already has any setting for the bank
func (r *CashbackRepo) HasBank(userID int64, bankID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cashback_settings WHERE user_id = $1 AND bank_id = $2)`

	var exists bool
	err := r.db.QueryRow(query, userID, bankID).Scan(&exists)
	return exists, err
}

// Remove deletes one setting
func (r *CashbackRepo) Remove(userID int64, bankID, categoryID int) error {
	query := `DELETE FROM cashback_settings WHERE user_id = $1 AND bank_id = $2 AND category_id = $3`
	_, err := r.db.Exec(query, userID, bankID, categoryID)
	return err
}
