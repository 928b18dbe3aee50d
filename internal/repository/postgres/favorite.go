package postgres

import (
	"database/sql"

	"cashbackhelp/internal/domain"

	"github.com/lib/pq"
)

// FavoriteRepo implements repository.FavoriteRepository
type FavoriteRepo struct {
	db *sql.DB
}

// NewFavoriteRepo creates a new favorites repository
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// ListByUser returns the user's favorites with bank and category names
func (r *FavoriteRepo) ListByUser(userID int64) ([]domain.Favorite, error) {
	query := `
		SELECT f.id, f.user_id, f.bank_id, f.category_id, f.rate,
		       b.name, c.name, c.mcc_codes, f.added_at
		FROM favorites f
		JOIN banks b ON b.id = f.bank_id
		JOIN categories c ON c.id = f.category_id
		WHERE f.user_id = $1
		ORDER BY b.name, f.added_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		var rate sql.NullFloat64
		err := rows.Scan(
			&f.ID, &f.UserID, &f.BankID, &f.CategoryID, &rate,
			&f.BankName, &f.CategoryName, pq.Array(&f.MCCCodes), &f.AddedAt,
		)
		if err != nil {
			return nil, err
		}
		if rate.Valid {
			v := rate.Float64
			f.Rate = &v
		}
		favorites = append(favorites, f)
	}

	return favorites, rows.Err()
}

// CategoryIDsByBank returns category ids already favorited in the bank
func (r *FavoriteRepo) CategoryIDsByBank(userID int64, bankID int) ([]int, error) {
	query := `SELECT category_id FROM favorites WHERE user_id = $1 AND bank_id = $2`

	rows, err := r.db.Query(query, userID, bankID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Exists reports whether the (user, bank, category) pair is already favorited
func (r *FavoriteRepo) Exists(userID int64, bankID, categoryID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM favorites WHERE user_id = $1 AND bank_id = $2 AND category_id = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(query, userID, bankID, categoryID).Scan(&exists)
	return exists, err
}

// Add inserts a favorite; rate is nullable
func (r *FavoriteRepo) Add(userID int64, bankID, categoryID int, rate *float64) error {
	query := `
		INSERT INTO favorites (user_id, bank_id, category_id, rate)
		VALUES ($1, $2, $3, $4)
	`

	var v sql.NullFloat64
	if rate != nil {
		v = sql.NullFloat64{Float64: *rate, Valid: true}
	}

	_, err := r.db.Exec(query, userID, bankID, categoryID, v)
	return err
}

// Remove deletes one favorite
func (r *FavoriteRepo) Remove(userID int64, bankID, categoryID int) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND bank_id = $2 AND category_id = $3`
	_, err := r.db.Exec(query, userID, bankID, categoryID)
	return err
}

// CountBanks counts distinct banks with favorites for the user
func (r *FavoriteRepo) CountBanks(userID int64) (int, error) {
	query := `SELECT COUNT(DISTINCT bank_id) FROM favorites WHERE user_id = $1`

	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// CountByBank counts the user's favorites within one bank
func (r *FavoriteRepo) CountByBank(userID int64, bankID int) (int, error) {
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = $1 AND bank_id = $2`

	var count int
	err := r.db.QueryRow(query, userID, bankID).Scan(&count)
	return count, err
}

// HasBank reports whether the user already has any favorite in the bank
func (r *FavoriteRepo) HasBank(userID int64, bankID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND bank_id = $2)`

	var exists bool
	err := r.db.QueryRow(query, userID, bankID).Scan(&exists)
	return exists, err
}
