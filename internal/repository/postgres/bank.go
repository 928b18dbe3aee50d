package postgres

import (
	"database/sql"

	"cashbackhelp/internal/domain"

	"github.com/lib/pq"
)

// BankRepo implements repository.BankRepository
type BankRepo struct {
	db *sql.DB
}

// NewBankRepo creates a new bank repository
func NewBankRepo(db *sql.DB) *BankRepo {
	return &BankRepo{db: db}
}

// GetActive returns banks available for selection, in name order
func (r *BankRepo) GetActive() ([]domain.Bank, error) {
	query := `
		SELECT id, code, name, is_active, created_at
		FROM banks WHERE is_active = TRUE ORDER BY name
	`
	return r.queryBanks(query)
}

// GetAll returns every bank, in name order
func (r *BankRepo) GetAll() ([]domain.Bank, error) {
	query := `SELECT id, code, name, is_active, created_at FROM banks ORDER BY name`
	return r.queryBanks(query)
}

// GetByCode returns the bank with code, or (nil, nil) if absent
func (r *BankRepo) GetByCode(code string) (*domain.Bank, error) {
	query := `SELECT id, code, name, is_active, created_at FROM banks WHERE code = $1`
	return r.queryBank(query, code)
}

// GetByID returns the bank with id, or (nil, nil) if absent
func (r *BankRepo) GetByID(id int) (*domain.Bank, error) {
	query := `SELECT id, code, name, is_active, created_at FROM banks WHERE id = $1`
	return r.queryBank(query, id)
}

func (r *BankRepo) queryBank(query string, arg interface{}) (*domain.Bank, error) {
	var b domain.Bank
	err := r.db.QueryRow(query, arg).Scan(&b.ID, &b.Code, &b.Name, &b.IsActive, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BankRepo) queryBanks(query string, args ...interface{}) ([]domain.Bank, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []domain.Bank
	for rows.Next() {
		var b domain.Bank
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}

	return banks, rows.Err()
}

// CategoryRepo implements repository.CategoryRepository
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// GetByBank returns the bank's categories, in name order
func (r *CategoryRepo) GetByBank(bankID int) ([]domain.Category, error) {
	query := `
		SELECT id, bank_id, name, mcc_codes
		FROM categories WHERE bank_id = $1 ORDER BY name
	`
	return r.queryCategories(query, bankID)
}

// GetByID returns the category with id, or (nil, nil) if absent
func (r *CategoryRepo) GetByID(id int) (*domain.Category, error) {
	query := `SELECT id, bank_id, name, mcc_codes FROM categories WHERE id = $1`

	var c domain.Category
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.BankID, &c.Name, pq.Array(&c.MCCCodes))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchByName finds categories whose name contains term, case-insensitively.
// bankID 0 searches across all banks.
func (r *CategoryRepo) SearchByName(term string, bankID int) ([]domain.Category, error) {
	if bankID == 0 {
		query := `
			SELECT id, bank_id, name, mcc_codes
			FROM categories WHERE name ILIKE '%' || $1 || '%' ORDER BY name
		`
		return r.queryCategories(query, term)
	}

	query := `
		SELECT id, bank_id, name, mcc_codes
		FROM categories WHERE name ILIKE '%' || $1 || '%' AND bank_id = $2 ORDER BY name
	`
	return r.queryCategories(query, term, bankID)
}

// FindByMCC finds categories listing the MCC code. bankID 0 searches all banks.
func (r *CategoryRepo) FindByMCC(code string, bankID int) ([]domain.Category, error) {
	if bankID == 0 {
		query := `
			SELECT id, bank_id, name, mcc_codes
			FROM categories WHERE $1 = ANY(mcc_codes) ORDER BY name
		`
		return r.queryCategories(query, code)
	}

	query := `
		SELECT id, bank_id, name, mcc_codes
		FROM categories WHERE $1 = ANY(mcc_codes) AND bank_id = $2 ORDER BY name
	`
	return r.queryCategories(query, code, bankID)
}

func (r *CategoryRepo) queryCategories(query string, args ...interface{}) ([]domain.Category, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.BankID, &c.Name, pq.Array(&c.MCCCodes)); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
