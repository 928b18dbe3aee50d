package postgres

import (
	"database/sql"

	"cashbackhelp/internal/domain"
)

// PaymentRepo implements repository.PaymentRepository
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo creates a new payment repository
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create records a new pending invoice
func (r *PaymentRepo) Create(p *domain.Payment) error {
	query := `
		INSERT INTO payments (user_id, payload, amount_stars, status)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(query, p.UserID, p.Payload, p.AmountStars, string(p.Status))
	return err
}

// UpdateStatus moves the invoice identified by payload to status
func (r *PaymentRepo) UpdateStatus(payload string, status domain.PaymentStatus) error {
	query := `UPDATE payments SET status = $2 WHERE payload = $1`
	_, err := r.db.Exec(query, payload, string(status))
	return err
}

// GetByPayload returns the invoice, or (nil, nil) if absent
func (r *PaymentRepo) GetByPayload(payload string) (*domain.Payment, error) {
	query := `
		SELECT id, user_id, payload, amount_stars, status, created_at
		FROM payments WHERE payload = $1
	`

	var p domain.Payment
	err := r.db.QueryRow(query, payload).Scan(
		&p.ID, &p.UserID, &p.Payload, &p.AmountStars, &p.Status, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
