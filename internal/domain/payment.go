package domain

import "time"

// PaymentStatus tracks an invoice lifecycle
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is one Pro subscription invoice, identified by its payload
type Payment struct {
	ID          int
	UserID      int64
	Payload     string
	AmountStars int
	Status      PaymentStatus
	CreatedAt   time.Time
}
