package service

import (
	"fmt"

	"cashbackhelp/internal/config"
	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProInvoice is what a payment provider is asked to present to the user
type ProInvoice struct {
	Payload     string
	Title       string
	Description string
	AmountStars int
}

// PaymentProvider delivers an invoice to the user through the transport.
// Production uses Telegram Stars; tests use a fake.
type PaymentProvider interface {
	SendInvoice(userID int64, invoice ProInvoice) error
}

// PaymentService creates Pro invoices and settles their outcomes
type PaymentService struct {
	repo     repository.PaymentRepository
	subs     *SubscriptionService
	provider PaymentProvider
	cfg      config.ProConfig
	logger   *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repository.PaymentRepository, subs *SubscriptionService, provider PaymentProvider, cfg config.ProConfig, logger *zap.Logger) *PaymentService {
	return &PaymentService{repo: repo, subs: subs, provider: provider, cfg: cfg, logger: logger}
}

// CreateProInvoice records a pending payment, sends the invoice, and parks
// the session until the provider reports an outcome
func (s *PaymentService) CreateProInvoice(session *domain.Session, userID int64) (*domain.Payment, error) {
	payment := &domain.Payment{
		UserID:      userID,
		Payload:     uuid.NewString(),
		AmountStars: s.cfg.PriceStars,
		Status:      domain.PaymentPending,
	}

	if err := s.repo.Create(payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	invoice := ProInvoice{
		Payload:     payment.Payload,
		Title:       "Pro-подписка",
		Description: fmt.Sprintf("Pro-подписка на %d дней", s.cfg.DurationDays),
		AmountStars: s.cfg.PriceStars,
	}
	if err := s.provider.SendInvoice(userID, invoice); err != nil {
		return nil, fmt.Errorf("send invoice: %w", err)
	}

	session.SetState(domain.StateWaitingForPayment, nil)

	s.logger.Info("Pro invoice sent",
		zap.Int64("user_id", userID),
		zap.String("payload", payment.Payload),
		zap.Int("amount_stars", payment.AmountStars),
	)
	return payment, nil
}

// HandleSuccess marks the payment completed and grants Pro
func (s *PaymentService) HandleSuccess(session *domain.Session, payload string) (*domain.Payment, error) {
	payment, err := s.repo.GetByPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("look up payment: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %q: %w", payload, domain.ErrNotFound)
	}

	if err := s.repo.UpdateStatus(payload, domain.PaymentCompleted); err != nil {
		return nil, fmt.Errorf("complete payment: %w", err)
	}
	if err := s.subs.UpgradeToPro(payment.UserID, s.cfg.DurationDays); err != nil {
		return nil, err
	}

	session.Transition(domain.ActionPaymentCompleted, nil)

	s.logger.Info("Payment completed",
		zap.Int64("user_id", payment.UserID),
		zap.String("payload", payload),
	)
	return payment, nil
}

// HandleFailure marks the payment failed and releases the session
func (s *PaymentService) HandleFailure(session *domain.Session, payload string) error {
	payment, err := s.repo.GetByPayload(payload)
	if err != nil {
		return fmt.Errorf("look up payment: %w", err)
	}
	if payment != nil {
		if err := s.repo.UpdateStatus(payload, domain.PaymentFailed); err != nil {
			return fmt.Errorf("fail payment: %w", err)
		}
	}

	session.Transition(domain.ActionPaymentFailed, nil)

	s.logger.Warn("Payment failed", zap.String("payload", payload))
	return nil
}
