package service

import (
	"errors"
	"testing"

	"cashbackhelp/internal/config"
	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeProvider struct {
	sent []ProInvoice
	err  error
}

func (f *fakeProvider) SendInvoice(userID int64, invoice ProInvoice) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, invoice)
	return nil
}

func newPaymentFixture(provider *fakeProvider) (*PaymentService, *testutil.MockPaymentRepository, *testutil.MockUserRepository) {
	payments := new(testutil.MockPaymentRepository)
	users := new(testutil.MockUserRepository)

	logger := testutil.NewTestLogger()
	subs := NewSubscriptionService(users, nil, nil, testutil.FreeLimits, logger)
	cfg := config.ProConfig{PriceStars: 300, DurationDays: 30}

	return NewPaymentService(payments, subs, provider, cfg, logger), payments, users
}

func TestPaymentService_CreateProInvoice(t *testing.T) {
	provider := &fakeProvider{}
	svc, payments, _ := newPaymentFixture(provider)

	payments.On("Create", mock.AnythingOfType("*domain.Payment")).Return(nil)

	session := domain.NewSession("123:123")
	payment, err := svc.CreateProInvoice(session, 123)
	assert.NoError(t, err)
	assert.NotEmpty(t, payment.Payload)
	assert.Equal(t, 300, payment.AmountStars)
	assert.Equal(t, domain.PaymentPending, payment.Status)

	assert.Len(t, provider.sent, 1)
	assert.Equal(t, payment.Payload, provider.sent[0].Payload)
	assert.True(t, session.IsInState(domain.StateWaitingForPayment))
}

func TestPaymentService_CreateProInvoice_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("transport down")}
	svc, payments, _ := newPaymentFixture(provider)

	payments.On("Create", mock.AnythingOfType("*domain.Payment")).Return(nil)

	session := domain.NewSession("123:123")
	_, err := svc.CreateProInvoice(session, 123)
	assert.Error(t, err)
	assert.True(t, session.IsInState(domain.StateIdle))
}

func TestPaymentService_HandleSuccess(t *testing.T) {
	provider := &fakeProvider{}
	svc, payments, users := newPaymentFixture(provider)

	payments.On("GetByPayload", "payload-1").Return(&domain.Payment{
		ID:      7,
		UserID:  123,
		Payload: "payload-1",
		Status:  domain.PaymentPending,
	}, nil)
	payments.On("UpdateStatus", "payload-1", domain.PaymentCompleted).Return(nil)
	users.On("UpdateSubscription", int64(123), domain.SubscriptionPro, mock.Anything).Return(nil)

	session := domain.NewSession("123:123")
	session.SetState(domain.StateWaitingForPayment, nil)

	payment, err := svc.HandleSuccess(session, "payload-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(123), payment.UserID)
	assert.True(t, session.IsInState(domain.StateIdle))
	payments.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestPaymentService_HandleSuccess_UnknownPayload(t *testing.T) {
	provider := &fakeProvider{}
	svc, payments, _ := newPaymentFixture(provider)

	payments.On("GetByPayload", "ghost").Return(nil, nil)

	session := domain.NewSession("123:123")
	session.SetState(domain.StateWaitingForPayment, nil)

	_, err := svc.HandleSuccess(session, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, session.IsInState(domain.StateWaitingForPayment))
}

func TestPaymentService_HandleFailure(t *testing.T) {
	provider := &fakeProvider{}
	svc, payments, _ := newPaymentFixture(provider)

	payments.On("GetByPayload", "payload-1").Return(&domain.Payment{
		ID:      7,
		UserID:  123,
		Payload: "payload-1",
		Status:  domain.PaymentPending,
	}, nil)
	payments.On("UpdateStatus", "payload-1", domain.PaymentFailed).Return(nil)

	session := domain.NewSession("123:123")
	session.SetState(domain.StateWaitingForPayment, nil)

	err := svc.HandleFailure(session, "payload-1")
	assert.NoError(t, err)
	assert.True(t, session.IsInState(domain.StateIdle))
}
