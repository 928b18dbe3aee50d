package service

import (
	"fmt"
	"strconv"
	"strings"

	"cashbackhelp/internal/domain"

	"go.uber.org/zap"
)

// CashbackFlowService drives the multi-step cashback setup conversation:
// pick a bank, toggle categories, confirm, then enter one rate per selected
// category. All state lives in the session; the handler layer only renders
// the returned steps.
type CashbackFlowService struct {
	catalog  *CatalogService
	cashback *CashbackService
	subs     *SubscriptionService
	logger   *zap.Logger
}

// NewCashbackFlowService creates a new cashback flow controller
func NewCashbackFlowService(catalog *CatalogService, cashback *CashbackService, subs *SubscriptionService, logger *zap.Logger) *CashbackFlowService {
	return &CashbackFlowService{catalog: catalog, cashback: cashback, subs: subs, logger: logger}
}

// RatePrompt asks the user for the rate of one selected category
type RatePrompt struct {
	Bank     *domain.Bank
	Category *domain.Category
	Position int
	Total    int
}

// RateStep is the outcome of one rate input: what was saved, and either the
// next prompt or Done
type RateStep struct {
	Saved *domain.Category
	Rate  int
	Done  bool
	Next  *RatePrompt
}

// StartSetup abandons any in-flight flow and opens bank selection
func (s *CashbackFlowService) StartSetup(session *domain.Session) ([]domain.Bank, error) {
	banks, err := s.catalog.GetActiveBanks()
	if err != nil {
		return nil, err
	}

	session.ResetFSM()
	session.ClearCashbackFlow()
	session.ClearFavoritesFlow()
	session.Transition(domain.ActionStartCashbackSetup, nil)
	return banks, nil
}

// SelectBank records the chosen bank and returns its categories
func (s *CashbackFlowService) SelectBank(session *domain.Session, bankCode string) (*domain.Bank, []domain.Category, error) {
	if !session.IsInState(domain.StateSettingCashbackBank) {
		session.ResetFSM()
		session.ClearCashbackFlow()
		return nil, nil, domain.ErrSessionExpired
	}

	bank, err := s.catalog.GetBankByCode(bankCode)
	if err != nil {
		return nil, nil, err
	}

	categories, err := s.catalog.GetCategoriesByBank(bank.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(categories) == 0 {
		session.ResetFSM()
		session.ClearCashbackFlow()
		return nil, nil, fmt.Errorf("bank %q has no categories: %w", bankCode, domain.ErrNotFound)
	}

	session.Cashback = &domain.CashbackFlow{SelectedBank: bank.Code}
	session.Transition(domain.ActionBankSelected, nil)
	return bank, categories, nil
}

// ToggleCategory flips one category in the pending selection and reports
// whether it is now selected
func (s *CashbackFlowService) ToggleCategory(session *domain.Session, categoryID int) (bool, error) {
	if !session.IsInState(domain.StateSettingCashbackCategories) || session.Cashback == nil {
		return false, domain.ErrSessionExpired
	}
	return session.Cashback.Toggle(categoryID), nil
}

// Confirm locks in the selection and returns the first rate prompt
func (s *CashbackFlowService) Confirm(session *domain.Session, userID int64) (*RatePrompt, error) {
	if !session.IsInState(domain.StateSettingCashbackCategories) || session.Cashback == nil {
		return nil, domain.ErrSessionExpired
	}

	flow := session.Cashback
	if len(flow.SelectedCategories) == 0 {
		return nil, fmt.Errorf("no categories selected: %w", domain.ErrInvalidInput)
	}

	bank, err := s.catalog.GetBankByCode(flow.SelectedBank)
	if err != nil {
		return nil, err
	}
	if err := s.subs.CanAddCashbackBank(userID, bank.ID); err != nil {
		return nil, err
	}
	if err := s.subs.CanAddCashbackCategory(userID, bank.ID); err != nil {
		return nil, err
	}

	flow.WaitingForRates = true
	flow.CurrentCategoryIndex = 0
	session.Transition(domain.ActionCategoriesConfirmed, nil)

	return s.promptAt(bank, flow)
}

// AwaitingRate reports whether the flow expects the next free-text message
// to be a rate
func (s *CashbackFlowService) AwaitingRate(session *domain.Session) bool {
	return session.IsInState(domain.StateSettingCashbackRates) &&
		session.Cashback != nil && session.Cashback.WaitingForRates
}

// RateInput consumes one rate message. Invalid input leaves the flow in
// place so the user can retry; a valid rate is persisted and the flow either
// advances to the next category or completes and returns to idle.
func (s *CashbackFlowService) RateInput(session *domain.Session, userID int64, text string) (*RateStep, error) {
	if !s.AwaitingRate(session) {
		return nil, domain.ErrSessionExpired
	}

	rate, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("rate must be a whole number: %w", domain.ErrInvalidInput)
	}

	flow := session.Cashback
	bank, err := s.catalog.GetBankByCode(flow.SelectedBank)
	if err != nil {
		return nil, err
	}

	categoryID := flow.SelectedCategories[flow.CurrentCategoryIndex]
	category, err := s.catalog.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.cashback.SetRate(userID, bank.ID, categoryID, rate); err != nil {
		return nil, err
	}

	flow.CurrentCategoryIndex++
	step := &RateStep{Saved: category, Rate: rate}

	if flow.CurrentCategoryIndex >= len(flow.SelectedCategories) {
		session.ClearCashbackFlow()
		session.Transition(domain.ActionRatesCompleted, nil)
		step.Done = true

		s.logger.Info("Cashback setup completed",
			zap.Int64("user_id", userID),
			zap.String("bank", bank.Code),
		)
		return step, nil
	}

	next, err := s.promptAt(bank, flow)
	if err != nil {
		return nil, err
	}
	step.Next = next
	return step, nil
}

// Back steps one screen back: rates -> categories, categories -> banks
func (s *CashbackFlowService) Back(session *domain.Session) (domain.State, error) {
	switch {
	case session.IsInState(domain.StateSettingCashbackRates):
		if session.Cashback != nil {
			session.Cashback.WaitingForRates = false
			session.Cashback.CurrentCategoryIndex = 0
		}
	case session.IsInState(domain.StateSettingCashbackCategories):
		session.ClearCashbackFlow()
	default:
		return session.GetState(), domain.ErrSessionExpired
	}
	return session.Transition(domain.ActionBack, nil), nil
}

// Cancel abandons the flow from any of its states
func (s *CashbackFlowService) Cancel(session *domain.Session) {
	session.ClearCashbackFlow()
	session.Transition(domain.ActionCancel, nil)
}

func (s *CashbackFlowService) promptAt(bank *domain.Bank, flow *domain.CashbackFlow) (*RatePrompt, error) {
	categoryID := flow.SelectedCategories[flow.CurrentCategoryIndex]
	category, err := s.catalog.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}
	return &RatePrompt{
		Bank:     bank,
		Category: category,
		Position: flow.CurrentCategoryIndex + 1,
		Total:    len(flow.SelectedCategories),
	}, nil
}
