package domain

import "time"

// State is the top-level conversation state
type State string

const (
	StateIdle                      State = "idle"
	StateSettingCashbackBank       State = "setting_cashback_bank"
	StateSettingCashbackCategories State = "setting_cashback_categories"
	StateSettingCashbackRates      State = "setting_cashback_rates"
	StateAddingFavoritesBank       State = "adding_favorites_bank"
	StateAddingFavoritesCategory   State = "adding_favorites_category"
	StateAddingFavoritesRate       State = "adding_favorites_rate"
	StateSearching                 State = "searching"
	StateWaitingForPayment         State = "waiting_for_payment"
)

// Action drives a transition in the state table
type Action string

const (
	ActionStartCashbackSetup  Action = "start_cashback_setup"
	ActionStartFavoritesAdd   Action = "start_favorites_add"
	ActionStartSearch         Action = "start_search"
	ActionBankSelected        Action = "bank_selected"
	ActionCategoriesConfirmed Action = "categories_confirmed"
	ActionCategorySelected    Action = "category_selected"
	ActionRatesCompleted      Action = "rates_completed"
	ActionRateCompleted       Action = "rate_completed"
	ActionSearchCompleted     Action = "search_completed"
	ActionPaymentCompleted    Action = "payment_completed"
	ActionPaymentFailed       Action = "payment_failed"
	ActionBack                Action = "back"
	ActionCancel              Action = "cancel"
)

// DataLastActivity is the fsm data key stamped on every inbound action
const DataLastActivity = "lastActivity"

// SessionTTL bounds how long a half-completed flow can linger before the
// session is force-reset to idle
const SessionTTL = 30 * time.Minute

// transitions is the full (state, action) table; pairs not listed are no-ops
var transitions = map[State]map[Action]State{
	StateIdle: {
		ActionStartCashbackSetup: StateSettingCashbackBank,
		ActionStartFavoritesAdd:  StateAddingFavoritesBank,
		ActionStartSearch:        StateSearching,
	},
	StateSettingCashbackBank: {
		ActionBankSelected: StateSettingCashbackCategories,
		ActionCancel:       StateIdle,
	},
	StateSettingCashbackCategories: {
		ActionCategoriesConfirmed: StateSettingCashbackRates,
		ActionBack:                StateSettingCashbackBank,
		ActionCancel:              StateIdle,
	},
	StateSettingCashbackRates: {
		ActionRatesCompleted: StateIdle,
		ActionBack:           StateSettingCashbackCategories,
		ActionCancel:         StateIdle,
	},
	StateAddingFavoritesBank: {
		ActionBankSelected: StateAddingFavoritesCategory,
		ActionCancel:       StateIdle,
	},
	StateAddingFavoritesCategory: {
		ActionCategorySelected: StateAddingFavoritesRate,
		ActionBack:             StateAddingFavoritesBank,
		ActionCancel:           StateIdle,
	},
	StateAddingFavoritesRate: {
		ActionRateCompleted: StateIdle,
		ActionBack:          StateAddingFavoritesCategory,
		ActionCancel:        StateIdle,
	},
	StateSearching: {
		ActionSearchCompleted: StateIdle,
		ActionCancel:          StateIdle,
	},
	StateWaitingForPayment: {
		ActionPaymentCompleted: StateIdle,
		ActionPaymentFailed:    StateIdle,
		ActionCancel:           StateIdle,
	},
}

// GetState returns the current state, defaulting to idle
func (s *Session) GetState() State {
	if s.FSM.State == "" {
		return StateIdle
	}
	return s.FSM.State
}

// SetState sets the state and merges data into the fsm data map
func (s *Session) SetState(state State, data map[string]string) {
	s.FSM.State = state
	if len(data) == 0 {
		return
	}
	if s.FSM.Data == nil {
		s.FSM.Data = make(map[string]string, len(data))
	}
	for k, v := range data {
		s.FSM.Data[k] = v
	}
}

// IsInState reports whether the session is in state
func (s *Session) IsInState(state State) bool {
	return s.GetState() == state
}

// IsInAnyState reports whether the session is in one of states
func (s *Session) IsInAnyState(states ...State) bool {
	current := s.GetState()
	for _, state := range states {
		if current == state {
			return true
		}
	}
	return false
}

// Transition applies the table for (current state, action) and returns the
// resulting state. Unrecognized actions leave the state unchanged and do not
// merge data, so repeating an invalid action never double-applies side effects.
func (s *Session) Transition(action Action, data map[string]string) State {
	current := s.GetState()

	next, ok := transitions[current][action]
	if !ok || next == current {
		return current
	}

	s.SetState(next, data)
	return next
}

// ResetFSM forces the session back to idle and clears fsm data
func (s *Session) ResetFSM() {
	s.FSM = FSMState{State: StateIdle}
}

// GetData returns one fsm data value, empty if absent
func (s *Session) GetData(key string) string {
	return s.FSM.Data[key]
}

// SetData stores one fsm data value
func (s *Session) SetData(key, value string) {
	if s.FSM.Data == nil {
		s.FSM.Data = make(map[string]string)
	}
	s.FSM.Data[key] = value
}

// ClearData removes one fsm data value
func (s *Session) ClearData(key string) {
	delete(s.FSM.Data, key)
}

// StampActivity records now as the last activity time
func (s *Session) StampActivity(now time.Time) {
	s.SetData(DataLastActivity, now.UTC().Format(time.RFC3339))
}

// IsExpired reports whether the stored last-activity stamp is older than
// SessionTTL. A missing or unparseable stamp is not treated as expired.
func (s *Session) IsExpired(now time.Time) bool {
	raw := s.GetData(DataLastActivity)
	if raw == "" {
		return false
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return now.Sub(last) > SessionTTL
}
