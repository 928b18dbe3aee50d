package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Transition_Table(t *testing.T) {
	tests := []struct {
		name     string
		from     State
		action   Action
		expected State
	}{
		{"idle starts cashback setup", StateIdle, ActionStartCashbackSetup, StateSettingCashbackBank},
		{"idle starts favorites add", StateIdle, ActionStartFavoritesAdd, StateAddingFavoritesBank},
		{"idle starts search", StateIdle, ActionStartSearch, StateSearching},
		{"bank selected moves to categories", StateSettingCashbackBank, ActionBankSelected, StateSettingCashbackCategories},
		{"cancel from bank selection", StateSettingCashbackBank, ActionCancel, StateIdle},
		{"categories confirmed moves to rates", StateSettingCashbackCategories, ActionCategoriesConfirmed, StateSettingCashbackRates},
		{"back from categories", StateSettingCashbackCategories, ActionBack, StateSettingCashbackBank},
		{"rates completed returns to idle", StateSettingCashbackRates, ActionRatesCompleted, StateIdle},
		{"back from rates", StateSettingCashbackRates, ActionBack, StateSettingCashbackCategories},
		{"favorites bank selected", StateAddingFavoritesBank, ActionBankSelected, StateAddingFavoritesCategory},
		{"favorites category selected", StateAddingFavoritesCategory, ActionCategorySelected, StateAddingFavoritesRate},
		{"favorites back to bank", StateAddingFavoritesCategory, ActionBack, StateAddingFavoritesBank},
		{"favorites rate completed", StateAddingFavoritesRate, ActionRateCompleted, StateIdle},
		{"favorites back to category", StateAddingFavoritesRate, ActionBack, StateAddingFavoritesCategory},
		{"search completed", StateSearching, ActionSearchCompleted, StateIdle},
		{"search cancelled", StateSearching, ActionCancel, StateIdle},
		{"payment completed", StateWaitingForPayment, ActionPaymentCompleted, StateIdle},
		{"payment failed", StateWaitingForPayment, ActionPaymentFailed, StateIdle},
		{"payment cancelled", StateWaitingForPayment, ActionCancel, StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("1:1")
			s.SetState(tt.from, nil)

			got := s.Transition(tt.action, nil)

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected, s.GetState())
		})
	}
}

func TestSession_Transition_UnlistedPairsAreNoOps(t *testing.T) {
	tests := []struct {
		name   string
		from   State
		action Action
	}{
		{"idle ignores bank_selected", StateIdle, ActionBankSelected},
		{"idle ignores cancel", StateIdle, ActionCancel},
		{"bank selection ignores categories_confirmed", StateSettingCashbackBank, ActionCategoriesConfirmed},
		{"bank selection ignores back", StateSettingCashbackBank, ActionBack},
		{"rates ignores bank_selected", StateSettingCashbackRates, ActionBankSelected},
		{"favorites bank ignores back", StateAddingFavoritesBank, ActionBack},
		{"searching ignores rates_completed", StateSearching, ActionRatesCompleted},
		{"payment ignores start_search", StateWaitingForPayment, ActionStartSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("1:1")
			s.SetState(tt.from, nil)

			got := s.Transition(tt.action, nil)

			assert.Equal(t, tt.from, got)
			assert.Equal(t, tt.from, s.GetState())
		})
	}
}

func TestSession_Transition_InvalidActionDoesNotApplyData(t *testing.T) {
	s := NewSession("1:1")
	s.SetState(StateSettingCashbackRates, map[string]string{"bank": "sber"})

	// Invalid from this state twice; data must never be merged
	s.Transition(ActionStartSearch, map[string]string{"poison": "1"})
	s.Transition(ActionStartSearch, map[string]string{"poison": "2"})

	assert.Equal(t, StateSettingCashbackRates, s.GetState())
	assert.Equal(t, "sber", s.GetData("bank"))
	assert.Empty(t, s.GetData("poison"))
}

func TestSession_SetState_MergesData(t *testing.T) {
	s := NewSession("1:1")
	s.SetState(StateSearching, map[string]string{"a": "1"})
	s.SetState(StateSearching, map[string]string{"b": "2"})

	assert.Equal(t, "1", s.GetData("a"))
	assert.Equal(t, "2", s.GetData("b"))
}

func TestSession_ResetFSM(t *testing.T) {
	s := NewSession("1:1")
	s.SetState(StateSettingCashbackRates, map[string]string{"bank": "sber"})

	s.ResetFSM()

	assert.Equal(t, StateIdle, s.GetState())
	assert.Empty(t, s.GetData("bank"))
}

func TestSession_IsInAnyState(t *testing.T) {
	s := NewSession("1:1")
	s.SetState(StateSearching, nil)

	assert.True(t, s.IsInAnyState(StateIdle, StateSearching))
	assert.False(t, s.IsInAnyState(StateIdle, StateWaitingForPayment))
}

func TestSession_GetState_DefaultsToIdle(t *testing.T) {
	s := &Session{}
	assert.Equal(t, StateIdle, s.GetState())
	assert.True(t, s.IsInState(StateIdle))
}

func TestSession_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		stamp   string
		expired bool
	}{
		{"fresh stamp", now.Add(-5 * time.Minute).Format(time.RFC3339), false},
		{"just under ttl", now.Add(-29 * time.Minute).Format(time.RFC3339), false},
		{"over ttl", now.Add(-31 * time.Minute).Format(time.RFC3339), true},
		{"missing stamp", "", false},
		{"garbage stamp", "not-a-time", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("1:1")
			if tt.stamp != "" {
				s.SetData(DataLastActivity, tt.stamp)
			}
			assert.Equal(t, tt.expired, s.IsExpired(now))
		})
	}
}

func TestSession_StampActivity(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("1:1")

	s.StampActivity(now)

	assert.False(t, s.IsExpired(now.Add(29*time.Minute)))
	assert.True(t, s.IsExpired(now.Add(31*time.Minute)))
}
