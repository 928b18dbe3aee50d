package domain

import "fmt"

// Session is the per-(user, chat) conversation state. It is the blob the
// session store persists; the store never interprets its contents.
type Session struct {
	Key       string         `json:"-"`
	FSM       FSMState       `json:"fsm"`
	Cashback  *CashbackFlow  `json:"cashback,omitempty"`
	Favorites *FavoritesFlow `json:"favorites,omitempty"`
	Admin     *AdminFlow     `json:"admin,omitempty"`
	Transient bool           `json:"-"`
}

// FSMState is the explicit top-level state plus auxiliary key/value data
type FSMState struct {
	State State             `json:"state"`
	Data  map[string]string `json:"data,omitempty"`
}

// CashbackFlow is the cashback-rate setup sub-state.
// CurrentCategoryIndex is meaningful only while WaitingForRates is true;
// reaching len(SelectedCategories) signals completion.
type CashbackFlow struct {
	SelectedBank         string `json:"selectedBank,omitempty"`
	SelectedCategories   []int  `json:"selectedCategories,omitempty"`
	WaitingForRates      bool   `json:"waitingForRates,omitempty"`
	CurrentCategoryIndex int    `json:"currentCategoryIndex,omitempty"`
}

// Toggle flips membership of categoryID in SelectedCategories. Insertion
// order is preserved for untouched entries, so toggling twice restores the
// original contents.
func (f *CashbackFlow) Toggle(categoryID int) (selected bool) {
	for i, id := range f.SelectedCategories {
		if id == categoryID {
			f.SelectedCategories = append(f.SelectedCategories[:i], f.SelectedCategories[i+1:]...)
			return false
		}
	}
	f.SelectedCategories = append(f.SelectedCategories, categoryID)
	return true
}

// Has reports whether categoryID is currently selected
func (f *CashbackFlow) Has(categoryID int) bool {
	for _, id := range f.SelectedCategories {
		if id == categoryID {
			return true
		}
	}
	return false
}

// FavoritesFlow is the favorites setup sub-state. SelectedCategory is set
// only after SelectedBank; WaitingForCashbackRate implies both are set.
type FavoritesFlow struct {
	SelectedBank           string `json:"selectedBank,omitempty"`
	SelectedCategory       int    `json:"selectedCategory,omitempty"`
	WaitingForCashbackRate bool   `json:"waitingForCashbackRate,omitempty"`
}

// AdminFlow holds the per-user settings targeting sub-state. WaitingForUserID
// is non-empty only between "admin requested per-user settings for service X"
// and "admin supplied a numeric id".
type AdminFlow struct {
	WaitingForUserID ServiceType `json:"waitingForUserId,omitempty"`
}

// SessionKey derives the stable composite identity for a (user, chat) pair
func SessionKey(userID, chatID int64) string {
	return fmt.Sprintf("%d:%d", userID, chatID)
}

// NewSession returns a fresh idle session for key
func NewSession(key string) *Session {
	return &Session{
		Key: key,
		FSM: FSMState{State: StateIdle},
	}
}

// ClearCashbackFlow drops the cashback sub-state entirely
func (s *Session) ClearCashbackFlow() {
	s.Cashback = nil
}

// ClearFavoritesFlow drops the favorites sub-state entirely
func (s *Session) ClearFavoritesFlow() {
	s.Favorites = nil
}

// ClearAdminFlow drops the admin targeting sub-state
func (s *Session) ClearAdminFlow() {
	s.Admin = nil
}
