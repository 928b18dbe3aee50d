package handler

import (
	"errors"
	"strings"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/middleware"

	tele "gopkg.in/telebot.v3"
)

// handleText dispatches free text. Precedence, first match wins:
// admin awaiting a user id, cashback flow awaiting a rate, favorites flow
// awaiting a rate, favorites flow mid-search, then general search.
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	session := middleware.SessionFromContext(c)
	userID := c.Sender().ID

	if _, waiting := h.settings.AwaitingUserID(session); waiting && h.settings.IsAdmin(userID) {
		return h.handleAdminUserIDInput(c, text)
	}

	if h.cashbackFlow.AwaitingRate(session) {
		return h.handleCashbackRateInput(c, session, userID, text)
	}

	if h.favoritesFlow.AwaitingRate(session) {
		return h.handleFavoriteRateInput(c, session, userID, text)
	}

	if h.favoritesFlow.InMidSearch(session) {
		return h.handleFavoritesSearch(c, session, userID, text)
	}

	return h.handleSearchQuery(c, text)
}

func (h *Handler) handleCashbackRateInput(c tele.Context, session *domain.Session, userID int64, text string) error {
	step, err := h.cashbackFlow.RateInput(session, userID, text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Send("Ставка должна быть целым числом от 0 до 100. Попробуйте ещё раз.")
		}
		return h.replyError(c, err)
	}

	if step.Done {
		return c.Send("Готово! Ставки сохранены. Посмотреть: /my_cashback")
	}
	return c.Send(ratePromptText(step.Next))
}

func (h *Handler) handleFavoriteRateInput(c tele.Context, session *domain.Session, userID int64, text string) error {
	result, err := h.favoritesFlow.RateInput(session, userID, text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Send("Ставка должна быть числом от 0 до 100 (можно дробную). Попробуйте ещё раз.")
		}
		return h.replyError(c, err)
	}

	return c.Send("Добавлено в избранное: " + result.Category.Name)
}

func (h *Handler) handleFavoritesSearch(c tele.Context, session *domain.Session, userID int64, term string) error {
	matched, err := h.favoritesFlow.Search(session, userID, term)
	if err != nil {
		return h.replyError(c, err)
	}
	if len(matched) == 0 {
		return c.Send("Ничего не нашлось. Попробуйте другое слово.")
	}

	return c.Send("Выберите категорию:", favoritesCategoryMarkup(matched))
}
