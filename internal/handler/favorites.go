package handler

import (
	"fmt"
	"strings"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/middleware"

	tele "gopkg.in/telebot.v3"
)

// handleFavorites shows the user's favorites with add/remove controls
func (h *Handler) handleFavorites(c tele.Context) error {
	userID := c.Sender().ID

	favorites, err := h.favorites.List(userID)
	if err != nil {
		return h.replyError(c, err)
	}

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	rows = append(rows, markup.Row(markup.Data("➕ Добавить категорию", "", "fav_add")))
	for _, favorite := range favorites {
		data := fmt.Sprintf("fav_remove:%d:%d", favorite.BankID, favorite.CategoryID)
		label := fmt.Sprintf("🗑 %s / %s", favorite.BankName, favorite.CategoryName)
		rows = append(rows, markup.Row(markup.Data(label, "", data)))
	}
	markup.Inline(rows...)

	if len(favorites) == 0 {
		return c.Send("В избранном пока пусто.", markup)
	}
	return c.Send(favoritesListText(favorites)+h.favoritesUsageLine(userID, favorites), markup)
}

// favoritesUsageLine appends free-tier usage; pro users and lookup failures
// get no extra line
func (h *Handler) favoritesUsageLine(userID int64, favorites []domain.Favorite) string {
	status, err := h.subscription.GetStatus(userID)
	if err != nil || status.BypassesLimits() {
		return ""
	}

	banks := make(map[int]struct{}, len(favorites))
	for _, favorite := range favorites {
		banks[favorite.BankID] = struct{}{}
	}
	return fmt.Sprintf("\nБанков: %d из %d (бесплатный тариф).", len(banks), status.Limits.MaxBanks)
}

// favoritesListText renders favorites grouped by bank
func favoritesListText(favorites []domain.Favorite) string {
	var b strings.Builder
	b.WriteString("Ваше избранное:\n")

	lastBank := ""
	for _, favorite := range favorites {
		if favorite.BankName != lastBank {
			fmt.Fprintf(&b, "\n%s:\n", favorite.BankName)
			lastBank = favorite.BankName
		}
		if favorite.Rate != nil {
			fmt.Fprintf(&b, "  • %s — %s%%\n", favorite.CategoryName, formatRate(*favorite.Rate))
		} else {
			fmt.Fprintf(&b, "  • %s\n", favorite.CategoryName)
		}
	}
	return b.String()
}

// formatRate renders a favorite rate without trailing zeros
func formatRate(rate float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.2f", rate), "0")
	return strings.TrimRight(s, ".")
}

// startFavoritesAdd opens bank selection for the favorites flow
func (h *Handler) startFavoritesAdd(c tele.Context) error {
	session := middleware.SessionFromContext(c)

	banks, err := h.favoritesFlow.Start(session, c.Sender().ID)
	if err != nil {
		return h.respondError(c, err)
	}
	if len(banks) == 0 {
		return c.Edit("Список банков пока пуст.")
	}

	c.Respond()
	return c.Edit("Выберите банк:", bankMarkup(banks, "fav_bank"))
}

// favoritesCategoryMarkup renders selectable categories for the chosen bank
func favoritesCategoryMarkup(categories []domain.Category) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, category := range categories {
		data := fmt.Sprintf("fav_cat:%d", category.ID)
		rows = append(rows, markup.Row(markup.Data(category.Name, "", data)))
	}
	rows = append(rows, markup.Row(
		markup.Data("Назад", "", "back"),
		markup.Data("Отмена", "", "cancel"),
	))
	markup.Inline(rows...)
	return markup
}

// favoriteRateMarkup offers the optional-rate choices for a chosen category
func favoriteRateMarkup(categoryID int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Показать MCC-коды", "", fmt.Sprintf("fav_mcc:%d", categoryID))),
		markup.Row(markup.Data("Добавить без ставки", "", fmt.Sprintf("fav_norate:%d", categoryID))),
		markup.Row(
			markup.Data("Назад", "", "back"),
			markup.Data("Отмена", "", "cancel"),
		),
	)
	return markup
}
