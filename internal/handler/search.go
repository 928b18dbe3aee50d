package handler

import (
	"fmt"
	"strings"

	"cashbackhelp/internal/service"

	tele "gopkg.in/telebot.v3"
)

// handleSearchPrompt handles /search command
func (h *Handler) handleSearchPrompt(c tele.Context) error {
	return c.Send("Отправьте название категории или 4-значный MCC-код. Можно уточнить банк, например: sber 5411")
}

// handleSearchQuery answers a free-text query
func (h *Handler) handleSearchQuery(c tele.Context, query string) error {
	matches, intent, err := h.search.Search(c.Sender().ID, query)
	if err != nil {
		return h.replyError(c, err)
	}
	if len(matches) == 0 {
		if intent.IsMCC() {
			return c.Send(fmt.Sprintf("По MCC-коду %s ничего не найдено.", intent.MCC))
		}
		return c.Send("Ничего не найдено. Попробуйте другой запрос.")
	}

	return c.Send(searchResultsText(matches), searchResultsMarkup(matches))
}

func searchResultsText(matches []service.SearchMatch) string {
	var b strings.Builder
	b.WriteString("Найденные категории:\n\n")
	for _, match := range matches {
		bankName := "?"
		if match.Bank != nil {
			bankName = match.Bank.Name
		}
		fmt.Fprintf(&b, "• %s (%s)", match.Category.Name, bankName)
		if match.UserRate != nil {
			fmt.Fprintf(&b, " — ваша ставка %d%%", *match.UserRate)
		}
		if len(match.Category.MCCCodes) > 0 {
			fmt.Fprintf(&b, "\n  MCC: %s", strings.Join(match.Category.MCCCodes, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// searchResultsMarkup offers add-to-favorites shortcuts for the hits
func searchResultsMarkup(matches []service.SearchMatch) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, match := range matches {
		if match.Bank == nil {
			continue
		}
		label := fmt.Sprintf("⭐ %s", match.Category.Name)
		data := fmt.Sprintf("search_fav:%d:%d", match.Bank.ID, match.Category.ID)
		rows = append(rows, markup.Row(markup.Data(label, "", data)))
	}
	markup.Inline(rows...)
	return markup
}
