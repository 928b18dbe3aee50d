package handler

import (
	"fmt"
	"strings"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/middleware"
	"cashbackhelp/internal/service"

	tele "gopkg.in/telebot.v3"
)

// handleSetCashback starts the cashback setup flow
func (h *Handler) handleSetCashback(c tele.Context) error {
	session := middleware.SessionFromContext(c)

	banks, err := h.cashbackFlow.StartSetup(session)
	if err != nil {
		return h.replyError(c, err)
	}
	if len(banks) == 0 {
		return c.Send("Список банков пока пуст.")
	}

	return c.Send("Выберите банк:", bankMarkup(banks, "select_bank"))
}

// handleMyCashback handles /my_cashback command
func (h *Handler) handleMyCashback(c tele.Context) error {
	groups, err := h.cashback.ListGrouped(c.Sender().ID)
	if err != nil {
		return h.replyError(c, err)
	}
	if len(groups) == 0 {
		return c.Send("У вас пока нет настроенных ставок. Начните с /set_cashback")
	}

	var b strings.Builder
	b.WriteString("Ваши ставки кэшбэка:\n")
	for _, group := range groups {
		fmt.Fprintf(&b, "\n%s:\n", group.BankName)
		for _, setting := range group.Settings {
			fmt.Fprintf(&b, "  • %s — %d%%\n", setting.CategoryName, setting.Rate)
		}
	}
	return c.Send(b.String())
}

// handleRemoveCashback lists settings with per-row remove buttons
func (h *Handler) handleRemoveCashback(c tele.Context) error {
	settings, err := h.cashback.List(c.Sender().ID)
	if err != nil {
		return h.replyError(c, err)
	}
	if len(settings) == 0 {
		return c.Send("У вас пока нет настроенных ставок.")
	}

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, setting := range settings {
		label := fmt.Sprintf("%s / %s — %d%%", setting.BankName, setting.CategoryName, setting.Rate)
		data := fmt.Sprintf("remove_cashback:%d:%d", setting.BankID, setting.CategoryID)
		rows = append(rows, markup.Row(markup.Data(label, "", data)))
	}
	markup.Inline(rows...)

	return c.Send("Какую ставку удалить?", markup)
}

// bankMarkup renders one button per bank with a prefix-coded payload
func bankMarkup(banks []domain.Bank, prefix string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, bank := range banks {
		data := fmt.Sprintf("%s:%s", prefix, bank.Code)
		rows = append(rows, markup.Row(markup.Data(bank.Name, "", data)))
	}
	rows = append(rows, markup.Row(markup.Data("Отмена", "", "cancel")))
	markup.Inline(rows...)
	return markup
}

// categoryToggleMarkup renders the multi-select category list with
// checked/unchecked markers and a confirm row
func categoryToggleMarkup(categories []domain.Category, flow *domain.CashbackFlow) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, category := range categories {
		marker := "⬜"
		if flow != nil && flow.Has(category.ID) {
			marker = "✅"
		}
		label := fmt.Sprintf("%s %s", marker, category.Name)
		data := fmt.Sprintf("toggle_category:%d", category.ID)
		rows = append(rows, markup.Row(markup.Data(label, "", data)))
	}
	rows = append(rows,
		markup.Row(markup.Data("Готово", "", "confirm_categories")),
		markup.Row(
			markup.Data("Назад", "", "back"),
			markup.Data("Отмена", "", "cancel"),
		),
	)
	markup.Inline(rows...)
	return markup
}

func ratePromptText(prompt *service.RatePrompt) string {
	return fmt.Sprintf(
		"(%d/%d) Введите ставку кэшбэка для категории «%s» в %s (целое число от 0 до 100):",
		prompt.Position, prompt.Total, prompt.Category.Name, prompt.Bank.Name,
	)
}
