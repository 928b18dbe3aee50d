package handler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()

	h.logger.Info("User started bot",
		zap.Int64("user_id", sender.ID),
		zap.String("username", sender.Username),
	)

	if _, err := h.users.GetOrCreate(sender.ID, sender.Username, sender.FirstName); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}

	return c.Send(
		"Привет! Я помогу разобраться с кэшбэком.\n\n"+
			"Отправь название категории или MCC-код, чтобы узнать, где за неё больше кэшбэка.\n\n"+
			"Команды:\n"+
			"/set_cashback — настроить свои ставки кэшбэка\n"+
			"/my_cashback — мои ставки\n"+
			"/favorites — избранные категории\n"+
			"/search — поиск категорий\n"+
			"/subscription — подписка\n"+
			"/help — справка",
	)
}

// handleHelp handles /help command
func (h *Handler) handleHelp(c tele.Context) error {
	return c.Send(
		"Как пользоваться ботом:\n\n" +
			"1. Настройте ставки кэшбэка своих банков: /set_cashback\n" +
			"2. Добавьте любимые категории в избранное: /favorites\n" +
			"3. Отправьте название категории или 4-значный MCC-код — я найду подходящие категории и покажу ваши ставки.\n\n" +
			"Бесплатный тариф ограничен по числу банков и категорий; Pro снимает лимиты: /subscription",
	)
}

// handleBanks lists supported banks
func (h *Handler) handleBanks(c tele.Context) error {
	banks, err := h.catalog.GetActiveBanks()
	if err != nil {
		return h.replyError(c, err)
	}
	if len(banks) == 0 {
		return c.Send("Список банков пока пуст.")
	}

	var b strings.Builder
	b.WriteString("Поддерживаемые банки:\n\n")
	for _, bank := range banks {
		fmt.Fprintf(&b, "• %s\n", bank.Name)
	}
	return c.Send(b.String())
}

// handleStats handles /stats command
func (h *Handler) handleStats(c tele.Context) error {
	stats, err := h.stats.GetUserStats(c.Sender().ID)
	if err != nil {
		return h.replyError(c, err)
	}

	tier := "Бесплатный"
	if stats.Status.BypassesLimits() {
		tier = "Pro"
	}

	var b strings.Builder
	b.WriteString("Ваша статистика:\n\n")
	fmt.Fprintf(&b, "Тариф: %s\n", tier)
	fmt.Fprintf(&b, "Ставок кэшбэка: %d (банков: %d)\n", stats.CashbackTotal, stats.CashbackBanks)
	fmt.Fprintf(&b, "В избранном: %d (банков: %d)\n", stats.FavoritesTotal, stats.FavoriteBanks)
	return c.Send(b.String())
}
