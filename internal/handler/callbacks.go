package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// splitPair parses "<a>:<b>" where both parts are integers
func splitPair(payload string) (int, int, bool) {
	first, second, found := strings.Cut(payload, ":")
	if !found {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(first)
	b, err2 := strconv.Atoi(second)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// handleCallback routes ALL callback queries by data prefix
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.Int64("user_id", c.Sender().ID),
	)

	prefix, payload, _ := strings.Cut(data, ":")
	switch prefix {
	case "cancel":
		return h.handleCancel(c)
	case "back":
		return h.handleBack(c)
	case "select_bank":
		return h.handleBankSelected(c, payload)
	case "toggle_category":
		return h.handleCategoryToggled(c, payload)
	case "confirm_categories":
		return h.handleCategoriesConfirmed(c)
	case "remove_cashback":
		return h.handleCashbackRemoved(c, payload)
	case "fav_add":
		return h.startFavoritesAdd(c)
	case "fav_bank":
		return h.handleFavoriteBankSelected(c, payload)
	case "fav_cat":
		return h.handleFavoriteCategorySelected(c, payload)
	case "fav_mcc":
		return h.handleFavoriteMCCInfo(c, payload)
	case "fav_norate":
		return h.handleFavoriteWithoutRate(c)
	case "fav_remove":
		return h.handleFavoriteRemoved(c, payload)
	case "search_fav":
		return h.handleSearchFavorite(c, payload)
	case "buy_pro":
		return h.handleBuyPro(c)
	case "admin_toggle", "admin_user", "admin_set", "admin_unset":
		return h.handleAdminCallback(c, prefix, payload)
	}

	h.logger.Warn("Unhandled callback", zap.String("data", data))
	return c.Respond()
}

// handleCancel abandons whatever flow is in progress
func (h *Handler) handleCancel(c tele.Context) error {
	session := middleware.SessionFromContext(c)
	session.ResetFSM()
	session.ClearCashbackFlow()
	session.ClearFavoritesFlow()
	session.ClearAdminFlow()

	c.Respond()
	return c.Edit("Отменено.")
}

// handleBack steps whichever flow is active one screen back and re-renders it
func (h *Handler) handleBack(c tele.Context) error {
	session := middleware.SessionFromContext(c)

	switch {
	case session.IsInAnyState(domain.StateSettingCashbackCategories, domain.StateSettingCashbackRates):
		state, err := h.cashbackFlow.Back(session)
		if err != nil {
			return h.respondError(c, err)
		}
		c.Respond()
		if state == domain.StateSettingCashbackCategories {
			bank, err := h.catalog.GetBankByCode(session.Cashback.SelectedBank)
			if err != nil {
				return h.respondError(c, err)
			}
			categories, err := h.catalog.GetCategoriesByBank(bank.ID)
			if err != nil {
				return h.respondError(c, err)
			}
			return c.Edit(
				fmt.Sprintf("Банк: %s\nОтметьте категории и нажмите «Готово»:", bank.Name),
				categoryToggleMarkup(categories, session.Cashback),
			)
		}
		banks, err := h.catalog.GetActiveBanks()
		if err != nil {
			return h.respondError(c, err)
		}
		return c.Edit("Выберите банк:", bankMarkup(banks, "select_bank"))

	case session.IsInAnyState(domain.StateAddingFavoritesCategory, domain.StateAddingFavoritesRate):
		state, err := h.favoritesFlow.Back(session)
		if err != nil {
			return h.respondError(c, err)
		}
		c.Respond()
		if state == domain.StateAddingFavoritesCategory {
			bank, err := h.catalog.GetBankByCode(session.Favorites.SelectedBank)
			if err != nil {
				return h.respondError(c, err)
			}
			available, err := h.favorites.AvailableCategories(c.Sender().ID, bank.ID)
			if err != nil {
				return h.respondError(c, err)
			}
			return c.Edit(
				fmt.Sprintf("Банк: %s\nВыберите категорию или отправьте слово для поиска:", bank.Name),
				favoritesCategoryMarkup(available),
			)
		}
		banks, err := h.catalog.GetActiveBanks()
		if err != nil {
			return h.respondError(c, err)
		}
		return c.Edit("Выберите банк:", bankMarkup(banks, "fav_bank"))

	default:
		return c.Respond(&tele.CallbackResponse{Text: "Сессия устарела, начните заново"})
	}
}

func (h *Handler) handleBankSelected(c tele.Context, bankCode string) error {
	session := middleware.SessionFromContext(c)

	bank, categories, err := h.cashbackFlow.SelectBank(session, bankCode)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Respond()
	return c.Edit(
		fmt.Sprintf("Банк: %s\nОтметьте категории и нажмите «Готово»:", bank.Name),
		categoryToggleMarkup(categories, session.Cashback),
	)
}

func (h *Handler) handleCategoryToggled(c tele.Context, payload string) error {
	categoryID, err := strconv.Atoi(payload)
	if err != nil {
		return c.Respond()
	}

	session := middleware.SessionFromContext(c)
	if _, err := h.cashbackFlow.ToggleCategory(session, categoryID); err != nil {
		return h.respondError(c, err)
	}

	bank, err := h.catalog.GetBankByCode(session.Cashback.SelectedBank)
	if err != nil {
		return h.respondError(c, err)
	}
	categories, err := h.catalog.GetCategoriesByBank(bank.ID)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Respond()
	return c.Edit(
		fmt.Sprintf("Банк: %s\nОтметьте категории и нажмите «Готово»:", bank.Name),
		categoryToggleMarkup(categories, session.Cashback),
	)
}

func (h *Handler) handleCategoriesConfirmed(c tele.Context) error {
	session := middleware.SessionFromContext(c)

	prompt, err := h.cashbackFlow.Confirm(session, c.Sender().ID)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Respond()
	return c.Edit(ratePromptText(prompt))
}

func (h *Handler) handleCashbackRemoved(c tele.Context, payload string) error {
	bankID, categoryID, ok := splitPair(payload)
	if !ok {
		return c.Respond()
	}

	if err := h.cashback.Remove(c.Sender().ID, bankID, categoryID); err != nil {
		return h.respondError(c, err)
	}

	c.Respond(&tele.CallbackResponse{Text: "Удалено"})
	return h.handleRemoveCashback(c)
}

func (h *Handler) handleFavoriteBankSelected(c tele.Context, bankCode string) error {
	session := middleware.SessionFromContext(c)

	bank, available, err := h.favoritesFlow.SelectBank(session, c.Sender().ID, bankCode)
	if err != nil {
		return h.respondError(c, err)
	}
	if len(available) == 0 {
		c.Respond()
		return c.Edit("В этом банке не осталось категорий для добавления.")
	}

	c.Respond()
	return c.Edit(
		fmt.Sprintf("Банк: %s\nВыберите категорию или отправьте слово для поиска:", bank.Name),
		favoritesCategoryMarkup(available),
	)
}

func (h *Handler) handleFavoriteCategorySelected(c tele.Context, payload string) error {
	categoryID, err := strconv.Atoi(payload)
	if err != nil {
		return c.Respond()
	}

	session := middleware.SessionFromContext(c)
	category, err := h.favoritesFlow.SelectCategory(session, categoryID)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Respond()
	return c.Edit(
		fmt.Sprintf("Категория: %s\nОтправьте ставку кэшбэка (число от 0 до 100, можно дробную) или добавьте без ставки:", category.Name),
		favoriteRateMarkup(category.ID),
	)
}

// handleFavoriteMCCInfo shows the category's MCC codes; informational only,
// the flow position does not change
func (h *Handler) handleFavoriteMCCInfo(c tele.Context, payload string) error {
	categoryID, err := strconv.Atoi(payload)
	if err != nil {
		return c.Respond()
	}

	category, err := h.catalog.GetCategory(categoryID)
	if err != nil {
		return h.respondError(c, err)
	}

	text := "MCC-коды не указаны"
	if len(category.MCCCodes) > 0 {
		text = "MCC: " + strings.Join(category.MCCCodes, ", ")
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

func (h *Handler) handleFavoriteWithoutRate(c tele.Context) error {
	session := middleware.SessionFromContext(c)

	result, err := h.favoritesFlow.AddWithoutRate(session, c.Sender().ID)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Respond()
	return c.Edit("Добавлено в избранное: " + result.Category.Name)
}

func (h *Handler) handleFavoriteRemoved(c tele.Context, payload string) error {
	bankID, categoryID, ok := splitPair(payload)
	if !ok {
		return c.Respond()
	}

	if err := h.favorites.Remove(c.Sender().ID, bankID, categoryID); err != nil {
		return h.respondError(c, err)
	}

	c.Respond(&tele.CallbackResponse{Text: "Удалено из избранного"})
	return h.handleFavorites(c)
}

// handleSearchFavorite adds a search hit straight to favorites without a rate
func (h *Handler) handleSearchFavorite(c tele.Context, payload string) error {
	bankID, categoryID, ok := splitPair(payload)
	if !ok {
		return c.Respond()
	}

	if err := h.favorites.Add(c.Sender().ID, bankID, categoryID, nil); err != nil {
		return h.respondError(c, err)
	}
	return c.Respond(&tele.CallbackResponse{Text: "Добавлено в избранное"})
}

// handleAdminCallback routes the admin_* prefixes; non-admins are refused
// here because OnCallback bypasses the command-level admin middleware
func (h *Handler) handleAdminCallback(c tele.Context, prefix, payload string) error {
	if !h.settings.IsAdmin(c.Sender().ID) {
		return c.Respond(&tele.CallbackResponse{Text: "Только для администраторов"})
	}

	switch prefix {
	case "admin_toggle":
		return h.toggleGlobal(c, domain.ServiceType(payload))
	case "admin_user":
		return h.requestUserTarget(c, domain.ServiceType(payload))
	case "admin_set":
		parts := strings.Split(payload, ":")
		if len(parts) != 3 {
			return c.Respond()
		}
		targetID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return c.Respond()
		}
		service := domain.ServiceType(parts[0])
		enabled := parts[2] == "1"
		note := fmt.Sprintf("set by admin %d", c.Sender().ID)
		if err := h.settings.ToggleUserService(targetID, service, enabled, note); err != nil {
			return h.respondError(c, err)
		}
		c.Respond(&tele.CallbackResponse{Text: "Готово"})
		return h.showUserOverride(c, service, targetID)
	case "admin_unset":
		servicePart, idPart, found := strings.Cut(payload, ":")
		if !found {
			return c.Respond()
		}
		targetID, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return c.Respond()
		}
		service := domain.ServiceType(servicePart)
		if err := h.settings.RemoveUserSetting(targetID, service); err != nil {
			return h.respondError(c, err)
		}
		c.Respond(&tele.CallbackResponse{Text: "Сброшено"})
		return h.showUserOverride(c, service, targetID)
	}
	return c.Respond()
}
