package handler

import (
	"fmt"
	"strings"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/middleware"

	tele "gopkg.in/telebot.v3"
)

// handleAdminServices shows every service with its global flag and controls
func (h *Handler) handleAdminServices(c tele.Context) error {
	settings, err := h.settings.ListAll()
	if err != nil {
		return h.replyError(c, err)
	}

	enabled := make(map[domain.ServiceType]bool, len(settings))
	for _, service := range domain.AllServiceTypes() {
		enabled[service] = true
	}
	for _, setting := range settings {
		if setting.Scope == domain.ScopeGlobal {
			enabled[setting.ServiceType] = setting.IsEnabled
		}
	}

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	var b strings.Builder
	b.WriteString("Управление сервисами:\n\n")
	for _, service := range domain.AllServiceTypes() {
		marker := "🟢"
		if !enabled[service] {
			marker = "🔴"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, domain.ServiceTitle(service))

		rows = append(rows, markup.Row(
			markup.Data(fmt.Sprintf("%s %s", marker, service), "", fmt.Sprintf("admin_toggle:%s", service)),
			markup.Data("👤", "", fmt.Sprintf("admin_user:%s", service)),
		))
	}
	markup.Inline(rows...)

	return c.Send(b.String(), markup)
}

// toggleGlobal flips the global flag for a service
func (h *Handler) toggleGlobal(c tele.Context, service domain.ServiceType) error {
	enabled, _, err := h.settings.EffectiveStatus(0, service)
	if err != nil {
		return h.respondError(c, err)
	}

	note := fmt.Sprintf("toggled by admin %d", c.Sender().ID)
	if err := h.settings.ToggleGlobalService(service, !enabled, note); err != nil {
		return h.respondError(c, err)
	}

	c.Respond(&tele.CallbackResponse{Text: "Готово"})
	return h.handleAdminServices(c)
}

// requestUserTarget starts the per-user override flow for a service
func (h *Handler) requestUserTarget(c tele.Context, service domain.ServiceType) error {
	session := middleware.SessionFromContext(c)

	if err := h.settings.RequestUserTarget(session, service); err != nil {
		return h.respondError(c, err)
	}

	c.Respond()
	return c.Send(fmt.Sprintf("Отправьте числовой ID пользователя для «%s»:", domain.ServiceTitle(service)))
}

// handleAdminUserIDInput consumes the admin's free-text user id reply
func (h *Handler) handleAdminUserIDInput(c tele.Context, text string) error {
	session := middleware.SessionFromContext(c)

	targetID, service, err := h.settings.HandleUserIDInput(session, text)
	if err != nil {
		return c.Send("ID пользователя должен быть числом. Попробуйте ещё раз.")
	}

	return h.showUserOverride(c, service, targetID)
}

// showUserOverride renders the effective status plus toggle/remove controls
func (h *Handler) showUserOverride(c tele.Context, service domain.ServiceType, targetID int64) error {
	enabled, overridden, err := h.settings.EffectiveStatus(targetID, service)
	if err != nil {
		return h.replyError(c, err)
	}

	status := "включён"
	if !enabled {
		status = "выключен"
	}
	source := "глобально"
	if overridden {
		source = "индивидуально"
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("Включить", "", fmt.Sprintf("admin_set:%s:%d:1", service, targetID)),
			markup.Data("Выключить", "", fmt.Sprintf("admin_set:%s:%d:0", service, targetID)),
		),
		markup.Row(markup.Data("Сбросить к глобальному", "", fmt.Sprintf("admin_unset:%s:%d", service, targetID))),
	)

	return c.Send(fmt.Sprintf(
		"«%s» для пользователя %d: %s (%s)",
		domain.ServiceTitle(service), targetID, status, source,
	), markup)
}
