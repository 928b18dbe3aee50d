package handler

import (
	"fmt"

	"cashbackhelp/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleSubscription handles /subscription command
func (h *Handler) handleSubscription(c tele.Context) error {
	status, err := h.subscription.GetStatus(c.Sender().ID)
	if err != nil {
		return h.replyError(c, err)
	}

	if status.BypassesLimits() {
		return c.Send(fmt.Sprintf(
			"У вас Pro-подписка, лимиты сняты.\nДействует до %s.",
			status.ExpiryDate.Format("02.01.2006"),
		))
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Купить Pro за Stars", "", "buy_pro")))

	return c.Send(fmt.Sprintf(
		"У вас бесплатный тариф:\n"+
			"• до %d банков\n"+
			"• до %d категорий на банк\n\n"+
			"Pro снимает лимиты.",
		status.Limits.MaxBanks, status.Limits.MaxCategoriesPerBank,
	), markup)
}

// handleBuyPro creates a Stars invoice for the Pro subscription
func (h *Handler) handleBuyPro(c tele.Context) error {
	session := middleware.SessionFromContext(c)

	if _, err := h.payment.CreateProInvoice(session, c.Sender().ID); err != nil {
		return h.respondError(c, err)
	}
	return c.Respond(&tele.CallbackResponse{Text: "Счёт отправлен"})
}

// handleCheckout confirms the pre-checkout query so Telegram proceeds with
// the payment
func (h *Handler) handleCheckout(c tele.Context) error {
	return c.Accept()
}

// handlePayment handles a successful payment notification
func (h *Handler) handlePayment(c tele.Context) error {
	payment := c.Message().Payment
	if payment == nil {
		return nil
	}

	session := middleware.SessionFromContext(c)

	if _, err := h.payment.HandleSuccess(session, payment.Payload); err != nil {
		h.logger.Error("Failed to settle payment",
			zap.Error(err),
			zap.String("payload", payment.Payload),
		)
		return c.Send("Оплата получена, но активация не удалась. Напишите в поддержку.")
	}

	return c.Send("Оплата прошла! Pro-подписка активирована, лимиты сняты.")
}
