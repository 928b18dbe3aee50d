package handler

import (
	"cashbackhelp/internal/service"

	tele "gopkg.in/telebot.v3"
)

// StarsProvider sends Telegram Stars invoices. Stars payments use the XTR
// currency and need no provider token.
type StarsProvider struct {
	bot *tele.Bot
}

// NewStarsProvider creates a Stars payment provider
func NewStarsProvider(bot *tele.Bot) *StarsProvider {
	return &StarsProvider{bot: bot}
}

// SendInvoice implements service.PaymentProvider
func (p *StarsProvider) SendInvoice(userID int64, invoice service.ProInvoice) error {
	_, err := p.bot.Send(&tele.User{ID: userID}, &tele.Invoice{
		Title:       invoice.Title,
		Description: invoice.Description,
		Payload:     invoice.Payload,
		Currency:    "XTR",
		Prices: []tele.Price{
			{Label: invoice.Title, Amount: invoice.AmountStars},
		},
	})
	return err
}
