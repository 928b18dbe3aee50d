package middleware

import (
	"cashbackhelp/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AdminOnly restricts a handler group to configured admin user ids
func AdminOnly(settings *service.SettingsService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || !settings.IsAdmin(sender.ID) {
				if sender != nil {
					logger.Warn("Non-admin tried admin action", zap.Int64("user_id", sender.ID))
				}
				return c.Send("Эта команда доступна только администраторам.")
			}
			return next(c)
		}
	}
}
