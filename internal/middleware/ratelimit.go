package middleware

import (
	"fmt"

	"cashbackhelp/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RateLimitMiddleware rejects updates over the user's request budget before
// they reach any flow controller. The budget depends on subscription tier.
func RateLimitMiddleware(limiter *service.RateLimiter, subs *service.SubscriptionService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			pro := false
			if status, err := subs.GetStatus(sender.ID); err == nil {
				pro = status.BypassesLimits()
			}

			allowed, retryAfter := limiter.Allow(sender.ID, pro)
			if !allowed {
				logger.Warn("Rate limit exceeded",
					zap.Int64("user_id", sender.ID),
					zap.Duration("retry_after", retryAfter),
				)
				message := fmt.Sprintf("Слишком много запросов. Подождите %d сек.", int(retryAfter.Seconds())+1)
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: message})
				}
				return c.Send(message)
			}

			return next(c)
		}
	}
}
