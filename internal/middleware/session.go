package middleware

import (
	"time"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const sessionContextKey = "session"

// SessionMiddleware loads the sender's session before the handler runs and
// persists it afterwards. Actions from the same session key are serialized
// so two updates can never race on one blob. An update without a sender or
// chat gets a transient in-memory session for that single action.
func SessionMiddleware(sessions *service.SessionManager, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()
			if sender == nil || chat == nil {
				session := domain.NewSession("")
				session.Transient = true
				c.Set(sessionContextKey, session)
				return next(c)
			}

			key := domain.SessionKey(sender.ID, chat.ID)
			unlock := sessions.Lock(key)
			defer unlock()

			session := sessions.Load(key)
			now := time.Now()

			if session.IsExpired(now) {
				logger.Info("Session expired, resetting to idle",
					zap.String("key", key),
					zap.String("state", string(session.GetState())),
				)
				session.ResetFSM()
				session.ClearCashbackFlow()
				session.ClearFavoritesFlow()
				session.ClearAdminFlow()
			}
			session.StampActivity(now)

			c.Set(sessionContextKey, session)
			err := next(c)

			sessions.Save(session)
			return err
		}
	}
}

// SessionFromContext returns the session the middleware attached. Handlers
// registered without the middleware get a transient session rather than nil.
func SessionFromContext(c tele.Context) *domain.Session {
	if session, ok := c.Get(sessionContextKey).(*domain.Session); ok {
		return session
	}
	session := domain.NewSession("")
	session.Transient = true
	return session
}
