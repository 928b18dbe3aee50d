package middleware

import (
	"strings"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var commandServices = map[string]domain.ServiceType{
	"/set_cashback":    domain.ServiceSetCashback,
	"/my_cashback":     domain.ServiceMyCashback,
	"/remove_cashback": domain.ServiceRemoveCashback,
	"/search":          domain.ServiceSearch,
	"/favorites":       domain.ServiceFavorites,
	"/subscription":    domain.ServiceSubscription,
	"/stats":           domain.ServiceStats,
	"/banks":           domain.ServiceBanks,
}

var callbackServices = map[string]domain.ServiceType{
	"select_bank":        domain.ServiceSetCashback,
	"toggle_category":    domain.ServiceSetCashback,
	"confirm_categories": domain.ServiceSetCashback,
	"remove_cashback":    domain.ServiceRemoveCashback,
	"fav_add":            domain.ServiceFavorites,
	"fav_bank":           domain.ServiceFavorites,
	"fav_cat":            domain.ServiceFavorites,
	"fav_mcc":            domain.ServiceFavorites,
	"fav_norate":         domain.ServiceFavorites,
	"fav_remove":         domain.ServiceFavorites,
	"search_fav":         domain.ServiceFavorites,
	"buy_pro":            domain.ServiceSubscription,
}

// ServiceTypeForUpdate maps the inbound action to the admin-toggleable
// service it belongs to. Actions outside any service (start, help, admin
// commands) map to "", which is never gated.
func ServiceTypeForUpdate(c tele.Context, session *domain.Session) domain.ServiceType {
	if callback := c.Callback(); callback != nil {
		return serviceForCallback(callback.Data)
	}

	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		return serviceForCommand(text)
	}
	return serviceForState(session)
}

func serviceForCallback(data string) domain.ServiceType {
	prefix, _, _ := strings.Cut(strings.TrimSpace(data), ":")
	return callbackServices[prefix]
}

func serviceForCommand(text string) domain.ServiceType {
	command, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	command, _, _ = strings.Cut(command, "@")
	return commandServices[command]
}

// free text belongs to whatever flow the session is in; idle text falls
// through to search-intent handling
func serviceForState(session *domain.Session) domain.ServiceType {
	switch {
	case session.IsInAnyState(domain.StateSettingCashbackBank, domain.StateSettingCashbackCategories, domain.StateSettingCashbackRates):
		return domain.ServiceSetCashback
	case session.IsInAnyState(domain.StateAddingFavoritesBank, domain.StateAddingFavoritesCategory, domain.StateAddingFavoritesRate):
		return domain.ServiceFavorites
	default:
		return domain.ServiceSearch
	}
}

// AccessMiddleware rejects actions whose service is disabled for the user.
// Blocking happens before any flow logic, so FSM state is never mutated by
// a refused action. Admins are never blocked.
func AccessMiddleware(settings *service.SettingsService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || settings.IsAdmin(sender.ID) {
				return next(c)
			}

			serviceType := ServiceTypeForUpdate(c, SessionFromContext(c))
			if serviceType == "" {
				return next(c)
			}

			if !settings.IsServiceEnabledForUser(sender.ID, serviceType) {
				logger.Info("Blocked disabled service",
					zap.Int64("user_id", sender.ID),
					zap.String("service", string(serviceType)),
				)
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{
						Text:      "Эта функция временно недоступна",
						ShowAlert: true,
					})
				}
				return c.Send("Эта функция временно недоступна. Попробуйте позже.")
			}

			return next(c)
		}
	}
}
