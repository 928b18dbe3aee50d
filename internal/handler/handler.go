package handler

import (
	"errors"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"
	"cashbackhelp/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot    *tele.Bot
	logger *zap.Logger

	users         repository.UserRepository
	catalog       *service.CatalogService
	cashback      *service.CashbackService
	favorites     *service.FavoritesService
	cashbackFlow  *service.CashbackFlowService
	favoritesFlow *service.FavoritesFlowService
	search        *service.SearchService
	stats         *service.StatsService
	settings      *service.SettingsService
	subscription  *service.SubscriptionService
	payment       *service.PaymentService
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	users repository.UserRepository,
	catalog *service.CatalogService,
	cashback *service.CashbackService,
	favorites *service.FavoritesService,
	cashbackFlow *service.CashbackFlowService,
	favoritesFlow *service.FavoritesFlowService,
	search *service.SearchService,
	stats *service.StatsService,
	settings *service.SettingsService,
	subscription *service.SubscriptionService,
	payment *service.PaymentService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		users:         users,
		catalog:       catalog,
		cashback:      cashback,
		favorites:     favorites,
		cashbackFlow:  cashbackFlow,
		favoritesFlow: favoritesFlow,
		search:        search,
		stats:         stats,
		settings:      settings,
		subscription:  subscription,
		payment:       payment,
		logger:        logger,
	}
}

// RegisterHandlers registers all bot handlers; adminOnly wraps the admin
// command group
func (h *Handler) RegisterHandlers(adminOnly tele.MiddlewareFunc) {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/help", h.handleHelp)
	h.bot.Handle("/banks", h.handleBanks)
	h.bot.Handle("/set_cashback", h.handleSetCashback)
	h.bot.Handle("/my_cashback", h.handleMyCashback)
	h.bot.Handle("/remove_cashback", h.handleRemoveCashback)
	h.bot.Handle("/search", h.handleSearchPrompt)
	h.bot.Handle("/favorites", h.handleFavorites)
	h.bot.Handle("/subscription", h.handleSubscription)
	h.bot.Handle("/stats", h.handleStats)
	h.bot.Handle("/admin_services", h.handleAdminServices, adminOnly)

	// Free text (flow input or search query)
	h.bot.Handle(tele.OnText, h.handleText)

	// Payments
	h.bot.Handle(tele.OnCheckout, h.handleCheckout)
	h.bot.Handle(tele.OnPayment, h.handlePayment)

	// Callback queries (inline buttons)
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// replyError maps domain errors to user-facing messages; unexpected errors
// are logged and answered generically
func (h *Handler) replyError(c tele.Context, err error) error {
	userID := int64(0)
	if c.Sender() != nil {
		userID = c.Sender().ID
	}

	switch {
	case errors.Is(err, domain.ErrBankLimit):
		return c.Send("Достигнут лимит банков на бесплатном тарифе. Оформите Pro-подписку: /subscription")
	case errors.Is(err, domain.ErrCategoryLimit):
		return c.Send("Достигнут лимит категорий для этого банка. Оформите Pro-подписку: /subscription")
	case errors.Is(err, domain.ErrLimitExceeded):
		return c.Send("Достигнут лимит бесплатного тарифа. Оформите Pro-подписку: /subscription")
	case errors.Is(err, domain.ErrSessionExpired):
		return c.Send("Сессия устарела. Начните заново: /set_cashback или /favorites")
	case errors.Is(err, domain.ErrDuplicate):
		return c.Send("Эта категория уже в избранном.")
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Send("Некорректный ввод. Попробуйте ещё раз.")
	case errors.Is(err, domain.ErrNotFound):
		return c.Send("Ничего не найдено.")
	default:
		h.logger.Error("Handler failed",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}
}

// respondError is replyError for callback queries: short popup, no new message
func (h *Handler) respondError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrLimitExceeded):
		return c.Respond(&tele.CallbackResponse{Text: "Лимит бесплатного тарифа. /subscription", ShowAlert: true})
	case errors.Is(err, domain.ErrSessionExpired):
		return c.Respond(&tele.CallbackResponse{Text: "Сессия устарела, начните заново", ShowAlert: true})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Respond(&tele.CallbackResponse{Text: "Уже в избранном"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Respond(&tele.CallbackResponse{Text: "Выберите хотя бы одну категорию"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: "Не найдено"})
	default:
		h.logger.Error("Callback failed", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка, попробуйте позже"})
	}
}
