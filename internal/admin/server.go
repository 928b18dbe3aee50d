package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"cashbackhelp/internal/config"
	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/service"
)

// Server is the administrative HTTP API for service toggles. It mirrors
// what admins can do from the bot, for use from scripts and dashboards.
type Server struct {
	cfg      config.AdminHTTPConfig
	logger   *zap.Logger
	settings *service.SettingsService
	router   *chi.Mux
}

// NewServer builds the router; Run starts listening
func NewServer(cfg config.AdminHTTPConfig, settings *service.SettingsService, logger *zap.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		settings: settings,
		router:   r,
	}

	r.Get("/health", s.handleHealth)
	r.Group(func(protected chi.Router) {
		protected.Use(s.basicAuthMiddleware())
		protected.Get("/settings", s.handleListSettings)
		protected.Route("/settings/{service}", func(r chi.Router) {
			r.Put("/", s.handleToggleGlobal)
			r.Route("/users/{id}", func(r chi.Router) {
				r.Put("/", s.handleSetUserOverride)
				r.Delete("/", s.handleRemoveUserOverride)
			})
		})
	})
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Admin server shutdown error", zap.Error(err))
		}
	}()

	s.logger.Info("Admin server listening", zap.String("addr", s.cfg.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin listen: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type settingResponse struct {
	ServiceType string `json:"service_type"`
	Scope       string `json:"scope"`
	UserID      *int64 `json:"user_id,omitempty"`
	IsEnabled   bool   `json:"is_enabled"`
	Note        string `json:"note,omitempty"`
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.ListAll()
	if err != nil {
		s.internalError(w, err)
		return
	}

	out := make([]settingResponse, 0, len(settings))
	for _, setting := range settings {
		out = append(out, settingResponse{
			ServiceType: string(setting.ServiceType),
			Scope:       string(setting.Scope),
			UserID:      setting.UserID,
			IsEnabled:   setting.IsEnabled,
			Note:        setting.Note,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type toggleRequest struct {
	Enabled bool   `json:"enabled"`
	Note    string `json:"note"`
}

func (s *Server) handleToggleGlobal(w http.ResponseWriter, r *http.Request) {
	serviceType, ok := s.serviceParam(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Note == "" {
		req.Note = "set via admin api"
	}

	if err := s.settings.ToggleGlobalService(serviceType, req.Enabled, req.Note); err != nil {
		s.badRequest(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service_type": string(serviceType),
		"is_enabled":   req.Enabled,
	})
}

func (s *Server) handleSetUserOverride(w http.ResponseWriter, r *http.Request) {
	serviceType, ok := s.serviceParam(w, r)
	if !ok {
		return
	}
	userID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Note == "" {
		req.Note = "set via admin api"
	}

	if err := s.settings.ToggleUserService(userID, serviceType, req.Enabled, req.Note); err != nil {
		s.badRequest(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service_type": string(serviceType),
		"user_id":      userID,
		"is_enabled":   req.Enabled,
	})
}

func (s *Server) handleRemoveUserOverride(w http.ResponseWriter, r *http.Request) {
	serviceType, ok := s.serviceParam(w, r)
	if !ok {
		return
	}
	userID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := s.settings.RemoveUserSetting(userID, serviceType); err != nil {
		s.badRequest(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serviceParam(w http.ResponseWriter, r *http.Request) (domain.ServiceType, bool) {
	serviceType := domain.ServiceType(chi.URLParam(r, "service"))
	if !domain.IsKnownServiceType(serviceType) {
		http.Error(w, "unknown service type", http.StatusNotFound)
		return "", false
	}
	return serviceType, true
}

func (s *Server) basicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != s.cfg.Username || pass != s.cfg.Password {
				w.Header().Set("WWW-Authenticate", `Basic realm="cashbackhelp"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("Admin handler error", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseID(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}
