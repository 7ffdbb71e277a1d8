package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/economy"
	"github.com/osse101/CampusQuest_Go/internal/evidence"
	"github.com/osse101/CampusQuest_Go/internal/handler"
	"github.com/osse101/CampusQuest_Go/internal/leaderboard"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/metrics"
	"github.com/osse101/CampusQuest_Go/internal/middleware"
	"github.com/osse101/CampusQuest_Go/internal/notification"
	"github.com/osse101/CampusQuest_Go/internal/quest"
	"github.com/osse101/CampusQuest_Go/internal/sse"
	"github.com/osse101/CampusQuest_Go/internal/stats"
	"github.com/osse101/CampusQuest_Go/internal/user"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
}

// Services are the domain services exposed over HTTP
type Services struct {
	User         user.Service
	Quest        quest.Service
	Evidence     evidence.Service
	Stats        stats.Service
	Leaderboard  leaderboard.Service
	Achievement  achievement.Service
	Economy      economy.Service
	Notification notification.Service
	Guilds       handler.GuildLookup
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the router. readiness lists the dependencies /readyz pings.
func NewServer(opts Options, svc Services, hub *sse.Hub, readiness map[string]handler.Pinger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc, hub, readiness),
			ReadHeaderTimeout: ReadHeaderTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter wires middleware and routes. It is separate from NewServer so
// tests can drive it with httptest.
func NewRouter(opts Options, svc Services, hub *sse.Hub, readiness map[string]handler.Pinger) http.Handler {
	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(middleware.RequestID)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(readiness))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))

		r.Route("/participants", func(r chi.Router) {
			r.Post("/", handler.HandleRegister(svc.User))
			r.Get("/me", handler.HandleGetMe(svc.User))
			r.Get("/me/stats", handler.HandleGetStats(svc.Stats))
			r.Get("/me/history", handler.HandleGetHistory(svc.Quest))
			r.Get("/{id}/stats", handler.HandleGetStats(svc.Stats))
		})

		questHandler := handler.NewQuestHandler(svc.Quest, svc.Evidence)
		r.Route("/quests", func(r chi.Router) {
			r.Get("/", questHandler.HandleList)
			r.Post("/", questHandler.HandleCreate)
			r.Post("/{id}/accept", questHandler.HandleAccept)
			r.Post("/{id}/complete", questHandler.HandleComplete)
			r.Post("/{id}/evidence", questHandler.HandleEvidenceUpload)
		})
		r.Route("/attempts/{id}", func(r chi.Router) {
			r.Post("/review", questHandler.HandleReview)
			r.Get("/evidence", questHandler.HandleEvidenceView)
		})

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/guilds", handler.HandleGuildLeaderboard(svc.Leaderboard))
			r.Get("/guilds/{guild}", handler.HandleGuildStats(svc.Leaderboard, svc.Guilds))
			r.Get("/players", handler.HandlePlayerLeaderboard(svc.Leaderboard))
		})

		r.Get("/achievements", handler.HandleListAchievements(svc.Achievement))
		r.Post("/achievements/check", handler.HandleCheckAchievements(svc.Achievement))

		r.Get("/shop/items", handler.HandleShopCatalog(svc.Economy))
		r.Post("/shop/purchase", handler.HandlePurchase(svc.Economy))

		r.Get("/notifications", handler.HandleListNotifications(svc.Notification))
		r.Post("/notifications/read", handler.HandleMarkNotificationsRead(svc.Notification))

		if hub != nil {
			r.Get("/events", sse.Handler(hub, handler.ParticipantID))
		}
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps the SSE stream working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isQuietPath(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		log := logger.FromContext(r.Context())

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"participant_id", handler.ParticipantID(r),
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		if log.Enabled(r.Context(), slog.LevelDebug) {
			sanitized := make(http.Header, len(r.Header))
			for k, v := range r.Header {
				if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
					sanitized[k] = []string{RedactedValue}
				} else {
					sanitized[k] = v
				}
			}
			log.Debug(LogMsgRequestHeaders, "headers", sanitized)
		}

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
