// Package server はブラウザのフロントエンド向けに studio の操作を JSON API として公開します。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shouni/gemini-image-studio/pkg/studio"
)

const (
	// DefaultMaxUploadSize はアップロード 1 件あたりの上限です。
	DefaultMaxUploadSize = 10 << 20

	// MaxJSONBodySize は JSON リクエストボディの上限です。
	MaxJSONBodySize = 64 << 10

	ReadTimeout = 30 * time.Second
	// WriteTimeout は画像生成の待ち時間を含みます。
	WriteTimeout    = 5 * time.Minute
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 30 * time.Second

	DefaultSubmitRPS   = 1.0
	DefaultSubmitBurst = 5
)

// Server は studio.Manager の各セッションを HTTP で操作するためのサーバーです。
type Server struct {
	manager       *studio.Manager
	maxUploadSize int64
	metrics       *Metrics
	registry      *prometheus.Registry
	limiter       *submitLimiter
	router        chi.Router
}

// Option は Server の設定を変更します。
type Option func(*Server)

// WithMaxUploadSize はアップロードの上限バイト数を設定します。
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadSize = n
		}
	}
}

// WithSubmitRate は生成リクエストのクライアントごとのレート制限を設定します。
func WithSubmitRate(rps float64, burst int) Option {
	return func(s *Server) { s.limiter = newSubmitLimiter(rps, burst) }
}

// New はルーティングを構築した Server を返します。
func New(manager *studio.Manager, opts ...Option) (*Server, error) {
	if manager == nil {
		return nil, fmt.Errorf("manager (studio.Manager) is required")
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		manager:       manager,
		maxUploadSize: DefaultMaxUploadSize,
		metrics:       NewMetrics(reg, manager.Count),
		registry:      reg,
		limiter:       newSubmitLimiter(DefaultSubmitRPS, DefaultSubmitBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, capturePeerAddr, middleware.RealIP, middleware.Recoverer, requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/api/aspect-ratios", s.handleAspectRatios)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGetSession))
			r.Delete("/", s.handleDeleteSession)
			r.Put("/mode", s.withSession(s.handleSetMode))
			r.Put("/prompt", s.withSession(s.handleSetPrompt))
			r.Put("/aspect-ratio", s.withSession(s.handleSetAspectRatio))
			r.Post("/upload", s.withSession(s.handleUpload))
			r.With(s.limiter.middleware).Post("/submit", s.withSession(s.handleSubmit))
			r.Post("/history/{entryID}", s.withSession(s.handleSelectHistory))
		})
	})
	return r
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe は ctx がキャンセルされるまでリクエストを処理し、その後グレースフルに停止します。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}
	s.limiter.startCleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("サーバーを起動します", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("サーバーを停止します")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// requestLogger は処理結果を slog に出力します。
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
