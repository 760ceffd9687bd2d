package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
	"locallibrary/internal/catalog"
	"locallibrary/internal/config"
	"locallibrary/internal/httpx"
)

type routerDeps struct {
	cfg       config.Config
	logger    *zap.Logger
	view      httpx.Renderer
	books     *book.Service
	instances *bookinstance.Service
	ready     func(ctx context.Context) error
}

func newRouter(ctx context.Context, d routerDeps) http.Handler {
	errs := httpx.NewErrorHandler(d.logger, d.view)
	instanceHandler := bookinstance.NewHTTPHandler(d.instances, d.view, errs)
	catalogHandler := catalog.NewHTTPHandler(catalog.NewService(d.books, d.instances), d.view, errs)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("GET /{$}", http.RedirectHandler("/catalog", http.StatusFound))
	router.HandleFunc("GET /catalog", catalogHandler.Index)
	router.HandleFunc("GET /catalog/book/{id}", catalogHandler.BookDetail)

	router.HandleFunc("GET /catalog/bookinstances", instanceHandler.List)
	router.HandleFunc("GET /catalog/bookinstance/create", instanceHandler.CreateForm)
	router.HandleFunc("POST /catalog/bookinstance/create", instanceHandler.Create)
	router.HandleFunc("GET /catalog/bookinstance/{id}", instanceHandler.Detail)
	router.HandleFunc("GET /catalog/bookinstance/{id}/delete", instanceHandler.DeleteForm)
	router.HandleFunc("POST /catalog/bookinstance/{id}/delete", instanceHandler.Delete)
	router.HandleFunc("GET /catalog/bookinstance/{id}/update", instanceHandler.UpdateForm)
	router.HandleFunc("POST /catalog/bookinstance/{id}/update", instanceHandler.Update)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, d.cfg.RateLimitRPS, d.cfg.RateBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.RecoveryMiddleware(errs),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
		rateLimiter.Middleware,
	)
}
