package core

import (
	"net/http"
)

// Server возвращает http.Server с таймаутами из конфигурации,
// чтобы сервер не зависал на медленных клиентах (Slowloris).
func Server(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,

		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}
