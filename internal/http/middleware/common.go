// common.go
package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UseCommon подключает общие middleware. CSP здесь не ставится:
// у каждого сценария своя политика, а /vulnerable должен остаться без неё.
func UseCommon(r *chi.Mux, trustedProxies []string, requestTimeout time.Duration, secureTransport bool) {
	r.Use(middleware.RequestID)
	// до RealIP: доверие прокси проверяется по настоящему адресу соединения
	r.Use(ForwardedScheme(trustedProxies))
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead) // HEAD обслуживают GET-обработчики
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}
	r.Use(middleware.Compress(5))
	r.Use(BaselineHeaders(secureTransport))
}
