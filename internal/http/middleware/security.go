// security.go
package middleware

import (
	"context"
	"net/http"

	"cspdemo/internal/core"
	"cspdemo/internal/csp"

	"github.com/unrolled/secure"
)

// BaselineHeaders — заголовки безопасности, общие для всех сценариев, кроме CSP
func BaselineHeaders(secureTransport bool) func(http.Handler) http.Handler {
	opts := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	}
	if secureTransport {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	return secure.New(opts).Handler
}

// HelmetNonce — политика уровня приложения: unrolled/secure генерирует nonce на каждый ответ,
// подставляет его вместо $NONCE и кладёт в контекст (см. HelmetNonceFrom).
func HelmetNonce(policy *csp.Policy) func(http.Handler) http.Handler {
	tpl := policy.Clone().Add(csp.ScriptSrc, "$NONCE").String()
	return secure.New(secure.Options{ContentSecurityPolicy: tpl}).Handler
}

// HelmetNonceFrom — nonce, выданный HelmetNonce для текущего запроса
func HelmetNonceFrom(ctx context.Context) string {
	return secure.CSPNonce(ctx)
}

// Nonce — свой генератор nonce (как делал бы NGINX): значение живёт только в контексте запроса.
var Nonce = NonceWith(csp.NewNonce)

// NonceWith — Nonce с заданным генератором.
// Сбой генератора: 500, а не ответ с более слабой политикой.
func NonceWith(gen func() (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce, err := gen()
			if err != nil {
				w.Header().Del(csp.HeaderName)
				core.Fail(w, r, core.Internal("nonce", err))
				return
			}
			ctx := context.WithValue(r.Context(), core.CtxNonce, nonce)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NonceFrom — nonce, положенный в контекст middleware Nonce
func NonceFrom(ctx context.Context) string {
	nonce, _ := ctx.Value(core.CtxNonce).(string)
	return nonce
}
