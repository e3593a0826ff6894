package middleware

// csrf.go
import (
	"crypto/sha256"
	"net/http"

	"cspdemo/internal/core"

	"github.com/gorilla/csrf"
)

// CSRF — gorilla/csrf для форм. Ключ выводится из секрета конфигурации (OWASP A01).
// Запросы по обычному HTTP помечаются как plaintext, иначе csrf требует Referer
// с https-схемой и отклоняет любую форму в dev.
func CSRF(secret string, secureCookie bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		derive32(secret),
		csrf.Secure(secureCookie),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Scheme != "https" {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	msg := "CSRF-токен отсутствует или недействителен"
	if reason := csrf.FailureReason(r); reason != nil {
		core.LogInfo("CSRF отклонил запрос", map[string]interface{}{"path": r.URL.Path, "reason": reason.Error()})
	}
	core.Fail(w, r, core.Forbidden(msg))
}

// derive32 — 32-байтовый ключ CSRF из секрета (OWASP A02)
func derive32(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}
