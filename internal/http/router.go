package httpx

// router.go
import (
	"io/fs"
	"net/http"

	"cspdemo/internal/core"
	"cspdemo/internal/csp"
	"cspdemo/internal/http/handler"
	"cspdemo/internal/http/middleware"
	"cspdemo/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter собирает все маршруты демо. CSP ставится на уровне маршрута:
// у каждого сценария своя политика.
func NewRouter(cfg core.Config, d handler.Deps) (http.Handler, error) {
	assets, err := fs.Sub(web.Files, "assets")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	middleware.UseCommon(r, cfg.TrustedProxies, cfg.RequestTimeout, cfg.Secure)

	// служебное
	r.Get("/healthz", handler.Health)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	// статика из встроенной FS
	static := http.FileServer(http.FS(assets))
	if cfg.IsProd() {
		static = cacheStatic(static)
	}
	r.Handle("/assets/*", http.StripPrefix("/assets/", static))

	// страницы сценариев и доска комментариев (формы под CSRF)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(cfg.CSRFKey, cfg.Secure))

		r.Get("/", handler.Home(d))
		r.Get("/vulnerable", handler.Vulnerable(d))
		r.Get("/basic-csp", handler.BasicCSP(d))
		r.Get("/hash-csp", handler.HashCSP(d))
		r.With(middleware.Nonce).Get("/nonce-nginx", handler.NonceNginx(d))
		r.With(middleware.HelmetNonce(csp.Basic())).Get("/nonce-helmet", handler.NonceHelmet(d))

		r.Post("/comments", handler.CommentSubmit(d))
	})

	// "чужой" домен: без CSRF, с CORS для кросс-доменных отправок
	r.Route("/malicious", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/", handler.MaliciousPage(d))
		r.Post("/steal-data", handler.StealData(d))
		r.Get("/stolen-data", handler.StolenData(d))
	})

	r.NotFound(handler.NotFound(d))
	r.MethodNotAllowed(handler.MethodNotAllowed)
	return r, nil
}

// cacheStatic — долгоживущий кэш для статики (только prod)
func cacheStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("Vary", "Accept-Encoding")
		next.ServeHTTP(w, r)
	})
}
