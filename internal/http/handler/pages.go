package handler

// pages.go — страницы сценариев CSP
import (
	"html/template"
	"net/http"

	"cspdemo/internal/core"
	"cspdemo/internal/csp"
	"cspdemo/internal/http/middleware"
	"cspdemo/internal/view"
)

type hashView struct {
	Digest       string
	InlineScript template.JS
}

type nginxView struct {
	Proxy       bool
	Placeholder string
}

// Vulnerable — без CSP: заголовок не отправляется вовсе
func Vulnerable(d Deps) http.HandlerFunc {
	sc := scenario("vulnerable")
	return func(w http.ResponseWriter, r *http.Request) {
		d.renderScenario(w, r, sc, "", "", nil)
	}
}

// BasicCSP — статическая политика без исключений для inline-кода
func BasicCSP(d Deps) http.HandlerFunc {
	sc := scenario("basic-csp")
	header, _, err := csp.Build(csp.ScenarioBasic, csp.Options{})
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			core.Fail(w, r, core.Internal("csp", err))
			return
		}
		w.Header().Set(csp.HeaderName, header)
		d.renderScenario(w, r, sc, header, "", nil)
	}
}

// HashCSP — разрешён ровно один inline-скрипт, по его SHA-256
func HashCSP(d Deps) http.HandlerFunc {
	sc := scenario("hash-csp")
	header, _, err := csp.Build(csp.ScenarioHash, csp.Options{ScriptHash: d.Script.Digest})
	data := hashView{Digest: d.Script.Digest, InlineScript: d.Script.Source}
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			core.Fail(w, r, core.Internal("csp", err))
			return
		}
		w.Header().Set(csp.HeaderName, header)
		d.renderScenario(w, r, sc, header, "", data)
	}
}

// NonceNginx — в режиме proxy отдаёт плейсхолдер для sub_filter и не ставит CSP
// (его добавит NGINX); в режиме standalone сам выдаёт nonce из middleware.Nonce.
func NonceNginx(d Deps) http.HandlerFunc {
	sc := scenario("nonce-nginx")
	return func(w http.ResponseWriter, r *http.Request) {
		if d.NginxMode == core.NginxModeProxy {
			data := nginxView{Proxy: true, Placeholder: NginxNoncePlaceholder}
			d.renderScenario(w, r, sc, "", NginxNoncePlaceholder, data)
			return
		}

		nonce := middleware.NonceFrom(r.Context())
		header, _, err := csp.Build(csp.ScenarioNonce, csp.Options{Nonce: nonce})
		if err != nil {
			core.Fail(w, r, core.Internal("nonce", err))
			return
		}
		w.Header().Set(csp.HeaderName, header)
		d.renderScenario(w, r, sc, header, nonce, nginxView{Placeholder: NginxNoncePlaceholder})
	}
}

// NonceHelmet — заголовок уже выставил middleware.HelmetNonce, здесь только nonce для шаблона
func NonceHelmet(d Deps) http.HandlerFunc {
	sc := scenario("nonce-helmet")
	return func(w http.ResponseWriter, r *http.Request) {
		nonce := middleware.HelmetNonceFrom(r.Context())
		header := w.Header().Get(csp.HeaderName)
		if nonce == "" || header == "" {
			core.Fail(w, r, core.Internal("nonce middleware не подключён", nil))
			return
		}
		d.renderScenario(w, r, sc, header, nonce, nil)
	}
}

// renderScenario — общая часть: счётчик, комментарии, рендер
func (d Deps) renderScenario(w http.ResponseWriter, r *http.Request, sc Scenario, policy, nonce string, data any) {
	if d.Metrics != nil {
		d.Metrics.PolicyServed(sc.Key)
	}

	page := view.PageData{
		Title:        sc.Title,
		Domain:       domainFor(sc, d.BaseDomain),
		Scenario:     sc.Key,
		Policy:       policy,
		Nonce:        nonce,
		MaliciousURL: maliciousURL(r, d.BaseDomain),
		ReturnTo:     sc.Path,
		Sanitize:     r.URL.Query().Get("sanitize") == "1",
		Data:         data,
	}
	if d.Board != nil {
		page.Comments = d.Board.List()
	}

	if err := d.Views.Render(w, r, sc.Key, http.StatusOK, page); err != nil {
		// CSP-заголовок мог уже стоять, на ответ с ошибкой он не нужен
		w.Header().Del(csp.HeaderName)
		core.Fail(w, r, core.Internal("Ошибка отображения страницы", err))
	}
}
