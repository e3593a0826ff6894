package view

//templates.go
import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"cspdemo/internal/comments"
	"cspdemo/internal/core"

	"github.com/gorilla/csrf"
)

// Templates — готовые шаблоны: имя страницы -> layout + partials + page
type Templates struct {
	templates map[string]*template.Template
}

// PageData — единая модель для всех страниц
type PageData struct {
	Title        string
	Domain       string // имитируемый домен сценария (basic-csp.example.com)
	Scenario     string // пусто: страница без блока политики
	Policy       string // значение CSP-заголовка; пусто, если заголовок не отправлялся
	Nonce        string // nonce (или плейсхолдер NGINX) для единственного inline-скрипта
	MaliciousURL string // куда демо-страницы "сливают" данные
	CSRFField    template.HTML
	ReturnTo     string
	Comments     []comments.Comment
	Sanitize     bool
	Data         any
}

var layouts = []string{
	"templates/layouts/base.gohtml",
	"templates/partials/nav.gohtml",
	"templates/partials/footer.gohtml",
	"templates/partials/policy.gohtml",
	"templates/partials/comments.gohtml",
}

var pages = map[string]string{
	"index":        "templates/pages/index.gohtml",
	"vulnerable":   "templates/pages/vulnerable.gohtml",
	"basic-csp":    "templates/pages/basic-csp.gohtml",
	"hash-csp":     "templates/pages/hash-csp.gohtml",
	"nonce-nginx":  "templates/pages/nonce-nginx.gohtml",
	"nonce-helmet": "templates/pages/nonce-helmet.gohtml",
	"malicious":    "templates/pages/malicious.gohtml",
	"notfound":     "templates/pages/404.gohtml",
}

// New парсит шаблоны из files один раз при старте (OWASP A05)
func New(files fs.FS) (*Templates, error) {
	layoutTpl, err := template.New("layout").ParseFS(files, layouts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга layout: %w", err)
	}

	t := &Templates{templates: make(map[string]*template.Template, len(pages))}
	for name, pagePath := range pages {
		// Клон, чтобы "content" одной страницы не перетёр другую
		tpl, err := layoutTpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("клонирование layout для %q: %w", name, err)
		}
		if _, err := tpl.ParseFS(files, pagePath); err != nil {
			return nil, fmt.Errorf("ошибка парсинга шаблона %q: %w", name, err)
		}
		if tpl.Lookup("base") == nil || tpl.Lookup("content") == nil {
			return nil, fmt.Errorf("страница %s: нет define \"base\" или \"content\"", name)
		}
		t.templates[name] = tpl
	}
	return t, nil
}

// Render рендерит страницу в буфер и только потом пишет ответ,
// чтобы ошибка шаблона не оставила наполовину отправленную страницу.
func (t *Templates) Render(w http.ResponseWriter, r *http.Request, name string, status int, page PageData) error {
	tpl, ok := t.templates[name]
	if !ok {
		return fmt.Errorf("шаблон не найден: %s", name)
	}
	if page.CSRFField == "" {
		page.CSRFField = csrf.TemplateField(r)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "base", page); err != nil {
		core.LogError("Ошибка рендеринга шаблона", map[string]interface{}{
			"template": name,
			"path":     r.URL.Path,
			"error":    err,
		})
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		// Клиент ушёл, ответ уже начат
		core.LogError("Ошибка записи ответа", map[string]interface{}{"path": r.URL.Path, "error": err})
	}
	return nil
}
