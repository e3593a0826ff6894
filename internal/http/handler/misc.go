package handler

import (
	"net/http"

	"cspdemo/internal/core"
	"cspdemo/internal/view"
)

// Health — healthcheck (OWASP A09)
func Health(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound — 404 с шаблоном
func NotFound(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := view.PageData{Title: "Page not found"}
		if err := d.Views.Render(w, r, "notfound", http.StatusNotFound, page); err != nil {
			core.Fail(w, r, core.NotFound("страница не найдена"))
		}
	}
}

// MethodNotAllowed — 405 в формате problem+json
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	core.Fail(w, r, &core.AppError{Code: "method_not_allowed", Status: http.StatusMethodNotAllowed, Message: "метод не поддерживается"})
}
