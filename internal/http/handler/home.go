package handler

//home.go
import (
	"net/http"

	"cspdemo/internal/core"
	"cspdemo/internal/view"
)

// Home — навигация по сценариям
func Home(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := view.PageData{
			Title: "CSP Demonstration Project",
			Data:  Links(r, d.BaseDomain),
		}
		if err := d.Views.Render(w, r, "index", http.StatusOK, page); err != nil {
			core.Fail(w, r, core.Internal("Ошибка отображения страницы", err))
		}
	}
}
