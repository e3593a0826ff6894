package handler

// comments.go
import (
	"errors"
	"net/http"

	"cspdemo/internal/comments"
	"cspdemo/internal/core"
)

// CommentSubmit обрабатывает форму комментария (POST, CSRF проверен middleware).
// Тело сохраняется как есть: это и есть внедрение, которое показывают сценарии.
func CommentSubmit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB (OWASP A05)
		if err := r.ParseForm(); err != nil {
			core.Fail(w, r, core.BadRequest("Некорректная форма", err))
			return
		}

		_, err := d.Board.Add(comments.Input{
			Author: r.PostForm.Get("author"),
			Body:   r.PostForm.Get("body"),
		})
		if err != nil {
			var verr *comments.ValidationError
			if errors.As(err, &verr) {
				core.Fail(w, r, core.Validation(verr.Fields))
				return
			}
			core.Fail(w, r, core.Internal("Ошибка сохранения комментария", err))
			return
		}
		if d.Metrics != nil {
			d.Metrics.CommentAdded()
		}

		http.Redirect(w, r, safeReturnPath(r.PostForm.Get("return_to")), http.StatusSeeOther)
	}
}
