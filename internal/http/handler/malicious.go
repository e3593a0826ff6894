package handler

// malicious.go — имитация домена злоумышленника
import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"cspdemo/internal/core"
	"cspdemo/internal/exfil"
	"cspdemo/internal/view"
)

// ReceivedMessage — ответ на программную отправку
const ReceivedMessage = "Data received by malicious domain!"

// MaliciousPage — "панель" атакующего со списком перехваченного
func MaliciousPage(d Deps) http.HandlerFunc {
	sc := scenario("malicious")
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := d.Exfil.List(r.Context())
		if err != nil {
			core.Fail(w, r, core.Internal("Ошибка чтения журнала", err))
			return
		}
		page := view.PageData{
			Title:        sc.Title,
			Domain:       domainFor(sc, d.BaseDomain),
			MaliciousURL: maliciousURL(r, d.BaseDomain),
			Data: struct {
				Received bool
				Entries  []exfil.Entry
			}{
				Received: r.URL.Query().Get("received") == "1",
				Entries:  entries,
			},
		}
		if err := d.Views.Render(w, r, "malicious", http.StatusOK, page); err != nil {
			core.Fail(w, r, core.Internal("Ошибка отображения страницы", err))
		}
	}
}

// StealData принимает что угодно. Формы получают редирект, остальное — JSON-эхо.
// Проверок, дедупликации и лимитов нет: это демо.
func StealData(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, kind := readPayload(r)
		source := exfil.SourceOf(exfil.ExplicitSource(payload), r)
		entry := exfil.NewEntry(payload, source, kind)

		if err := d.Exfil.Append(r.Context(), entry); err != nil {
			core.Fail(w, r, core.Internal("Ошибка записи в журнал", err))
			return
		}
		if d.Metrics != nil {
			d.Metrics.ExfilReceived(string(kind))
		}
		core.LogInfo("Malicious endpoint received data", map[string]interface{}{
			"id":     entry.ID,
			"source": source,
			"kind":   kind,
		})

		if kind == exfil.KindForm {
			http.Redirect(w, r, "/malicious?received=1", http.StatusSeeOther)
			return
		}
		core.JSON(w, http.StatusOK, map[string]any{
			"message": ReceivedMessage,
			"data":    payload,
		})
	}
}

// StolenData — журнал в JSON, в порядке поступления
func StolenData(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := d.Exfil.List(r.Context())
		if err != nil {
			core.Fail(w, r, core.Internal("Ошибка чтения журнала", err))
			return
		}
		if entries == nil {
			entries = []exfil.Entry{}
		}
		core.JSON(w, http.StatusOK, entries)
	}
}

// readPayload разбирает тело по заявленному Content-Type.
// Битое тело не ошибка: сохраняем то, что удалось прочитать.
func readPayload(r *http.Request) (any, exfil.Kind) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(10 << 20)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			core.LogError("exfil: ошибка разбора формы", map[string]interface{}{"error": err})
		}
		fields := make(map[string]any, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) == 1 {
				fields[k] = vs[0]
			} else {
				fields[k] = vs
			}
		}
		return fields, exfil.KindForm
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		core.LogError("exfil: ошибка чтения тела", map[string]interface{}{"error": err})
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if mediaType == "application/json" {
			return nil, exfil.KindJSON
		}
		return nil, exfil.KindRaw
	}

	if mediaType == "application/json" {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return string(body), exfil.KindJSON
		}
		return v, exfil.KindJSON
	}
	return string(body), exfil.KindRaw
}
