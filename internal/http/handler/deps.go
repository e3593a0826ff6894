package handler

import (
	"html/template"

	"cspdemo/internal/comments"
	"cspdemo/internal/csp"
	"cspdemo/internal/exfil"
	"cspdemo/internal/metrics"
	"cspdemo/internal/view"
)

// NginxNoncePlaceholder — строка, которую NGINX заменяет через sub_filter
const NginxNoncePlaceholder = "**CSP_NONCE**"

// InlineScript — встроенный скрипт страницы /hash-csp и его дайджест.
// Текст отдаётся как есть (template.JS), иначе дайджест перестанет совпадать.
type InlineScript struct {
	Source template.JS
	Digest string
}

// NewInlineScript хеширует точные байты скрипта
func NewInlineScript(src []byte) InlineScript {
	return InlineScript{
		Source: template.JS(src), //nolint:gosec // скрипт из встроенного файла, не от пользователя
		Digest: csp.HashScript(src),
	}
}

// Deps — зависимости обработчиков
type Deps struct {
	Views      *view.Templates
	Board      *comments.Board
	Exfil      exfil.Log
	Metrics    *metrics.Metrics
	Script     InlineScript
	BaseDomain string
	NginxMode  string // core.NginxModeStandalone | core.NginxModeProxy
}
