package exfil

import (
	"net/http"
	"strings"
)

// SourceOf определяет источник по принципу "что найдётся":
// явное поле source, затем Origin, затем Referer, иначе "Unknown".
func SourceOf(explicit string, r *http.Request) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if r != nil {
		if o := strings.TrimSpace(r.Header.Get("Origin")); o != "" {
			return o
		}
		if ref := strings.TrimSpace(r.Header.Get("Referer")); ref != "" {
			return ref
		}
	}
	return UnknownSource
}

// ExplicitSource достаёт строковое поле "source" из разобранной полезной нагрузки
func ExplicitSource(payload any) string {
	switch v := payload.(type) {
	case map[string]any:
		if s, ok := v["source"].(string); ok {
			return s
		}
	case map[string]string:
		return v["source"]
	}
	return ""
}
