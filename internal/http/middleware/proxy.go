package middleware

//proxy.go
import (
	"net"
	"net/http"
	"strings"
)

// ForwardedScheme выставляет r.URL.Scheme: https для TLS, иначе из X-Forwarded-Proto,
// но только если соединение пришло от доверенного прокси (OWASP A05).
// От остальных адресов заголовок игнорируется, запрос не отклоняется.
func ForwardedScheme(trustedIPs []string) func(http.Handler) http.Handler {
	trusted := make([]*net.IPNet, 0, len(trustedIPs))
	for _, ipStr := range trustedIPs {
		_, ipNet, err := net.ParseCIDR(ipStr)
		if err != nil {
			// Одиночный IP
			if ip := net.ParseIP(ipStr); ip != nil {
				bits := 8 * len(ip)
				ipNet = &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
			}
		}
		if ipNet != nil {
			trusted = append(trusted, ipNet)
		}
	}

	isTrusted := func(remoteAddr string) bool {
		host, _, err := net.SplitHostPort(remoteAddr)
		if err != nil {
			host = remoteAddr
		}
		ip := net.ParseIP(host)
		if ip == nil {
			return false
		}
		for _, n := range trusted {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			} else if isTrusted(r.RemoteAddr) {
				proto := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")))
				if proto == "https" {
					scheme = "https"
				}
			}
			r.URL.Scheme = scheme
			next.ServeHTTP(w, r)
		})
	}
}
