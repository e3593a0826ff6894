package handler

// scenarios.go
import (
	"net"
	"net/http"
	"strings"

	"cspdemo/internal/csp"
)

// Scenario — один демонстрационный маршрут
type Scenario struct {
	Key         string
	Name        string
	Path        string
	Subdomain   string // поддомен в мультидоменном деплое
	Title       string
	Description string
	Policy      csp.Scenario
}

// Scenarios — навигация главной страницы, в порядке показа
var Scenarios = []Scenario{
	{Key: "vulnerable", Name: "Vulnerable (No CSP)", Path: "/vulnerable", Subdomain: "vulnerable",
		Title: "Vulnerable Demo - No CSP Protection", Description: "Shows XSS vulnerabilities without protection", Policy: csp.ScenarioNone},
	{Key: "basic-csp", Name: "Basic CSP", Path: "/basic-csp", Subdomain: "basic-csp",
		Title: "Basic CSP Demo - Script Source Restrictions", Description: "Basic Content Security Policy implementation", Policy: csp.ScenarioBasic},
	{Key: "hash-csp", Name: "Hash-based CSP", Path: "/hash-csp", Subdomain: "hash-csp",
		Title: "Hash-based CSP Demo - SHA-256 Script Allowlisting", Description: "SHA-256 hash allowlisting for inline scripts", Policy: csp.ScenarioHash},
	{Key: "nonce-nginx", Name: "NGINX Nonce", Path: "/nonce-nginx", Subdomain: "nonce-nginx",
		Title: "NGINX Nonce Demo - Legacy-Friendly Implementation", Description: "Legacy-friendly nonce via NGINX sub_filter", Policy: csp.ScenarioNonce},
	{Key: "nonce-helmet", Name: "Helmet Nonce", Path: "/nonce-helmet", Subdomain: "nonce-helmet",
		Title: "Helmet Nonce Demo - Application-Level CSP Management", Description: "Application-level nonce with security-headers middleware", Policy: csp.ScenarioNonce},
	{Key: "malicious", Name: "Malicious Domain", Path: "/malicious", Subdomain: "malicious",
		Title: "Simulated Malicious Domain", Description: "Simulated attacker-controlled domain", Policy: csp.ScenarioNone},
}

func scenario(key string) Scenario {
	for _, sc := range Scenarios {
		if sc.Key == key {
			return sc
		}
	}
	panic("handler: неизвестный сценарий " + key)
}

// ScenarioLink — ссылка на сценарий для главной страницы
type ScenarioLink struct {
	Key         string
	Name        string
	URL         string
	Description string
}

// Links строит ссылки: абсолютные по поддоменам, если хост относится к базовому домену,
// иначе относительные пути.
func Links(r *http.Request, baseDomain string) []ScenarioLink {
	out := make([]ScenarioLink, 0, len(Scenarios))
	for _, sc := range Scenarios {
		out = append(out, ScenarioLink{
			Key:         sc.Key,
			Name:        sc.Name,
			URL:         scenarioURL(r, baseDomain, sc, sc.Path),
			Description: sc.Description,
		})
	}
	return out
}

// IsMultiDomainHost — хост равен базовому домену или является его поддоменом
func IsMultiDomainHost(host, baseDomain string) bool {
	base := strings.TrimSuffix(strings.ToLower(baseDomain), ".")
	if base == "" {
		return false
	}
	h, _ := splitHost(host)
	return h == base || strings.HasSuffix(h, "."+base)
}

// scenarioURL — путь сценария, абсолютный для мультидоменного хоста
func scenarioURL(r *http.Request, baseDomain string, sc Scenario, path string) string {
	if !IsMultiDomainHost(r.Host, baseDomain) {
		return path
	}
	_, port := splitHost(r.Host)
	host := sc.Subdomain + "." + strings.TrimSuffix(strings.ToLower(baseDomain), ".")
	if port != "" {
		host = net.JoinHostPort(host, port)
	}
	return requestScheme(r) + "://" + host + path
}

// domainFor — имитируемый домен сценария для подписи на странице
func domainFor(sc Scenario, baseDomain string) string {
	if baseDomain == "" {
		return sc.Subdomain
	}
	return sc.Subdomain + "." + baseDomain
}

// maliciousURL — куда страницы отправляют "украденные" данные
func maliciousURL(r *http.Request, baseDomain string) string {
	return scenarioURL(r, baseDomain, scenario("malicious"), "/malicious/steal-data")
}

func requestScheme(r *http.Request) string {
	if r.URL.Scheme != "" {
		return r.URL.Scheme
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func splitHost(hostport string) (host, port string) {
	hostport = strings.ToLower(strings.TrimSpace(hostport))
	if h, p, err := net.SplitHostPort(hostport); err == nil {
		return strings.TrimSuffix(h, "."), p
	}
	return strings.TrimSuffix(hostport, "."), ""
}

// safeReturnPath — редирект только на известные страницы (без open redirect)
func safeReturnPath(p string) string {
	for _, sc := range Scenarios {
		if p == sc.Path {
			return p
		}
	}
	return "/"
}
