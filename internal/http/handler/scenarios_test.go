package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMultiDomainHost(t *testing.T) {
	cases := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"EXAMPLE.com:8080", true},
		{"vulnerable.example.com", true},
		{"example.com.", true},
		{"notexample.com", false},
		{"example.com.evil.net", false},
		{"localhost:3000", false},
		{"127.0.0.1:3000", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsMultiDomainHost(c.host, "example.com"), c.host)
	}
	assert.False(t, IsMultiDomainHost("example.com", ""))
}

func TestLinksFollowRequestHost(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Host = "localhost"
	for _, l := range Links(r, "example.com") {
		assert.Equal(t, scenario(l.Key).Path, l.URL)
	}

	r.Host = "example.com"
	r.URL.Scheme = "https"
	links := Links(r, "example.com")
	assert.Equal(t, "https://vulnerable.example.com/vulnerable", links[0].URL)
}

func TestMaliciousURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Host = "hash-csp.example.com"
	assert.Equal(t, "http://malicious.example.com/malicious/steal-data", maliciousURL(r, "example.com"))

	r.Host = "localhost:3000"
	assert.Equal(t, "/malicious/steal-data", maliciousURL(r, "example.com"))
}

func TestSafeReturnPath(t *testing.T) {
	assert.Equal(t, "/hash-csp", safeReturnPath("/hash-csp"))
	assert.Equal(t, "/", safeReturnPath("//evil.net"))
	assert.Equal(t, "/", safeReturnPath("https://example.com/vulnerable"))
	assert.Equal(t, "/", safeReturnPath(""))
}

func TestDomainFor(t *testing.T) {
	assert.Equal(t, "nonce-helmet.example.com", domainFor(scenario("nonce-helmet"), "example.com"))
	assert.Equal(t, "nonce-helmet", domainFor(scenario("nonce-helmet"), ""))
}
