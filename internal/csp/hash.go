package csp

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"
)

// HashScript — base64 SHA-256 от точных байтов встроенного скрипта.
// Браузер хеширует текст между <script> и </script> как есть,
// поэтому после хеширования скрипт нельзя переформатировать.
func HashScript(script []byte) string {
	sum := sha256.Sum256(script)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// HashSource — токен источника для script-src: 'sha256-<digest>'
func HashSource(digest string) string {
	return "'sha256-" + digest + "'"
}

var hashRe = regexp.MustCompile(`'sha256-([A-Za-z0-9+/=]+)'`)

// ExtractHash достаёт дайджест sha256 из заголовка политики
func ExtractHash(header string) (string, bool) {
	m := hashRe.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	return m[1], true
}
