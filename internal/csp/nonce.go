package csp

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
)

// NonceSize — 128 бит случайности
const NonceSize = 16

// NonceSource — токен источника для script-src: 'nonce-<value>'
func NonceSource(nonce string) string {
	return "'nonce-" + nonce + "'"
}

// NewNonce создаёт одноразовый nonce из crypto/rand.
// Ошибка не заменяется более слабой политикой: запрос должен завершиться 500.
func NewNonce() (string, error) {
	return NonceFrom(rand.Reader)
}

// NonceFrom читает NonceSize байт из r и кодирует их в base64
func NonceFrom(r io.Reader) (string, error) {
	b := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("csp: генерация nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

var nonceRe = regexp.MustCompile(`'nonce-([A-Za-z0-9+/=_-]+)'`)

// ExtractNonce достаёт значение nonce из заголовка политики
func ExtractNonce(header string) (string, bool) {
	m := nonceRe.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	return m[1], true
}
