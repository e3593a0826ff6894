// Package web встраивает шаблоны, статику и хешируемый встроенный скрипт в бинарник.
package web

import "embed"

//go:embed templates assets scripts
var Files embed.FS

// HashInlineScript — путь к скрипту, который страница /hash-csp вставляет inline
const HashInlineScript = "scripts/hash-inline.js"
