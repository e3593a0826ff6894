// Package csp собирает значения заголовка Content-Security-Policy для сценариев демо.
package csp

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderName — имя заголовка политики
const HeaderName = "Content-Security-Policy"

// Директивы, которые использует демо
const (
	DefaultSrc = "default-src"
	ScriptSrc  = "script-src"
	StyleSrc   = "style-src"
	FormAction = "form-action"
	ImgSrc     = "img-src"
	ObjectSrc  = "object-src"
)

// Ключевые слова источников
const (
	SourceSelf     = "'self'"
	SourceNone     = "'none'"
	SourceWildcard = "*"
)

// directiveOrder — фиксированный порядок сериализации. Директивы вне списка
// выводятся после него в порядке добавления.
var directiveOrder = []string{DefaultSrc, ScriptSrc, StyleSrc, FormAction, ImgSrc, ObjectSrc}

// Policy — набор директив: имя -> упорядоченный список источников.
// Нулевое значение не используется, создавайте через New.
type Policy struct {
	sources map[string][]string
	extra   []string
}

func New() *Policy {
	return &Policy{sources: make(map[string][]string)}
}

// Set заменяет источники директивы. Без источников директива удаляется:
// пустая директива в заголовок не попадает.
func (p *Policy) Set(directive string, sources ...string) *Policy {
	key := strings.ToLower(strings.TrimSpace(directive))
	if key == "" {
		return p
	}
	clean := cleanSources(sources)
	if len(clean) == 0 {
		p.remove(key)
		return p
	}
	if _, ok := p.sources[key]; !ok {
		p.track(key)
	}
	p.sources[key] = clean
	return p
}

// Add дописывает источники в конец директивы, пропуская повторы
func (p *Policy) Add(directive string, sources ...string) *Policy {
	key := strings.ToLower(strings.TrimSpace(directive))
	clean := cleanSources(sources)
	if key == "" || len(clean) == 0 {
		return p
	}
	cur, ok := p.sources[key]
	if !ok {
		p.track(key)
	}
	for _, s := range clean {
		if !contains(cur, s) {
			cur = append(cur, s)
		}
	}
	p.sources[key] = cur
	return p
}

// Get возвращает копию источников директивы
func (p *Policy) Get(directive string) []string {
	return append([]string(nil), p.sources[strings.ToLower(directive)]...)
}

// Clone — независимая копия политики
func (p *Policy) Clone() *Policy {
	c := New()
	for k, v := range p.sources {
		c.sources[k] = append([]string(nil), v...)
	}
	c.extra = append([]string(nil), p.extra...)
	return c
}

// String сериализует политику: "dir src src; dir src;" в фиксированном порядке
func (p *Policy) String() string {
	var b strings.Builder
	write := func(name string) {
		srcs := p.sources[name]
		if len(srcs) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(strings.Join(srcs, " "))
		b.WriteByte(';')
	}
	for _, name := range directiveOrder {
		write(name)
	}
	for _, name := range p.extra {
		write(name)
	}
	return b.String()
}

func (p *Policy) track(key string) {
	if !contains(directiveOrder, key) {
		p.extra = append(p.extra, key)
	}
}

func (p *Policy) remove(key string) {
	delete(p.sources, key)
	for i, name := range p.extra {
		if name == key {
			p.extra = append(p.extra[:i], p.extra[i+1:]...)
			break
		}
	}
}

func cleanSources(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		s = strings.TrimSpace(s)
		if s != "" && !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Scenario — вариант политики для маршрута
type Scenario string

const (
	ScenarioNone  Scenario = "none"
	ScenarioBasic Scenario = "basic"
	ScenarioHash  Scenario = "hash"
	ScenarioNonce Scenario = "nonce"
)

var (
	ErrMissingHash  = errors.New("csp: для сценария hash нужен дайджест скрипта")
	ErrMissingNonce = errors.New("csp: для сценария nonce нужен nonce")
)

// Options — входные данные сценариев hash и nonce
type Options struct {
	ScriptHash string // base64 SHA-256 встроенного скрипта (без префикса sha256-)
	Nonce      string // nonce текущего ответа
}

// Basic — базовая политика: всё только со своего origin, картинки откуда угодно, плагины запрещены
func Basic() *Policy {
	return New().
		Set(DefaultSrc, SourceSelf).
		Set(ScriptSrc, SourceSelf).
		Set(StyleSrc, SourceSelf).
		Set(FormAction, SourceSelf).
		Set(ImgSrc, SourceWildcard).
		Set(ObjectSrc, SourceNone)
}

// Build возвращает значение заголовка для сценария.
// Для ScenarioNone ok == false: заголовок не выставляется вовсе.
func Build(s Scenario, opts Options) (header string, ok bool, err error) {
	p, err := PolicyFor(s, opts)
	if err != nil || p == nil {
		return "", false, err
	}
	return p.String(), true, nil
}

// PolicyFor — то же, что Build, но возвращает набор директив
func PolicyFor(s Scenario, opts Options) (*Policy, error) {
	switch s {
	case ScenarioNone:
		return nil, nil
	case ScenarioBasic:
		return Basic(), nil
	case ScenarioHash:
		if strings.TrimSpace(opts.ScriptHash) == "" {
			return nil, ErrMissingHash
		}
		return Basic().Add(ScriptSrc, HashSource(opts.ScriptHash)), nil
	case ScenarioNonce:
		if strings.TrimSpace(opts.Nonce) == "" {
			return nil, ErrMissingNonce
		}
		return Basic().Add(ScriptSrc, NonceSource(opts.Nonce)), nil
	default:
		return nil, fmt.Errorf("csp: неизвестный сценарий %q", s)
	}
}
