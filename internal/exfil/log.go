// Package exfil хранит данные, "украденные" страницей злоумышленника в демо.
package exfil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind — как данные пришли на вредоносный endpoint
type Kind string

const (
	KindForm Kind = "form" // application/x-www-form-urlencoded, multipart/form-data
	KindJSON Kind = "json" // application/json
	KindRaw  Kind = "raw"  // всё остальное (text/plain из sendBeacon и т.п.)
)

// UnknownSource — источник, если его не удалось определить
const UnknownSource = "Unknown"

// Entry — одна перехваченная отправка
type Entry struct {
	ID        string `json:"id" db:"id"`
	Timestamp string `json:"timestamp" db:"received_at"`
	Payload   any    `json:"payload" db:"-"`
	Source    string `json:"source" db:"source"`
	Kind      Kind   `json:"kind" db:"kind"`
}

// NewEntry присваивает id и метку времени (UTC, RFC 3339)
func NewEntry(payload any, source string, kind Kind) Entry {
	if source == "" {
		source = UnknownSource
	}
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   payload,
		Source:    source,
		Kind:      kind,
	}
}

// Log — журнал только на добавление, живёт столько же, сколько процесс
type Log interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// MemoryLog — журнал в памяти под мьютексом. Без ограничения размера: это демо.
type MemoryLog struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, e Entry) error {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return nil
}

// List возвращает копию записей в порядке добавления
func (l *MemoryLog) List(_ context.Context) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}
