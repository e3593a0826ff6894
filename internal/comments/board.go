// Package comments — гостевая доска, которую демо-страницы выводят без экранирования:
// это точка внедрения, которую должна сдержать CSP.
package comments

import (
	"errors"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultLimit — сколько последних комментариев хранить
const DefaultLimit = 200

// Input — данные формы (OWASP A03)
type Input struct {
	Author string `validate:"required,min=1,max=100"`
	Body   string `validate:"required,min=1,max=2000"`
}

// Comment — сохранённый комментарий: исходный HTML и очищенная копия
type Comment struct {
	ID        string
	Author    string
	Body      string // как прислали
	Safe      string // после bluemonday UGCPolicy
	CreatedAt time.Time
}

// RawHTML отдаёт тело без экранирования — намеренная уязвимость демо
func (c Comment) RawHTML() template.HTML {
	return template.HTML(c.Body) //nolint:gosec // точка внедрения для демонстрации CSP
}

// SafeHTML — очищенное тело
func (c Comment) SafeHTML() template.HTML {
	return template.HTML(c.Safe)
}

// ValidationError — ошибки по полям формы
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "comments: некорректные данные формы"
}

// Board — потокобезопасная доска с ограничением размера
type Board struct {
	mu        sync.RWMutex
	items     []Comment
	limit     int
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewBoard(limit int) *Board {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Board{
		limit:     limit,
		validate:  validator.New(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Add проверяет форму и сохраняет комментарий. Самые старые вытесняются после limit.
func (b *Board) Add(in Input) (Comment, error) {
	in.Author = strings.TrimSpace(in.Author)
	in.Body = strings.TrimSpace(in.Body)

	if err := b.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Comment{}, &ValidationError{Fields: fieldMessages(verrs)}
		}
		return Comment{}, err
	}

	c := Comment{
		ID:        uuid.NewString(),
		Author:    in.Author,
		Body:      in.Body,
		Safe:      b.sanitizer.Sanitize(in.Body),
		CreatedAt: time.Now().UTC(),
	}

	b.mu.Lock()
	b.items = append(b.items, c)
	if over := len(b.items) - b.limit; over > 0 {
		b.items = append([]Comment(nil), b.items[over:]...)
	}
	b.mu.Unlock()
	return c, nil
}

// List — копия комментариев, от старых к новым
func (b *Board) List() []Comment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Comment, len(b.items))
	copy(out, b.items)
	return out
}

func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	errs := make(map[string]string, len(verrs))
	for _, e := range verrs {
		switch e.Field() {
		case "Author":
			switch e.Tag() {
			case "required", "min":
				errs["author"] = "Укажите имя"
			case "max":
				errs["author"] = "Слишком длинное имя (макс. 100)"
			default:
				errs["author"] = "Некорректное имя"
			}
		case "Body":
			switch e.Tag() {
			case "required", "min":
				errs["body"] = "Напишите комментарий"
			case "max":
				errs["body"] = "Слишком длинный комментарий (макс. 2000)"
			default:
				errs["body"] = "Некорректный комментарий"
			}
		}
	}
	return errs
}
