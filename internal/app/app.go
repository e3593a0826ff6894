package app

// internal/app/app.go
import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"cspdemo/internal/comments"
	"cspdemo/internal/core"
	"cspdemo/internal/exfil"
	httpx "cspdemo/internal/http"
	"cspdemo/internal/http/handler"
	"cspdemo/internal/metrics"
	"cspdemo/internal/view"
	"cspdemo/web"
)

// App — собранное приложение: обработчик и ресурсы, которые надо закрыть
type App struct {
	Handler http.Handler
	closers []func() error
}

// New — главный конструктор. ctx нужен только на время подключения к MySQL.
func New(ctx context.Context, cfg core.Config) (*App, error) {
	return newApp(ctx, cfg, web.Files)
}

func newApp(ctx context.Context, cfg core.Config, files fs.FS) (*App, error) {
	tpl, err := view.New(files)
	if err != nil {
		return nil, err
	}

	src, err := fs.ReadFile(files, web.HashInlineScript)
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", web.HashInlineScript, err)
	}

	a := &App{}
	log, err := a.openExfilLog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := handler.Deps{
		Views:      tpl,
		Board:      comments.NewBoard(comments.DefaultLimit),
		Exfil:      log,
		Metrics:    metrics.New(),
		Script:     handler.NewInlineScript(src),
		BaseDomain: cfg.BaseDomain,
		NginxMode:  cfg.NginxNonceMode,
	}
	core.LogInfo("Политики CSP готовы", map[string]interface{}{
		"hash_digest": deps.Script.Digest,
		"base_domain": cfg.BaseDomain,
		"nginx_mode":  cfg.NginxNonceMode,
	})

	h, err := httpx.NewRouter(cfg, deps)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Handler = h
	return a, nil
}

// openExfilLog — журнал в памяти или MySQL, если задан EXFIL_DB_DSN
func (a *App) openExfilLog(ctx context.Context, cfg core.Config) (exfil.Log, error) {
	if cfg.ExfilDSN == "" {
		return exfil.NewMemoryLog(), nil
	}
	sqlLog, err := exfil.OpenSQLLog(ctx, cfg.ExfilDSN)
	if err != nil {
		return nil, fmt.Errorf("журнал exfil в MySQL: %w", err)
	}
	a.closers = append(a.closers, sqlLog.Close)
	return sqlLog, nil
}

// Close освобождает ресурсы (пул MySQL)
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
