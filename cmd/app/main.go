package main

//main.go
import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cspdemo/internal/app"
	"cspdemo/internal/core"

	"github.com/joho/godotenv"
)

func main() {
	// 0) .env, если есть (переменные окружения важнее)
	envErr := godotenv.Load()

	// 1) Конфиг и логи
	cfg, err := core.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := core.InitLogger(cfg); err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer core.Close()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		core.LogError("Ошибка чтения .env", map[string]interface{}{"error": envErr})
	}

	// 2) Контекст для фоновых задач (ротация логов)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startLogRotation(ctx)

	// 3) Приложение
	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	application, err := app.New(initCtx, cfg)
	initCancel()
	if err != nil {
		core.LogError("Ошибка инициализации приложения", map[string]interface{}{"error": err})
		core.Close()
		os.Exit(1)
	}

	// 4) HTTP-сервер с таймаутами (OWASP A05)
	srv := core.Server(cfg, application.Handler)

	// 5) Перехват сигналов
	sigs, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6) Запуск и ожидание
	errCh := runServer(srv, cfg)
	select {
	case err := <-errCh:
		core.LogError("Ошибка работы сервера", map[string]interface{}{"error": err})
	case <-sigs.Done():
		waitShutdown(srv, cfg)
	}

	// 7) Закрытие ресурсов
	if cerr := application.Close(); cerr != nil {
		core.LogError("Ошибка закрытия ресурсов", map[string]interface{}{"error": cerr})
	}
}

// startLogRotation — ротация раз в сутки
func startLogRotation(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := core.InitDailyLog(); err != nil {
					core.LogError("Ошибка ротации логов", map[string]interface{}{"error": err})
				}
			}
		}
	}()
}

// runServer — ListenAndServe в горутине; в канал попадает только настоящая ошибка
func runServer(srv *http.Server, cfg core.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		core.LogInfo("http: сервер запущен", map[string]interface{}{
			"addr": srv.Addr,
			"env":  cfg.Env,
			"app":  cfg.AppName,
		})
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// waitShutdown — корректное завершение
func waitShutdown(srv *http.Server, cfg core.Config) {
	core.LogInfo("http: начат процесс завершения", nil)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		core.LogError("Ошибка завершения сервера", map[string]interface{}{"error": err})
		return
	}
	core.LogInfo("http: завершение выполнено", nil)
}
