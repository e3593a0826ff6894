package core

// logger.go
import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// logRetentionDays — сколько дней хранить лог-файлы
const logRetentionDays = 7

type Logger struct {
	mainLogger  zerolog.Logger
	errorLogger zerolog.Logger
	mainFile    *os.File
	errorFile   *os.File
	console     io.Writer // ConsoleWriter в dev, stdout в prod; переживает ротацию
	dir         string
	mu          sync.Mutex
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// InitLogger настраивает zerolog: консоль в dev, JSON в prod,
// плюс ежедневные файлы в LOG_DIR, если каталог задан.
func InitLogger(cfg Config) error {
	var console io.Writer = os.Stdout
	if !cfg.IsProd() {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return initLogger(console, cfg.LogDir)
}

// InitDailyLog переоткрывает файлы за текущую дату и чистит старые (вызывается ротацией раз в сутки).
// Формат консоли сохраняется тот же, что выбрал InitLogger.
func InitDailyLog() error {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil || l.dir == "" {
		return nil
	}
	return initLogger(l.console, l.dir)
}

func initLogger(console io.Writer, dir string) error {
	l := &Logger{dir: dir, console: console}
	mainOut, errOut := console, console

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("создание каталога логов: %w", err)
		}
		// Имена файлов: день-месяц-год
		dateStr := time.Now().Format("02-01-2006")
		mainFile, err := os.OpenFile(filepath.Join(dir, dateStr+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("открытие основного лог-файла: %w", err)
		}
		errorFile, err := os.OpenFile(filepath.Join(dir, "errors-"+dateStr+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = mainFile.Close()
			return fmt.Errorf("открытие файла ошибок: %w", err)
		}
		l.mainFile, l.errorFile = mainFile, errorFile
		mainOut = zerolog.MultiLevelWriter(console, mainFile)
		errOut = zerolog.MultiLevelWriter(console, mainFile, errorFile)

		go cleanupOldLogs(dir, logRetentionDays)
	}

	l.mainLogger = zerolog.New(mainOut).With().Timestamp().Logger()
	l.errorLogger = zerolog.New(errOut).With().Timestamp().Logger()

	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	prev.closeFiles()
	return nil
}

// Log возвращает основной zerolog-логгер (для middleware); до инициализации — пустой
func Log() *zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return &globalLogger.mainLogger
}

func LogInfo(msg string, fields map[string]interface{}) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return // Игнорируем, если логгер не настроен или закрыт
	}
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	event := globalLogger.mainLogger.Info()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func LogError(msg string, fields map[string]interface{}) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return
	}
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	event := globalLogger.errorLogger.Error()
	for k, v := range fields {
		if e, ok := v.(error); ok {
			event = event.AnErr(k, e)
			continue
		}
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func cleanupOldLogs(dir string, days int) {
	files, err := os.ReadDir(dir)
	if err != nil {
		LogError("Не удалось прочитать каталог логов", map[string]interface{}{"dir": dir, "error": err})
		return
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, file.Name())
			if err := os.Remove(path); err != nil {
				LogError("Удаление старого лог-файла", map[string]interface{}{"path": path, "error": err})
			}
		}
	}
}

func (l *Logger) closeFiles() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mainFile != nil {
		_ = l.mainFile.Close()
	}
	if l.errorFile != nil {
		_ = l.errorFile.Close()
	}
}

// Close закрывает лог-файлы; дальнейшие вызовы LogInfo/LogError игнорируются
func Close() {
	globalMu.Lock()
	l := globalLogger
	globalLogger = nil
	globalMu.Unlock()
	l.closeFiles()
}
