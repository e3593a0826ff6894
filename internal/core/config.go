package core

//config.go

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Режимы выдачи nonce для сценария /nonce-nginx
const (
	NginxModeStandalone = "standalone" // приложение само генерирует nonce и заголовок
	NginxModeProxy      = "proxy"      // nonce подставляет NGINX (sub_filter), приложение отдаёт плейсхолдер
)

// Config определяет настройки приложения (OWASP A05: Security Misconfiguration)
type Config struct {
	AppName string `validate:"required"`
	Port    string `validate:"required,numeric"`        // PORT
	Env     string `validate:"oneof=dev staging prod"` // Среда выполнения
	CSRFKey string `validate:"required"`               // Секрет для gorilla/csrf
	Secure  bool   // HTTPS: secure-cookie и HSTS

	// Базовый домен мультидоменного деплоя (vulnerable.<домен>, basic-csp.<домен>, ...)
	BaseDomain     string   `validate:"omitempty,hostname_rfc1123"`
	NginxNonceMode string   `validate:"oneof=standalone proxy"`
	TrustedProxies []string // Адреса прокси, которым верим в X-Forwarded-Proto
	ExfilDSN       string   // Необязательная MySQL-копия журнала "украденных" данных
	LogDir         string   // Каталог для ежедневных лог-файлов (пусто: только stdout)

	ShutdownTimeout   time.Duration `validate:"gt=0"`
	ReadHeaderTimeout time.Duration `validate:"gt=0"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	IdleTimeout       time.Duration `validate:"gt=0"`
	RequestTimeout    time.Duration // 0: без таймаута
}

// Addr — адрес для http.Server
func (c Config) Addr() string {
	return ":" + c.Port
}

// IsProd сообщает, что приложение запущено в продакшене
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// Load загружает конфигурацию из переменных окружения со значениями по умолчанию (OWASP A05)
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", "cspdemo"),
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("APP_ENV", "dev"),
		CSRFKey:           getEnv("CSRF_KEY", ""),
		Secure:            getEnv("SECURE", "") == "true",
		BaseDomain:        strings.ToLower(getEnv("CSP_BASE_DOMAIN", "example.com")),
		NginxNonceMode:    strings.ToLower(getEnv("NGINX_NONCE_MODE", NginxModeStandalone)),
		TrustedProxies:    splitList(getEnv("TRUSTED_PROXIES", "127.0.0.1,::1")),
		ExfilDSN:          getEnv("EXFIL_DB_DSN", ""),
		LogDir:            getEnv("LOG_DIR", ""),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout: getEnvDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:      getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}

	// Ключ, заданный явно, обязан быть достаточно длинным в продакшене
	if cfg.IsProd() && len(cfg.CSRFKey) < 32 {
		return cfg, fmt.Errorf("CSRF_KEY должен содержать не менее 32 символов в продакшене (сейчас %d)", len(cfg.CSRFKey))
	}
	if cfg.CSRFKey == "" {
		key, err := generateRandomKey()
		if err != nil {
			return cfg, fmt.Errorf("генерация CSRF-ключа: %w", err)
		}
		cfg.CSRFKey = key
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

// getEnvDuration возвращает длительность из переменной окружения или значение по умолчанию
func getEnvDuration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		LogError("Неверный формат длительности", map[string]interface{}{"key": key, "value": val, "error": err.Error()})
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// generateRandomKey создаёт случайный 32-байтовый ключ в формате base64.
// Ошибку не маскируем слабым ключом.
func generateRandomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
