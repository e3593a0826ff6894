package exfil

// sql.go — необязательная MySQL-копия журнала, общая для инстансов на разных поддоменах
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cspdemo/internal/core"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const schema = `
	CREATE TABLE IF NOT EXISTS exfil_entries (
		seq         BIGINT AUTO_INCREMENT PRIMARY KEY,
		id          CHAR(36)     NOT NULL,
		received_at VARCHAR(40)  NOT NULL,
		source      TEXT         NOT NULL,
		kind        VARCHAR(8)   NOT NULL,
		payload     LONGTEXT     NULL
	) DEFAULT CHARSET=utf8mb4`

// SQLLog — журнал в MySQL. Таблица очищается при открытии,
// поэтому записи, как и в памяти, живут до перезапуска.
type SQLLog struct {
	db *sqlx.DB
}

type sqlRow struct {
	ID        string  `db:"id"`
	Timestamp string  `db:"received_at"`
	Source    string  `db:"source"`
	Kind      string  `db:"kind"`
	Payload   *string `db:"payload"`
}

// OpenSQLLog подключается к MySQL, создаёт таблицу и очищает её
func OpenSQLLog(ctx context.Context, dsn string) (*SQLLog, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", withDSNDefaults(dsn))
	if err != nil {
		core.LogError("ошибка подключения к MySQL", map[string]interface{}{
			"error": err,
			"dsn":   SanitizeDSN(dsn),
		})
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("создание таблицы exfil_entries: %w", err)
	}
	if _, err := db.ExecContext(ctx, "TRUNCATE TABLE exfil_entries"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("очистка exfil_entries: %w", err)
	}

	core.LogInfo("MySQL-журнал exfil подключён", map[string]interface{}{"dsn": SanitizeDSN(dsn)})
	return &SQLLog{db: db}, nil
}

func (l *SQLLog) Append(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("кодирование payload: %w", err)
	}
	const q = `INSERT INTO exfil_entries (id, received_at, source, kind, payload) VALUES (?, ?, ?, ?, ?)`
	if _, err := l.db.ExecContext(ctx, q, e.ID, e.Timestamp, e.Source, string(e.Kind), string(payload)); err != nil {
		core.LogError("exfil insert", map[string]interface{}{"id": e.ID, "error": err})
		return err
	}
	return nil
}

func (l *SQLLog) List(ctx context.Context) ([]Entry, error) {
	const q = `SELECT id, received_at, source, kind, payload FROM exfil_entries ORDER BY seq ASC`
	var rows []sqlRow
	if err := l.db.SelectContext(ctx, &rows, q); err != nil {
		core.LogError("exfil list", map[string]interface{}{"error": err})
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e := Entry{ID: row.ID, Timestamp: row.Timestamp, Source: row.Source, Kind: Kind(row.Kind)}
		if row.Payload != nil {
			var v any
			if err := json.Unmarshal([]byte(*row.Payload), &v); err != nil {
				v = *row.Payload
			}
			e.Payload = v
		}
		out = append(out, e)
	}
	return out, nil
}

// Close закрывает пул подключений
func (l *SQLLog) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// withDSNDefaults дописывает таймауты, если их не задали в DSN
func withDSNDefaults(dsn string) string {
	params := []string{"charset=utf8mb4", "timeout=5s", "readTimeout=5s", "writeTimeout=10s", "multiStatements=false"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range params {
		key := p[:strings.Index(p, "=")+1]
		if strings.Contains(dsn, key) {
			continue
		}
		dsn += sep + p
		sep = "&"
	}
	return dsn
}

// SanitizeDSN прячет пароль в DSN для логов: user:***@tcp(host)/db
func SanitizeDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return creds[:colon] + ":***" + dsn[at:]
	}
	return dsn
}
