package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS interview_sessions (
	session_id TEXT PRIMARY KEY,
	user_id TEXT,
	platform TEXT NOT NULL DEFAULT 'web',
	position TEXT NOT NULL DEFAULT '',
	questions TEXT NOT NULL DEFAULT '[]',
	answers TEXT NOT NULL DEFAULT '[]',
	current_question INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'active',
	feedback TEXT,
	created_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_interview_sessions_user ON interview_sessions(user_id, created_at);
`

const selectColumns = `session_id, user_id, platform, position, questions, answers,
	current_question, status, feedback, created_at, completed_at`

// Store хранит сессии собеседований в SQL базе
type Store struct {
	db     *sql.DB
	driver string
}

// Open открывает базу по DATABASE_URL и создает схему.
// sqlite:///path, sqlite://path, путь к файлу и :memory: открываются через go-sqlite3,
// postgres:// и postgresql:// через lib/pq.
func Open(databaseURL string) (*Store, error) {
	driver, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	if driver == driverSQLite && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
			}
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы: %w", err)
	}

	if driver == driverSQLite {
		// SQLite допускает одного писателя; для :memory: одно соединение = одна база
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("ошибка создания схемы: %w", err)
		}
	}

	return &Store{db: db, driver: driver}, nil
}

func parseDatabaseURL(raw string) (driver, dsn string, err error) {
	switch {
	case raw == "":
		return "", "", fmt.Errorf("пустой DATABASE_URL")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return driverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite:///"):
		return driverSQLite, strings.TrimPrefix(raw, "sqlite:///"), nil
	case strings.HasPrefix(raw, "sqlite://"):
		return driverSQLite, strings.TrimPrefix(raw, "sqlite://"), nil
	case strings.Contains(raw, "://"):
		return "", "", fmt.Errorf("неподдерживаемый DATABASE_URL: %s", raw)
	default:
		return driverSQLite, raw, nil
	}
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping проверяет доступность базы
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create сохраняет новую сессию
func (s *Store) Create(ctx context.Context, session *Session) error {
	questions, err := EncodeList(session.Questions)
	if err != nil {
		return err
	}
	answers, err := EncodeList(session.Answers)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO interview_sessions (session_id, user_id, platform, position, questions, answers,
			current_question, status, feedback, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		session.SessionID, nullString(session.UserID), session.Platform, session.Position,
		questions, answers, session.CurrentQuestion, string(session.Status),
		nullString(session.Feedback), session.CreatedAt.UTC(), nullTime(session.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения сессии %s: %w", session.SessionID, err)
	}

	return nil
}

// GetByID загружает сессию; ErrNotFound если такой нет
func (s *Store) GetByID(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+selectColumns+` FROM interview_sessions WHERE session_id = ?`), id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки сессии %s: %w", id, err)
	}

	return session, nil
}

// Update записывает заданные поля. Последняя запись побеждает.
func (s *Store) Update(ctx context.Context, id string, update Update) error {
	if update.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.UserID != nil {
		add("user_id", nullString(*update.UserID))
	}
	if update.Position != nil {
		add("position", *update.Position)
	}
	if update.Questions != nil {
		encoded, err := EncodeList(update.Questions)
		if err != nil {
			return err
		}
		add("questions", encoded)
	}
	if update.Answers != nil {
		encoded, err := EncodeList(update.Answers)
		if err != nil {
			return err
		}
		add("answers", encoded)
	}
	if update.CurrentQuestion != nil {
		add("current_question", *update.CurrentQuestion)
	}
	if update.Status != nil {
		add("status", string(*update.Status))
	}
	if update.Feedback != nil {
		add("feedback", nullString(*update.Feedback))
	}
	if update.CompletedAt != nil {
		add("completed_at", update.CompletedAt.UTC())
	}

	args = append(args, id)
	query := "UPDATE interview_sessions SET " + strings.Join(sets, ", ") + " WHERE session_id = ?"

	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления сессии %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка обновления сессии %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// ListByUser возвращает сессии пользователя, новые первыми
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+selectColumns+`
		FROM interview_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сессий пользователя %s: %w", userID, err)
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		session     Session
		userID      sql.NullString
		feedback    sql.NullString
		questions   string
		answers     string
		status      string
		completedAt sql.NullTime
	)

	err := row.Scan(&session.SessionID, &userID, &session.Platform, &session.Position,
		&questions, &answers, &session.CurrentQuestion, &status, &feedback,
		&session.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if session.Questions, err = DecodeList(questions); err != nil {
		return nil, err
	}
	if session.Answers, err = DecodeList(answers); err != nil {
		return nil, err
	}

	session.UserID = userID.String
	session.Feedback = feedback.String
	session.Status = Status(status)
	if completedAt.Valid {
		t := completedAt.Time
		session.CompletedAt = &t
	}

	return &session, nil
}

// rebind заменяет плейсхолдеры ? на $N для Postgres
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
