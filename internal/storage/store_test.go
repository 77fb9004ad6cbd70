package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("sqlite:///" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newSession(id, userID string, createdAt time.Time) *Session {
	return &Session{
		SessionID: id,
		UserID:    userID,
		Platform:  PlatformWeb,
		Questions: []string{},
		Answers:   []string{},
		Status:    StatusActive,
		CreatedAt: createdAt,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, store.Create(ctx, newSession("s1", "", created)))

	got, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Empty(t, got.UserID)
	assert.Equal(t, PlatformWeb, got.Platform)
	assert.Equal(t, StatusActive, got.Status)
	assert.Empty(t, got.Position)
	assert.Equal(t, []string{}, got.Questions)
	assert.Equal(t, []string{}, got.Answers)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestStoreGetUnknown(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorePartialUpdate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newSession("s1", "u1", time.Now())))

	questions := []string{"Что такое горутина?", "Что такое канал?"}
	require.NoError(t, store.Update(ctx, "s1", Update{
		Position:        Ptr("Backend Developer"),
		Questions:       questions,
		Answers:         []string{},
		CurrentQuestion: Ptr(0),
	}))

	require.NoError(t, store.Update(ctx, "s1", Update{
		Answers:         []string{"легковесный поток"},
		CurrentQuestion: Ptr(1),
	}))

	got, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", got.Position)
	assert.Equal(t, questions, got.Questions)
	assert.Equal(t, []string{"легковесный поток"}, got.Answers)
	assert.Equal(t, 1, got.CurrentQuestion)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, StatusActive, got.Status)

	completed := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, store.Update(ctx, "s1", Update{
		Status:      Ptr(StatusCompleted),
		Feedback:    Ptr("Хороший кандидат"),
		CompletedAt: &completed,
	}))

	got, err = store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsCompleted())
	assert.Equal(t, "Хороший кандидат", got.Feedback)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, completed.Equal(*got.CompletedAt))
}

func TestStoreUpdateUnknown(t *testing.T) {
	store := setupTestStore(t)

	err := store.Update(context.Background(), "missing", Update{Position: Ptr("QA")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreEmptyUpdateIsNoop(t *testing.T) {
	store := setupTestStore(t)
	assert.True(t, Update{}.IsEmpty())
	assert.False(t, Update{Answers: []string{}}.IsEmpty())
	assert.NoError(t, store.Update(context.Background(), "missing", Update{}))

	// пустое обновление не обращается к базе
	require.NoError(t, store.Close())
	assert.NoError(t, store.Update(context.Background(), "missing", Update{}))
}

func TestStoreListByUserNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, newSession("old", "u1", base)))
	require.NoError(t, store.Create(ctx, newSession("new", "u1", base.Add(2*time.Hour))))
	require.NoError(t, store.Create(ctx, newSession("mid", "u1", base.Add(time.Hour))))
	require.NoError(t, store.Create(ctx, newSession("other", "u2", base.Add(3*time.Hour))))

	sessions, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "new", sessions[0].SessionID)
	assert.Equal(t, "mid", sessions[1].SessionID)
	assert.Equal(t, "old", sessions[2].SessionID)

	none, err := store.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorePing(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenInMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Create(context.Background(), newSession("m1", "", time.Now())))
	_, err = store.GetByID(context.Background(), "m1")
	assert.NoError(t, err)
}

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		raw    string
		driver string
		dsn    string
		err    bool
	}{
		{raw: "sqlite:///./academy_hr.db", driver: driverSQLite, dsn: "./academy_hr.db"},
		{raw: "sqlite://data/hr.db", driver: driverSQLite, dsn: "data/hr.db"},
		{raw: "hr.db", driver: driverSQLite, dsn: "hr.db"},
		{raw: "postgres://u:p@localhost/hr", driver: driverPostgres, dsn: "postgres://u:p@localhost/hr"},
		{raw: "postgresql://localhost/hr", driver: driverPostgres, dsn: "postgresql://localhost/hr"},
		{raw: "mysql://localhost/hr", err: true},
		{raw: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			driver, dsn, err := parseDatabaseURL(tt.raw)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestRebindPostgres(t *testing.T) {
	pg := &Store{driver: driverPostgres}
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", pg.rebind("UPDATE t SET a = ?, b = ? WHERE id = ?"))

	lite := &Store{driver: driverSQLite}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}
