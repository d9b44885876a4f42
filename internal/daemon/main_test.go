package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
	"github.com/MeetingMinder/MeetingMinder/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "MeetingMinder",
		DB: config.DB{
			GormEngine:   config.EngineSQLite,
			Path:         filepath.Join(t.TempDir(), "meeting-minder.db"),
			MaxOpenConns: 4,
		},
		Log: logger.Log{
			LogLevel:    "error",
			AppName:     "meeting-minder",
			ServiceName: "meeting-minder-test",
		},
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			WriteTimeout: 5,
		},
		Reservation: config.Reservation{
			BoundaryPolicy: config.BoundaryHalfOpen,
			Locker:         config.LockerLocal,
		},
		Seed: config.Seed{Roles: []string{"Admin", "User"}},
	}
}

func TestMigrateSeedsRolesOnce(t *testing.T) {
	cfg := testConfig(t)

	db, err := OpenDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeDB(db)() })

	require.NoError(t, Migrate(cfg, db))
	require.NoError(t, Migrate(cfg, db))

	s, err := store.New(db)
	require.NoError(t, err)

	page, err := s.ListRoles(context.Background(), store.RoleFilter{}, store.Pageable{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Admin", page.Content[0].Name)
	assert.Equal(t, "User", page.Content[1].Name)
}

func TestOpenDBUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := OpenDB(cfg)
	require.Error(t, err)
}

func TestNewLocker(t *testing.T) {
	cfg := testConfig(t)

	l, closer := NewLocker(cfg)
	assert.IsType(t, &lock.Local{}, l)
	assert.Nil(t, closer)

	mr := miniredis.RunT(t)
	cfg.Reservation.Locker = config.LockerRedis
	cfg.Redis = config.Redis{Addr: mr.Addr(), LockTTL: 10}

	l, closer = NewLocker(cfg)
	require.NotNil(t, closer)
	t.Cleanup(func() { _ = closer() })
	assert.IsType(t, &lock.Redis{}, l)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlock, err := l.Lock(ctx, lock.RoomKey(1))
	require.NoError(t, err)
	assert.True(t, mr.Exists("meeting-minder:lock:room:1"))
	unlock()
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)

	cfg := testConfig(t)
	cfg.Reservation.BoundaryPolicy = "sometimes"

	_, err = New(cfg)
	require.Error(t, err)

	d, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(d.Close)

	assert.NotNil(t, d.webService.App)
}
