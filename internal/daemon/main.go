// Package daemon wires the configuration, the database, the room locker and
// the web service into a running MeetingMinder instance.
package daemon

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/dsn"
	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
	"github.com/MeetingMinder/MeetingMinder/internal/logger"
	"github.com/MeetingMinder/MeetingMinder/internal/logger/adapter/stdlogger"
	"github.com/MeetingMinder/MeetingMinder/internal/metrics"
	"github.com/MeetingMinder/MeetingMinder/internal/web"
)

// ErrConfigNil is returned when the daemon is created without configuration.
var ErrConfigNil = errors.New("config is nil")

const slowQueryThreshold = 200 * time.Millisecond

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	closers    []func() error
}

// Start serves http until SIGINT or SIGTERM, then releases the resources.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	d.Close()

	return err
}

// Close releases the database and redis connections.
func (d *Daemon) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}

	d.closers = nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "init logger")
	}

	d := &Daemon{cfg: cfg}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	d.closers = append(d.closers, closeDB(db))

	if err = Migrate(cfg, db); err != nil {
		d.Close()
		return nil, err
	}

	s, err := store.New(db)
	if err != nil {
		d.Close()
		return nil, err
	}

	policy, err := booking.ParsePolicy(cfg.Reservation.BoundaryPolicy)
	if err != nil {
		d.Close()
		return nil, err
	}

	locker, closeLocker := NewLocker(cfg)
	if closeLocker != nil {
		d.closers = append(d.closers, closeLocker)
	}

	services := booking.NewServices(s, metrics.TimedLocker{Locker: locker}, policy)

	if d.webService, err = web.New(cfg, services); err != nil {
		d.Close()
		return nil, err
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Str("boundaryPolicy", string(policy)).
		Str("locker", cfg.Reservation.Locker).
		Msg("daemon ready")

	return d, nil
}

// OpenDB opens the configured database with gorm logging through zerolog.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.DevMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(stdlogger.New(), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DB.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	return db, nil
}

// Migrate creates or updates the schema and seeds the configured roles.
func Migrate(cfg *config.Config, db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "migrate database")
	}

	s, err := store.New(db)
	if err != nil {
		return err
	}

	return seed(cfg, s)
}

// NewLocker returns the configured room locker and, for redis, its closer.
func NewLocker(cfg *config.Config) (lock.Locker, func() error) {
	if cfg.Reservation.Locker != config.LockerRedis {
		return lock.NewLocal(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return lock.NewRedis(client, time.Duration(cfg.Redis.LockTTL)*time.Second), client.Close
}

func closeDB(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Close()
	}
}
