package config

import (
	"github.com/MeetingMinder/MeetingMinder/internal/logger"
)

// Reservation boundary policies.
const (
	BoundaryHalfOpen  = "half-open"
	BoundaryInclusive = "inclusive"
)

// Room lockers.
const (
	LockerLocal = "local"
	LockerRedis = "redis"
)

// Config overall data structure.
type Config struct {
	DevMode     bool // enable dev mode for development
	DB          DB
	Log         logger.Log
	Title       string
	Webserver   Webserver
	Reservation Reservation
	Redis       Redis
	Seed        Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover  bool    // disable recover middleware
	Port            int     // listening port for the webserver
	ShutDownTime    int     // wait time for shutdown in seconds
	URL             string  // base url for the webserver
	WriteTimeout    int     // seconds a write may wait for the room lock and the store
	RateLimitPerSec float64 // requests per second and client ip, 0 disables the limiter
	RateLimitBurst  int
	CacheTTL        int // seconds a GET response is cached, 0 disables the cache
}

// Reservation holds the booking rules.
type Reservation struct {
	BoundaryPolicy string // half-open or inclusive
	Locker         string // local or redis
}

// Redis connection used by the redis room locker.
type Redis struct {
	Addr     string
	Password string
	DB       int
	LockTTL  int // seconds before a lock of a crashed instance expires
}

// Seed holds data created at start when missing.
type Seed struct {
	Roles []string
}
