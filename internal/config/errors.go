package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine is not supported")

	// ErrUnknownBoundaryPolicy error if config reservation.boundaryPolicy is not supported.
	ErrUnknownBoundaryPolicy = errors.New("toml config reservation.boundaryPolicy must be half-open or inclusive")

	// ErrUnknownLocker error if config reservation.locker is not supported.
	ErrUnknownLocker = errors.New("toml config reservation.locker must be local or redis")

	// ErrEmptyRedisAddr error if the redis locker is used without an address.
	ErrEmptyRedisAddr = errors.New("toml config redis.addr can not be empty with the redis locker")

	// ErrLockTTLTooShort error if a redis lock could expire before the write holding it times out.
	ErrLockTTLTooShort = errors.New("toml config redis.lockTTL must be greater than webserver.writeTimeout")
)
