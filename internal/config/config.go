// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding single config keys,
	// e.g. MEETING_MINDER_DB_PASSWORD overrides DB.Password.
	EnvPrefix = "MEETING_MINDER"

	// EnvConfigJSON holds a JSON document merged over the file config.
	EnvConfigJSON = "MEETING_MINDER_CONFIG_JSON"

	defaultPath = "./etc/"
	mainFile    = "main.toml"
	dotEnvFile  = ".env"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = defaultPath
	}

	// optional .env next to main.toml, existing environment wins
	if err = godotenv.Load(path + dotEnvFile); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := viper.New()
	v.SetConfigFile(path + mainFile)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without and
// fills in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.WriteTimeout == 0 {
		c.Webserver.WriteTimeout = 5
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.DB.GormEngine == EngineSQLite && c.DB.Path == "" {
		c.DB.Path = "meeting-minder.db"
	}

	switch c.Reservation.BoundaryPolicy {
	case "":
		c.Reservation.BoundaryPolicy = BoundaryHalfOpen
	case BoundaryHalfOpen, BoundaryInclusive:
	default:
		return errors.Wrapf(ErrUnknownBoundaryPolicy, "%s: %q", invalidErrMessage, c.Reservation.BoundaryPolicy)
	}

	switch c.Reservation.Locker {
	case "":
		c.Reservation.Locker = LockerLocal
	case LockerLocal:
	case LockerRedis:
		if c.Redis.Addr == "" {
			return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnknownLocker, "%s: %q", invalidErrMessage, c.Reservation.Locker)
	}

	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = 10
	}

	// a lock must outlive the longest write holding it
	if c.Reservation.Locker == LockerRedis && c.Redis.LockTTL <= c.Webserver.WriteTimeout {
		return errors.Wrapf(ErrLockTTLTooShort, "%s: lockTTL %d, writeTimeout %d",
			invalidErrMessage, c.Redis.LockTTL, c.Webserver.WriteTimeout)
	}

	return nil
}
