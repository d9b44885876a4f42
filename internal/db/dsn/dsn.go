// Package dsn builds data source names and gorm dialectors from the configuration.
package dsn

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MeetingMinder/MeetingMinder/internal/config"
)

// ErrUnsupportedEngine is returned for an unknown DB.GormEngine.
var ErrUnsupportedEngine = errors.New("unsupported gorm engine")

// sqlitePragmas enable foreign keys and wait on a locked database file.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) (string, error) {
	db := cfg.DB

	switch db.GormEngine {
	case config.EngineMySQL:
		mc := mysqldriver.NewConfig()
		mc.User = db.User
		mc.Passwd = db.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		mc.DBName = db.Name
		mc.ParseTime = true
		mc.Loc = time.UTC

		out := mc.FormatDSN()
		if db.Extras != "" {
			out += "&" + db.Extras
		}

		return out, nil
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s TimeZone=UTC",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
		)
		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out, nil
	case config.EngineSQLite:
		sep := "?"
		if strings.Contains(db.Path, "?") {
			sep = "&"
		}

		return db.Path + sep + sqlitePragmas, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedEngine, "%q", db.GormEngine)
	}
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	out, err := Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(out), nil
	case config.EnginePostgres:
		return postgres.Open(out), nil
	default:
		return sqlite.Open(out), nil
	}
}
