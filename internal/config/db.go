package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine   string // mysql, postgres or sqlite
	Extras       string // appended to the DSN, e.g. "sslmode=disable"
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	Path         string // sqlite database file, ":memory:" for a throwaway database
	MaxOpenConns int    // 0 keeps the driver default
}
