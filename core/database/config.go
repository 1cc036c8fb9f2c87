package database

// Config holds configuration for the legacy store connection.
type Config struct {
	// Driver is the database driver (sqlite, mysql). The legacy cache is a
	// sqlite file; mysql covers mirrors imported for fleet-wide checks.
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Name is the database name, or the sqlite file path.
	Name string `mapstructure:"name" default:""`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the connection and I/O timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
