// Package config defines the application configuration structures.
//
// Separated from cmd to allow other packages (db, ssh, ai, handler) to
// depend on config without importing Cobra. Values are read once per
// process from the environment, see Load.
package config

import "strconv"

// Config holds the database settings used by the SQL tools.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	SSH SSHConfig
}

// SSHConfig holds SSH tunnel settings.
type SSHConfig struct {
	Enabled       bool
	Host          string
	Port          int
	User          string
	KeyPath       string
	KeyPassphrase string

	// KnownHostsFile enables host key verification when set.
	KnownHostsFile string
}

// DSN builds a pgx-compatible connection string.
// When SSH tunnel is active, the caller should override Host/Port
// with the local tunnel endpoint.
func (c Config) DSN() string {
	dsn := "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database
	if c.SSLMode != "" {
		dsn += " sslmode=" + c.SSLMode
	}
	return dsn
}
