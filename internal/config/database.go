// internal/config/database.go
package config

import (
	"fmt"
)

// DSN renders the keyword/value connection string for the Postgres
// driver. application_name makes this service identifiable in
// pg_stat_activity.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=auto-service TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
