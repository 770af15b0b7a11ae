package models

import (
	"fmt"
	"net/url"
)

// ConnectionDescriptor carries every field required to open one Postgres
// connection. It exists only transiently between credential minting and the
// connection open call.
type ConnectionDescriptor struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"-"`
	SSLMode  string `json:"ssl_mode"`
}

func (d *ConnectionDescriptor) Prepare() {
	if d.Port == 0 {
		d.Port = DefaultPostgresPort
	}
	if d.SSLMode == "" {
		d.SSLMode = "require"
	}
}

// DSN builds a postgres:// connection URL. Username and password are encoded
// with url.UserPassword so minted tokens with special characters survive.
func (d *ConnectionDescriptor) DSN() string {
	userInfo := url.UserPassword(d.Username, d.Password)
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo.String(),
		d.Host,
		d.Port,
		url.PathEscape(d.Database),
		d.SSLMode,
	)
}

// Redacted returns the DSN with the password masked, safe for logs.
func (d *ConnectionDescriptor) Redacted() string {
	return fmt.Sprintf("postgres://%s:***@%s:%d/%s?sslmode=%s", d.Username, d.Host, d.Port, d.Database, d.SSLMode)
}
