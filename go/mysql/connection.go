/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package mysql

import (
	"fmt"

	gosql "github.com/go-sql-driver/mysql"
)

// ConnectionConfig is the minimal configuration required to connect to a
// MySQL server over the prepared-statement binary protocol.
type ConnectionConfig struct {
	Key      InstanceKey
	User     string
	Password string
	Database string
	// Charset, when set, is applied to the session after connecting.
	// latin1 result text is transcoded to UTF-8.
	Charset string
	// SocksProxy is an optional host:port of a SOCKS5 proxy to dial the
	// server through.
	SocksProxy string
}

func NewConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Key: InstanceKey{Port: DefaultInstancePort},
	}
}

// Duplicate returns a copy of this connection config.
func (this *ConnectionConfig) Duplicate() *ConnectionConfig {
	config := *this
	return &config
}

func (this *ConnectionConfig) String() string {
	return fmt.Sprintf("%s, user=%s", this.Key.DisplayString(), this.User)
}

// GetDBUri builds a database/sql DSN for this config against the given
// database. Used by tooling and tests that go through the go-sql-driver
// rather than this layer's own transport.
func (this *ConnectionConfig) GetDBUri(databaseName string) string {
	config := gosql.NewConfig()
	config.User = this.User
	config.Passwd = this.Password
	config.Net = "tcp"
	config.Addr = this.Key.NetAddr()
	config.DBName = databaseName
	config.InterpolateParams = true
	return config.FormatDSN()
}
