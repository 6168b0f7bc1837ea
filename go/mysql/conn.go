/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

// Package mysql provides the production transport for the binding engine:
// a driver.Conn over the MySQL client protocol, plus connection configuration.
package mysql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openark/golib/log"
	"golang.org/x/net/proxy"

	gomysqlclient "github.com/go-mysql-org/go-mysql/client"

	"github.com/typedsql/typedsql/go/client"
	"github.com/typedsql/typedsql/go/driver"
)

// Conn is a single MySQL session speaking the prepared-statement binary
// protocol. It implements driver.Conn. Not safe for concurrent use; the
// engine's executor serializes all statement traffic on it.
type Conn struct {
	config     *ConnectionConfig
	conn       *gomysqlclient.Conn
	sessionId  string
	serverInfo *ServerInfo
	closed     bool
}

// Connect establishes a session per the given config, validates the server
// version and applies the configured charset. Auth or dial failures surface
// as connection errors.
func Connect(config *ConnectionConfig) (*Conn, error) {
	if !config.Key.IsValid() {
		return nil, client.Errorf(client.ErrConnection, "invalid instance key: %+v", config.Key)
	}

	rawConn, err := dial(config)
	if err != nil {
		return nil, client.WrapError(client.ErrConnection, err)
	}

	this := &Conn{
		config:    config.Duplicate(),
		conn:      rawConn,
		sessionId: uuid.New().String(),
	}
	if this.serverInfo, err = readServerInfo(rawConn); err != nil {
		rawConn.Close()
		return nil, client.WrapError(client.ErrConnection, err)
	}
	if !this.serverInfo.SupportsBinaryProtocol() {
		rawConn.Close()
		return nil, client.Errorf(client.ErrConnection, "server version %s is below minimum supported %s", this.serverInfo.Version, MinimumSupportedVersion)
	}
	if config.Charset != "" {
		if err = rawConn.SetCharset(config.Charset); err != nil {
			rawConn.Close()
			return nil, client.WrapError(client.ErrConnection, err)
		}
	}

	log.Infof("connected to %+v; session=%s; server version %s", config.Key, this.sessionId, this.serverInfo.Version)
	return this, nil
}

func dial(config *ConnectionConfig) (*gomysqlclient.Conn, error) {
	addr := config.Key.NetAddr()
	if config.SocksProxy == "" {
		return gomysqlclient.Connect(addr, config.User, config.Password, config.Database)
	}

	socksDialer, err := proxy.SOCKS5("tcp", config.SocksProxy, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}
	contextDialer, ok := socksDialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 proxy dialer does not support context dialing")
	}
	return gomysqlclient.ConnectWithDialer(context.Background(), "tcp", addr, config.User, config.Password, config.Database, contextDialer.DialContext)
}

func readServerInfo(conn *gomysqlclient.Conn) (*ServerInfo, error) {
	result, err := conn.Execute(`select @@global.version, @@global.version_comment, @@global.time_zone`)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var info ServerInfo
	if info.Version, err = result.GetString(0, 0); err != nil {
		return nil, err
	}
	if info.VersionComment, err = result.GetString(0, 1); err != nil {
		return nil, err
	}
	if info.TimeZone, err = result.GetString(0, 2); err != nil {
		return nil, err
	}
	return &info, nil
}

// ServerInfo reports the server config read at connect time.
func (this *Conn) ServerInfo() *ServerInfo {
	return this.serverInfo
}

// SessionId identifies this session in log lines.
func (this *Conn) SessionId() string {
	return this.sessionId
}

// Prepare compiles the statement text server-side.
func (this *Conn) Prepare(query string) (driver.Stmt, error) {
	rawStmt, err := this.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	log.Debugf("session=%s prepared statement: %s", this.sessionId, query)
	return &stmt{conn: this, raw: rawStmt, query: query, current: -1}, nil
}

// Close terminates the session. Idempotent. Statements derived from this
// connection must be closed first.
func (this *Conn) Close() error {
	if this.closed {
		return nil
	}
	this.closed = true
	log.Infof("closing connection to %+v; session=%s", this.config.Key, this.sessionId)
	return this.conn.Close()
}
