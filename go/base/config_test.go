/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package base

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openark/golib/log"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ERROR)
}

func writeConfigFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "typedsql.cnf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestReadConfigFile(t *testing.T) {
	config := NewConfig()
	config.ConfigFile = writeConfigFile(t, `
[client]
user = app
password = secret
host = db.example.com
port = 3307
database = appdb
charset = utf8mb4
socks_proxy = 127.0.0.1:1080
`)
	require.NoError(t, config.ReadConfigFile())
	require.Equal(t, "app", config.User)
	require.Equal(t, "secret", config.Password)
	require.Equal(t, "db.example.com", config.Host)
	require.Equal(t, 3307, config.Port)
	require.Equal(t, "appdb", config.Database)
	require.Equal(t, "utf8mb4", config.Charset)
	require.Equal(t, "127.0.0.1:1080", config.SocksProxy)
}

func TestReadConfigFileCommandLineWins(t *testing.T) {
	config := NewConfig()
	config.User = "cli-user"
	config.Host = "cli-host"
	config.Port = 3310
	config.ConfigFile = writeConfigFile(t, `
[client]
user = file-user
host = file-host
port = 3307
`)
	require.NoError(t, config.ReadConfigFile())
	require.Equal(t, "cli-user", config.User)
	require.Equal(t, "cli-host", config.Host)
	require.Equal(t, 3310, config.Port)
}

func TestReadConfigFileEmptyPathIsNoop(t *testing.T) {
	config := NewConfig()
	require.NoError(t, config.ReadConfigFile())
	require.Equal(t, "127.0.0.1", config.Host)
	require.Equal(t, 3306, config.Port)
}

func TestReadConfigFileMissing(t *testing.T) {
	config := NewConfig()
	config.ConfigFile = "/does/not/exist.cnf"
	require.Error(t, config.ReadConfigFile())
}
