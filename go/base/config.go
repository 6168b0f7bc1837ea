/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package base

import (
	"fmt"

	"github.com/go-ini/ini"
)

// Config carries the CLI/config-file settings for establishing a connection.
// Values explicitly given on the command line win over the config file.
type Config struct {
	ConfigFile string

	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	Charset    string
	SocksProxy string
}

func NewConfig() *Config {
	return &Config{
		Host: "127.0.0.1",
		Port: 3306,
	}
}

// ReadConfigFile attempts to read the config file, if one was given. Only
// values still unset are taken from the file. Expected layout is a [client]
// section in my.cnf style:
//
//	[client]
//	user = app
//	password = secret
//	host = db.example.com
//	port = 3306
//	database = app
func (this *Config) ReadConfigFile() error {
	if this.ConfigFile == "" {
		return nil
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true, Loose: false}, this.ConfigFile)
	if err != nil {
		return fmt.Errorf("unable to read config file %s: %s", this.ConfigFile, err)
	}

	section := cfg.Section("client")
	if this.User == "" {
		this.User = section.Key("user").String()
	}
	if this.Password == "" {
		this.Password = section.Key("password").String()
	}
	if this.Host == "" || this.Host == "127.0.0.1" {
		if host := section.Key("host").String(); host != "" {
			this.Host = host
		}
	}
	if this.Port == 0 || this.Port == 3306 {
		if port, err := section.Key("port").Int(); err == nil && port > 0 {
			this.Port = port
		}
	}
	if this.Database == "" {
		this.Database = section.Key("database").String()
	}
	if this.Charset == "" {
		this.Charset = section.Key("charset").String()
	}
	if this.SocksProxy == "" {
		this.SocksProxy = section.Key("socks_proxy").String()
	}
	return nil
}
