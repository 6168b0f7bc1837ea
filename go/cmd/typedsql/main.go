/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/openark/golib/log"
	"golang.org/x/term"

	"github.com/typedsql/typedsql/go/base"
	"github.com/typedsql/typedsql/go/client"
	"github.com/typedsql/typedsql/go/mysql"
)

var AppVersion string

// isRowReturning decides between the row-returning and the affected-rows
// execution paths by the statement's leading keyword.
func isRowReturning(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "select", "show", "describe", "desc", "explain":
		return true
	}
	return false
}

// main runs a single parameterized statement against a MySQL server and
// prints the result: tab-separated rows for queries, the affected-row count
// for mutations. Remaining command line arguments bind to the statement's
// placeholders, as strings.
func main() {
	config := base.NewConfig()

	flag.StringVar(&config.Host, "host", "127.0.0.1", "MySQL hostname")
	flag.IntVar(&config.Port, "port", 3306, "MySQL port")
	flag.StringVar(&config.User, "user", "", "MySQL user")
	flag.StringVar(&config.Password, "password", "", "MySQL password")
	askPass := flag.Bool("ask-pass", false, "prompt for MySQL password")
	flag.StringVar(&config.Database, "database", "", "database name (mandatory)")
	flag.StringVar(&config.Charset, "charset", "", "session charset; latin1 results are transcoded to UTF-8")
	flag.StringVar(&config.SocksProxy, "socks-proxy", "", "host:port of a SOCKS5 proxy to connect through")
	flag.StringVar(&config.ConfigFile, "conf", "", "Config file")

	query := flag.String("query", "", "statement to execute; use ? placeholders (mandatory)")

	quiet := flag.Bool("quiet", false, "quiet")
	verbose := flag.Bool("verbose", false, "verbose")
	debug := flag.Bool("debug", false, "debug mode (very verbose)")
	stack := flag.Bool("stack", false, "add stack trace upon error")
	help := flag.Bool("help", false, "Display usage")
	version := flag.Bool("version", false, "Print version & exit")
	flag.Parse()

	if *help {
		fmt.Fprintf(os.Stderr, "Usage of typedsql:\n")
		flag.PrintDefaults()
		return
	}
	if *version {
		appVersion := AppVersion
		if appVersion == "" {
			appVersion = "unversioned"
		}
		fmt.Println(appVersion)
		return
	}

	log.SetLevel(log.ERROR)
	if *verbose {
		log.SetLevel(log.INFO)
	}
	if *debug {
		log.SetLevel(log.DEBUG)
	}
	if *stack {
		log.SetPrintStackTrace(*stack)
	}
	if *quiet {
		// Override!!
		log.SetLevel(log.ERROR)
	}

	if err := config.ReadConfigFile(); err != nil {
		log.Fatale(err)
	}
	if *query == "" {
		log.Fatalf("--query must be provided and statement must not be empty")
	}
	if config.Database == "" {
		log.Fatalf("--database must be provided and database name must not be empty")
	}
	if *askPass {
		fmt.Print("Password:")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			log.Fatale(err)
		}
		fmt.Println()
		config.Password = string(passwordBytes)
	}

	connectionConfig := mysql.NewConnectionConfig()
	connectionConfig.Key = mysql.InstanceKey{Hostname: config.Host, Port: config.Port}
	connectionConfig.User = config.User
	connectionConfig.Password = config.Password
	connectionConfig.Database = config.Database
	connectionConfig.Charset = config.Charset
	connectionConfig.SocksProxy = config.SocksProxy

	conn, err := mysql.Connect(connectionConfig)
	if err != nil {
		log.Fatale(err)
	}
	executor := client.NewExecutor(conn)
	defer executor.Close()

	args := make([]interface{}, 0, flag.NArg())
	for _, arg := range flag.Args() {
		args = append(args, arg)
	}

	if isRowReturning(*query) {
		rows, nullFlags, err := client.QueryAllText(executor, *query, args...)
		if err != nil {
			log.Fatale(err)
		}
		for i, row := range rows {
			cells := make([]string, len(row))
			for j := range row {
				if nullFlags[i][j] {
					cells[j] = "NULL"
				} else {
					cells[j] = row[j]
				}
			}
			fmt.Println(strings.Join(cells, "\t"))
		}
		return
	}

	affectedRows, err := client.Execute(executor, *query, args...)
	if err != nil {
		log.Fatale(err)
	}
	fmt.Printf("%d rows affected\n", affectedRows)
}
