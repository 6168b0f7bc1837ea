/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package client

import (
	"github.com/typedsql/typedsql/go/driver"
)

// statement owns one server-side prepared statement for the duration of a
// single QueryAll/Execute call: prepared on entry, closed deterministically
// on every exit path.
type statement struct {
	stmt   driver.Stmt
	query  string
	closed bool
}

func prepare(conn driver.Conn, query string) (*statement, error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return nil, WrapError(ErrPrepare, err)
	}
	return &statement{stmt: stmt, query: query}, nil
}

// checkParamArity validates the caller's argument count against the
// statement's declared placeholder count, before any execution is attempted.
func (this *statement) checkParamArity(argCount int) error {
	if declared := this.stmt.ParamCount(); argCount != declared {
		return Errorf(ErrBindArity, "statement declares %d parameters, %d arguments bound: %s", declared, argCount, this.query)
	}
	return nil
}

// checkFieldArity validates the output tuple arity against the statement's
// live field count, before any fetch is attempted.
func (this *statement) checkFieldArity(arity int) error {
	if declared := this.stmt.FieldCount(); arity != declared {
		return Errorf(ErrBindArity, "statement returns %d columns, output tuple has %d: %s", declared, arity, this.query)
	}
	return nil
}

// Close releases the server-side statement. Idempotent; safe to defer
// alongside explicit closes on error paths.
func (this *statement) Close() error {
	if this.closed {
		return nil
	}
	this.closed = true
	return this.stmt.Close()
}
