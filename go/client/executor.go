/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

// Package client implements the typed binding engine: input binding, output
// buffer allocation, the fetch loop materializing protocol buffers into typed
// tuples, and prepared-statement lifecycle, over any driver.Conn transport.
package client

import (
	"sync"

	"github.com/typedsql/typedsql/go/base"
	"github.com/typedsql/typedsql/go/bind"
	"github.com/typedsql/typedsql/go/driver"
)

// Executor owns one server connection and serializes statement execution on
// it. The wrapped protocol multiplexes all statement traffic over a single
// session and is not reentrant, so the executor's lock is held for the entire
// prepare-through-fetch sequence of each call. Safe for concurrent use; calls
// from multiple goroutines fully serialize.
type Executor struct {
	conn      driver.Conn
	execMutex sync.Mutex
	closed    bool

	Log base.Logger
}

// NewExecutor wraps a live transport connection.
func NewExecutor(conn driver.Conn) *Executor {
	return &Executor{
		conn: conn,
		Log:  base.NewDefaultLogger(),
	}
}

// Close tears down the transport connection. Idempotent. No statement derived
// from this executor is open outside a QueryAll/Execute call, so closing
// between calls is always safe.
func (this *Executor) Close() error {
	this.execMutex.Lock()
	defer this.execMutex.Unlock()

	if this.closed {
		return nil
	}
	this.closed = true
	return this.conn.Close()
}

func (this *Executor) checkOpen() error {
	if this.closed {
		return Errorf(ErrConnection, "executor is closed")
	}
	return nil
}

// QueryAll prepares and executes the query with the given arguments and
// fetches every result row into rs as a typed tuple, with per-column null
// flags. The tuple type's arity and element types must match the statement's
// result columns positionally. ResultSet[NoResult] is rejected at compile
// time: *NoResult does not implement Row.
func QueryAll[T any, PT rowPtr[T]](e *Executor, rs *ResultSet[T], query string, args ...interface{}) error {
	e.execMutex.Lock()
	defer e.execMutex.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}

	var probe T
	arity := PT(&probe).arity()

	inputs, err := bindInputs(args)
	if err != nil {
		return err
	}

	stmt, err := prepare(e.conn, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err = stmt.checkParamArity(len(args)); err != nil {
		return err
	}
	if err = stmt.checkFieldArity(arity); err != nil {
		return err
	}

	rs.reset()

	outputs := bind.NewOutputSet(arity)
	PT(&probe).appendOutputs(outputs)

	if err = stmt.stmt.ExecuteWithOutputs(inputs, outputs); err != nil {
		rs.ErrorMessage = err.Error()
		return WrapError(ErrExecute, err)
	}

	e.Log.Debugf("executed %q; fetching up to %d columns per row", query, arity)

	err = fetchAll(stmt, outputs, func() {
		var row T
		PT(&row).scan(outputs)
		rs.Rows = append(rs.Rows, row)
		rs.NullFlags = append(rs.NullFlags, outputs.NullFlags())
	})
	if err != nil {
		// Rows materialized before the failure are retained.
		rs.ErrorMessage = err.Error()
		return err
	}
	return nil
}

// QueryAllText executes the query and fetches every result row with all
// columns decoded as text, the output arity taken from the statement's live
// field count. This is the path for callers whose column types are not
// compile-time known, such as the CLI.
func QueryAllText(e *Executor, query string, args ...interface{}) (rows [][]string, nullFlags [][]bool, err error) {
	e.execMutex.Lock()
	defer e.execMutex.Unlock()

	if err = e.checkOpen(); err != nil {
		return nil, nil, err
	}

	inputs, err := bindInputs(args)
	if err != nil {
		return nil, nil, err
	}

	stmt, err := prepare(e.conn, query)
	if err != nil {
		return nil, nil, err
	}
	defer stmt.Close()

	if err = stmt.checkParamArity(len(args)); err != nil {
		return nil, nil, err
	}

	fieldCount := stmt.stmt.FieldCount()
	outputs := bind.NewOutputSet(fieldCount)
	for i := 0; i < fieldCount; i++ {
		bind.AppendColumn[string](outputs)
	}

	if err = stmt.stmt.ExecuteWithOutputs(inputs, outputs); err != nil {
		return nil, nil, WrapError(ErrExecute, err)
	}

	err = fetchAll(stmt, outputs, func() {
		row := make([]string, fieldCount)
		for i := 0; i < fieldCount; i++ {
			row[i] = bind.Decode[string](outputs.Column(i))
		}
		rows = append(rows, row)
		nullFlags = append(nullFlags, outputs.NullFlags())
	})
	return rows, nullFlags, err
}

// Execute prepares and runs a non-row-returning statement, reporting the
// server's affected-row count.
func Execute(e *Executor, query string, args ...interface{}) (affectedRows uint64, err error) {
	e.execMutex.Lock()
	defer e.execMutex.Unlock()

	if err = e.checkOpen(); err != nil {
		return 0, err
	}

	inputs, err := bindInputs(args)
	if err != nil {
		return 0, err
	}

	stmt, err := prepare(e.conn, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	if err = stmt.checkParamArity(len(args)); err != nil {
		return 0, err
	}

	if err = stmt.stmt.Execute(inputs); err != nil {
		return 0, WrapError(ErrExecute, err)
	}

	affectedRows = stmt.stmt.AffectedRows()
	e.Log.Debugf("executed %q; %d rows affected", query, affectedRows)
	return affectedRows, nil
}

// ExecuteResult is the convenience form of Execute storing the affected-row
// count into the result object.
func ExecuteResult(e *Executor, rs *ResultSet[NoResult], query string, args ...interface{}) error {
	affectedRows, err := Execute(e, query, args...)
	if err != nil {
		rs.ErrorMessage = err.Error()
		return err
	}
	rs.reset()
	rs.AffectedRows = affectedRows
	return nil
}

// fetchAll drives the fetch loop: materialize on each complete row, regrow
// and re-fetch overflowed columns on truncation, stop on end-of-data, and
// surface transport errors verbatim. Buffers are reused across rows, so
// materialize must fully copy out of them before the next iteration.
func fetchAll(stmt *statement, outputs *bind.OutputSet, materialize func()) error {
	for {
		status, err := stmt.stmt.Fetch()
		if err != nil {
			return WrapError(ErrFetch, err)
		}
		switch status {
		case driver.FetchDone:
			return nil
		case driver.FetchTruncated:
			// Never drop data: grow each overflowed buffer to the reported
			// length and re-fetch that column before materializing the row.
			for _, i := range outputs.TruncatedColumns() {
				column := outputs.Column(i)
				outputs.Grow(i, *column.Length)
				if err = stmt.stmt.RefetchColumn(i); err != nil {
					return WrapError(ErrFetch, err)
				}
			}
		}
		materialize()
	}
}
