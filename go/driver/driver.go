/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

// Package driver defines the transport capability the binding engine
// consumes: a prepared-statement connection to a MySQL-speaking server.
// Implementations are not required to be safe for concurrent use; the
// client serializes all statement operations on one connection.
package driver

import (
	"github.com/typedsql/typedsql/go/bind"
)

// FetchStatus is the outcome of advancing a bound statement by one row.
// Transport failures are reported as errors, not statuses.
type FetchStatus int

const (
	// FetchRow: the output buffers hold a complete row.
	FetchRow FetchStatus = iota
	// FetchTruncated: the buffers hold a row but at least one
	// variable-length column overflowed its buffer. The overflowing
	// columns' length cells report the needed size.
	FetchTruncated
	// FetchDone: no more rows.
	FetchDone
)

func (this FetchStatus) String() string {
	switch this {
	case FetchRow:
		return "row"
	case FetchTruncated:
		return "truncated"
	case FetchDone:
		return "done"
	}
	return "unknown"
}

// Conn is a live server session capable of preparing statements. Close must
// be idempotent and must not be called while a statement derived from the
// connection is still open.
type Conn interface {
	Prepare(query string) (Stmt, error)
	Close() error
}

// Stmt is one server-side prepared statement.
type Stmt interface {
	// ParamCount is the statement's declared placeholder count.
	ParamCount() int
	// FieldCount is the statement's declared result column count; zero for
	// pure mutation statements.
	FieldCount() int

	// Execute binds the input descriptors and runs the statement, discarding
	// any result rows.
	Execute(inputs []bind.Descriptor) error
	// ExecuteWithOutputs binds inputs and the output buffer set before
	// executing, so fetching can begin immediately.
	ExecuteWithOutputs(inputs []bind.Descriptor, outputs *bind.OutputSet) error

	// Fetch advances to the next row, writing column data into the bound
	// output buffers and their out-cells.
	Fetch() (FetchStatus, error)
	// RefetchColumn re-delivers the current row's column i into its (regrown)
	// buffer after a truncation.
	RefetchColumn(i int) error

	// AffectedRows reports the server's affected-row count for the last
	// execute.
	AffectedRows() uint64

	// Close releases the server-side statement. Idempotent.
	Close() error
}
