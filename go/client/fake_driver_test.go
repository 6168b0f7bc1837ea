/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package client

import (
	"errors"
	"fmt"

	"github.com/typedsql/typedsql/go/bind"
	"github.com/typedsql/typedsql/go/driver"
)

// fakeScript describes what the fake transport serves for any prepared
// statement: declared arities, result rows (nil cell = SQL NULL) and
// injected failures.
type fakeScript struct {
	paramCount   int
	fieldCount   int
	rows         [][]interface{}
	affectedRows uint64

	prepareErrText string
	executeErrText string
	// failAtRow injects a fetch failure once this many rows were delivered,
	// when fetchErrText is set.
	failAtRow    int
	fetchErrText string
}

func newFakeConn(script fakeScript) *fakeConn {
	return &fakeConn{script: script}
}

// fakeConn is an in-memory driver.Conn. It also records transport activity
// so tests can assert "no server contact" and full serialization.
type fakeConn struct {
	script fakeScript

	prepared     []string
	executeCalls int
	closeCalls   int
	stmtCloses   int

	// statementOpen flips while a statement is live; a second Prepare during
	// that window means two executions interleaved on the connection.
	statementOpen bool
	overlapped    bool
}

func (this *fakeConn) Prepare(query string) (driver.Stmt, error) {
	if this.statementOpen {
		this.overlapped = true
	}
	if this.script.prepareErrText != "" {
		return nil, errors.New(this.script.prepareErrText)
	}
	this.statementOpen = true
	this.prepared = append(this.prepared, query)
	return &fakeStmt{conn: this, current: -1}, nil
}

func (this *fakeConn) Close() error {
	this.closeCalls++
	return nil
}

type fakeStmt struct {
	conn    *fakeConn
	outputs *bind.OutputSet
	next    int
	current int
	closed  bool
}

func (this *fakeStmt) ParamCount() int {
	return this.conn.script.paramCount
}

func (this *fakeStmt) FieldCount() int {
	return this.conn.script.fieldCount
}

func (this *fakeStmt) Execute(inputs []bind.Descriptor) error {
	this.conn.executeCalls++
	if this.conn.script.executeErrText != "" {
		return errors.New(this.conn.script.executeErrText)
	}
	return nil
}

func (this *fakeStmt) ExecuteWithOutputs(inputs []bind.Descriptor, outputs *bind.OutputSet) error {
	this.conn.executeCalls++
	if this.conn.script.executeErrText != "" {
		return errors.New(this.conn.script.executeErrText)
	}
	this.outputs = outputs
	this.next = 0
	this.current = -1
	return nil
}

func (this *fakeStmt) Fetch() (driver.FetchStatus, error) {
	script := &this.conn.script
	if script.fetchErrText != "" && this.next == script.failAtRow {
		return driver.FetchDone, errors.New(script.fetchErrText)
	}
	if this.next >= len(script.rows) {
		return driver.FetchDone, nil
	}

	this.current = this.next
	this.next++

	truncated := false
	for i := 0; i < this.outputs.Arity(); i++ {
		if err := this.writeColumn(i); err != nil {
			return driver.FetchDone, err
		}
		if this.outputs.Column(i).IsTruncated() {
			truncated = true
		}
	}
	if truncated {
		return driver.FetchTruncated, nil
	}
	return driver.FetchRow, nil
}

func (this *fakeStmt) RefetchColumn(i int) error {
	if this.current < 0 {
		return errors.New("no row fetched")
	}
	return this.writeColumn(i)
}

func (this *fakeStmt) AffectedRows() uint64 {
	return this.conn.script.affectedRows
}

func (this *fakeStmt) Close() error {
	if this.closed {
		return nil
	}
	this.closed = true
	this.conn.statementOpen = false
	this.conn.stmtCloses++
	return nil
}

// writeColumn delivers the current row's column i into its bound buffer with
// the same length/null/truncation semantics as the real transport.
func (this *fakeStmt) writeColumn(i int) error {
	cell := this.conn.script.rows[this.current][i]
	d := this.outputs.Column(i)

	*d.Null = false
	*d.Truncated = false
	if cell == nil {
		*d.Null = true
		*d.Length = 0
		return nil
	}

	encoded, err := bind.EncodeArg(cell)
	if err != nil {
		return fmt.Errorf("column %d: %s", i, err)
	}
	raw := encoded.Buffer
	*d.Length = uint32(len(raw))
	copy(d.Buffer, raw)
	if len(raw) > len(d.Buffer) {
		*d.Truncated = true
	}
	return nil
}
