/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package client

import (
	"github.com/typedsql/typedsql/go/bind"
)

// NoResult marks a result object for statements that return no rows
// (INSERT, UPDATE, DELETE, DDL). ResultSet[NoResult] only works with the
// Execute path; handing it to QueryAll does not compile, because *NoResult
// does not satisfy the Row constraint.
type NoResult struct{}

// ResultSet collects the outcome of one statement execution. Rows and
// NullFlags are parallel: NullFlags[i][j] is true when row i's column j was
// SQL NULL, in which case the tuple cell holds the type's zero value.
// A ResultSet is an independent value with no back-reference to the statement
// that produced it.
type ResultSet[T any] struct {
	Rows         []T
	NullFlags    [][]bool
	AffectedRows uint64
	ErrorMessage string
}

func (this *ResultSet[T]) reset() {
	this.Rows = nil
	this.NullFlags = nil
	this.AffectedRows = 0
	this.ErrorMessage = ""
}

// Row is implemented by the fixed-arity tuple types below. The codec set is
// closed: tuple element types are constrained to bind.Value, so an
// unsupported column type fails at compile time.
type Row interface {
	arity() int
	appendOutputs(*bind.OutputSet)
	scan(*bind.OutputSet)
}

// rowPtr constrains QueryAll's row type: a pointer to the tuple must
// implement Row.
type rowPtr[T any] interface {
	*T
	Row
}

// T1 is a single-column result row.
type T1[A bind.Value] struct {
	A A
}

func (this *T1[A]) arity() int { return 1 }

func (this *T1[A]) appendOutputs(out *bind.OutputSet) {
	bind.AppendColumn[A](out)
}

func (this *T1[A]) scan(out *bind.OutputSet) {
	this.A = bind.Decode[A](out.Column(0))
}

// T2 is a two-column result row. Field order matches the query's column
// order; matching is purely positional.
type T2[A, B bind.Value] struct {
	A A
	B B
}

func (this *T2[A, B]) arity() int { return 2 }

func (this *T2[A, B]) appendOutputs(out *bind.OutputSet) {
	bind.AppendColumn[A](out)
	bind.AppendColumn[B](out)
}

func (this *T2[A, B]) scan(out *bind.OutputSet) {
	this.A = bind.Decode[A](out.Column(0))
	this.B = bind.Decode[B](out.Column(1))
}

// T3 is a three-column result row.
type T3[A, B, C bind.Value] struct {
	A A
	B B
	C C
}

func (this *T3[A, B, C]) arity() int { return 3 }

func (this *T3[A, B, C]) appendOutputs(out *bind.OutputSet) {
	bind.AppendColumn[A](out)
	bind.AppendColumn[B](out)
	bind.AppendColumn[C](out)
}

func (this *T3[A, B, C]) scan(out *bind.OutputSet) {
	this.A = bind.Decode[A](out.Column(0))
	this.B = bind.Decode[B](out.Column(1))
	this.C = bind.Decode[C](out.Column(2))
}

// T4 is a four-column result row.
type T4[A, B, C, D bind.Value] struct {
	A A
	B B
	C C
	D D
}

func (this *T4[A, B, C, D]) arity() int { return 4 }

func (this *T4[A, B, C, D]) appendOutputs(out *bind.OutputSet) {
	bind.AppendColumn[A](out)
	bind.AppendColumn[B](out)
	bind.AppendColumn[C](out)
	bind.AppendColumn[D](out)
}

func (this *T4[A, B, C, D]) scan(out *bind.OutputSet) {
	this.A = bind.Decode[A](out.Column(0))
	this.B = bind.Decode[B](out.Column(1))
	this.C = bind.Decode[C](out.Column(2))
	this.D = bind.Decode[D](out.Column(3))
}
