/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package client

import (
	"strings"
	"testing"

	"github.com/openark/golib/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.SetLevel(log.ERROR)
}

func TestQueryAllTypedRows(t *testing.T) {
	conn := newFakeConn(fakeScript{
		paramCount: 1,
		fieldCount: 2,
		rows: [][]interface{}{
			{int32(15), "y"},
			{int32(20), "z"},
		},
	})
	executor := NewExecutor(conn)

	var rs ResultSet[T2[int32, string]]
	err := QueryAll(executor, &rs, "SELECT a,b FROM t WHERE a > ?", 10)
	require.NoError(t, err)

	require.Equal(t, []T2[int32, string]{{A: 15, B: "y"}, {A: 20, B: "z"}}, rs.Rows)
	require.Len(t, rs.NullFlags, 2)
	for _, flags := range rs.NullFlags {
		require.Equal(t, []bool{false, false}, flags)
	}
	require.Empty(t, rs.ErrorMessage)
	require.Equal(t, []string{"SELECT a,b FROM t WHERE a > ?"}, conn.prepared)
}

func TestQueryAllNullColumn(t *testing.T) {
	conn := newFakeConn(fakeScript{
		fieldCount: 2,
		rows: [][]interface{}{
			{int64(1), "first"},
			{int64(2), nil},
		},
	})
	executor := NewExecutor(conn)

	var rs ResultSet[T2[int64, string]]
	require.NoError(t, QueryAll(executor, &rs, "SELECT id, note FROM t"))

	require.Equal(t, [][]bool{{false, false}, {false, true}}, rs.NullFlags)
	// The flagged cell decodes to the type default.
	require.Equal(t, "", rs.Rows[1].B)
	require.Equal(t, int64(2), rs.Rows[1].A)
}

func TestQueryAllParamArityMismatchFailsBeforeExecute(t *testing.T) {
	conn := newFakeConn(fakeScript{
		paramCount: 2,
		fieldCount: 2,
		rows:       [][]interface{}{{int32(1), "x"}},
	})
	executor := NewExecutor(conn)

	rs := ResultSet[T2[int32, string]]{AffectedRows: 99}
	err := QueryAll(executor, &rs, "SELECT a,b FROM t WHERE a > ? AND b = ?", 10)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrBindArity))

	// No execution was attempted and the result object is untouched.
	require.Zero(t, conn.executeCalls)
	require.Empty(t, rs.Rows)
	require.Equal(t, uint64(99), rs.AffectedRows)
}

func TestQueryAllOutputArityMismatchFailsBeforeExecute(t *testing.T) {
	conn := newFakeConn(fakeScript{
		fieldCount: 3,
		rows:       [][]interface{}{{int32(1), "x", "extra"}},
	})
	executor := NewExecutor(conn)

	var rs ResultSet[T2[int32, string]]
	err := QueryAll(executor, &rs, "SELECT a,b,c FROM t")
	require.Error(t, err)
	require.True(t, IsKind(err, ErrBindArity))
	require.Contains(t, err.Error(), "returns 3 columns")
	require.Zero(t, conn.executeCalls)
}

func TestQueryAllUnsupportedArgumentType(t *testing.T) {
	conn := newFakeConn(fakeScript{paramCount: 1, fieldCount: 1})
	executor := NewExecutor(conn)

	var rs ResultSet[T1[int32]]
	err := QueryAll(executor, &rs, "SELECT a FROM t WHERE b = ?", struct{}{})
	require.Error(t, err)
	require.True(t, IsKind(err, ErrBindArity))
	require.Zero(t, conn.executeCalls)
	// Rejected before the statement was even prepared.
	require.Empty(t, conn.prepared)
}

func TestQueryAllPrepareError(t *testing.T) {
	conn := newFakeConn(fakeScript{prepareErrText: "You have an error in your SQL syntax"})
	executor := NewExecutor(conn)

	var rs ResultSet[T1[int64]]
	err := QueryAll(executor, &rs, "SELEKT 1")
	require.Error(t, err)
	require.True(t, IsKind(err, ErrPrepare))
	// Server message preserved verbatim.
	require.Contains(t, err.Error(), "You have an error in your SQL syntax")
}

func TestQueryAllExecuteError(t *testing.T) {
	conn := newFakeConn(fakeScript{fieldCount: 1, executeErrText: "Incorrect arguments to mysqld_stmt_execute"})
	executor := NewExecutor(conn)

	var rs ResultSet[T1[int64]]
	err := QueryAll(executor, &rs, "SELECT a FROM t")
	require.Error(t, err)
	require.True(t, IsKind(err, ErrExecute))
	require.Contains(t, rs.ErrorMessage, "Incorrect arguments")
	require.Equal(t, 1, conn.stmtCloses)
}

func TestQueryAllTruncationRegrows(t *testing.T) {
	long := strings.Repeat("a", 300)
	conn := newFakeConn(fakeScript{
		fieldCount: 2,
		rows: [][]interface{}{
			{"short", int32(1)},
			{long, int32(2)},
		},
	})
	executor := NewExecutor(conn)

	var rs ResultSet[T2[string, int32]]
	require.NoError(t, QueryAll(executor, &rs, "SELECT s, n FROM t"))

	// The oversized value came back whole, never silently clipped.
	require.Equal(t, "short", rs.Rows[0].A)
	require.Equal(t, long, rs.Rows[1].A)
	require.Equal(t, int32(2), rs.Rows[1].B)
}

func TestQueryAllFetchErrorRetainsMaterializedRows(t *testing.T) {
	conn := newFakeConn(fakeScript{
		fieldCount: 1,
		rows: [][]interface{}{
			{"kept"},
			{"never delivered"},
		},
		failAtRow:    1,
		fetchErrText: "Lost connection to MySQL server during query",
	})
	executor := NewExecutor(conn)

	var rs ResultSet[T1[string]]
	err := QueryAll(executor, &rs, "SELECT s FROM t")
	require.Error(t, err)
	require.True(t, IsKind(err, ErrFetch))
	require.Contains(t, rs.ErrorMessage, "Lost connection")

	require.Equal(t, []T1[string]{{A: "kept"}}, rs.Rows)
	require.Len(t, rs.NullFlags, 1)
	require.Equal(t, 1, conn.stmtCloses)
}

func TestExecuteAffectedRows(t *testing.T) {
	conn := newFakeConn(fakeScript{paramCount: 2, affectedRows: 1})
	executor := NewExecutor(conn)

	affectedRows, err := Execute(executor, "INSERT INTO t VALUES (?, ?)", 42, "hello")
	require.NoError(t, err)
	require.Equal(t, uint64(1), affectedRows)
	require.Equal(t, 1, conn.executeCalls)
	require.Equal(t, 1, conn.stmtCloses)
}

func TestExecuteParamArityMismatch(t *testing.T) {
	conn := newFakeConn(fakeScript{paramCount: 2})
	executor := NewExecutor(conn)

	affectedRows, err := Execute(executor, "INSERT INTO t VALUES (?, ?)", 42)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrBindArity))
	require.Zero(t, affectedRows)
	require.Zero(t, conn.executeCalls)
}

func TestExecuteResult(t *testing.T) {
	conn := newFakeConn(fakeScript{paramCount: 1, affectedRows: 3})
	executor := NewExecutor(conn)

	var rs ResultSet[NoResult]
	require.NoError(t, ExecuteResult(executor, &rs, "DELETE FROM t WHERE a > ?", 10))
	require.Equal(t, uint64(3), rs.AffectedRows)
	require.Empty(t, rs.ErrorMessage)
}

func TestQueryAllText(t *testing.T) {
	conn := newFakeConn(fakeScript{
		fieldCount: 3,
		rows: [][]interface{}{
			{"alpha", "1", nil},
			{"beta", "2", "note"},
		},
	})
	executor := NewExecutor(conn)

	rows, nullFlags, err := QueryAllText(executor, "SELECT * FROM t")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"alpha", "1", ""}, {"beta", "2", "note"}}, rows)
	require.Equal(t, [][]bool{{false, false, true}, {false, false, false}}, nullFlags)
}

func TestCloseIdempotent(t *testing.T) {
	conn := newFakeConn(fakeScript{})
	executor := NewExecutor(conn)

	require.NoError(t, executor.Close())
	require.NoError(t, executor.Close())
	require.Equal(t, 1, conn.closeCalls)

	var rs ResultSet[T1[int32]]
	err := QueryAll(executor, &rs, "SELECT a FROM t")
	require.Error(t, err)
	require.True(t, IsKind(err, ErrConnection))
}

func TestStatementCloseIdempotent(t *testing.T) {
	conn := newFakeConn(fakeScript{})
	stmt, err := prepare(conn, "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, stmt.Close())
	require.NoError(t, stmt.Close())
	require.Equal(t, 1, conn.stmtCloses)
}

// Concurrent goroutines on one executor must fully serialize: the transport
// never sees a second statement opened while one is in flight.
func TestConcurrentCallsSerialize(t *testing.T) {
	conn := newFakeConn(fakeScript{
		fieldCount: 2,
		rows: [][]interface{}{
			{int32(15), "y"},
			{int32(20), "z"},
		},
	})
	executor := NewExecutor(conn)

	var eg errgroup.Group
	for worker := 0; worker < 8; worker++ {
		eg.Go(func() error {
			for i := 0; i < 50; i++ {
				var rs ResultSet[T2[int32, string]]
				if err := QueryAll(executor, &rs, "SELECT a,b FROM t"); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.False(t, conn.overlapped)
	require.Equal(t, 8*50, conn.executeCalls)
}
