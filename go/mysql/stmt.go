/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package mysql

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	gomysqlclient "github.com/go-mysql-org/go-mysql/client"
	gomysql "github.com/go-mysql-org/go-mysql/mysql"

	"github.com/typedsql/typedsql/go/bind"
	"github.com/typedsql/typedsql/go/driver"
)

const datetimeLayout = "2006-01-02 15:04:05.999999"

// stmt adapts one go-mysql prepared statement to the driver.Stmt capability.
// The protocol client buffers the full result set on execute; fetching
// replays it row by row into the bound output descriptors, which is where
// truncation against the caller's buffers is detected.
type stmt struct {
	conn  *Conn
	raw   *gomysqlclient.Stmt
	query string

	outputs  *bind.OutputSet
	result   *gomysql.Result
	next     int
	current  int
	affected uint64
	closed   bool
}

func (this *stmt) ParamCount() int {
	return this.raw.ParamNum()
}

func (this *stmt) FieldCount() int {
	return this.raw.ColumnNum()
}

func (this *stmt) Execute(inputs []bind.Descriptor) error {
	args, err := nativeArgs(inputs)
	if err != nil {
		return err
	}
	result, err := this.raw.Execute(args...)
	if err != nil {
		return err
	}
	this.affected = result.AffectedRows
	result.Close()
	return nil
}

func (this *stmt) ExecuteWithOutputs(inputs []bind.Descriptor, outputs *bind.OutputSet) error {
	args, err := nativeArgs(inputs)
	if err != nil {
		return err
	}
	result, err := this.raw.Execute(args...)
	if err != nil {
		return err
	}
	this.result = result
	this.outputs = outputs
	this.affected = result.AffectedRows
	this.next = 0
	this.current = -1
	return nil
}

func (this *stmt) Fetch() (driver.FetchStatus, error) {
	if this.result == nil || this.result.Resultset == nil {
		return driver.FetchDone, nil
	}
	if this.next >= len(this.result.Values) {
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

func (this *stmt) RefetchColumn(i int) error {
	if this.current < 0 {
		return fmt.Errorf("no row fetched; nothing to refetch")
	}
	return this.writeColumn(i)
}

func (this *stmt) AffectedRows() uint64 {
	return this.affected
}

func (this *stmt) Close() error {
	if this.closed {
		return nil
	}
	this.closed = true
	if this.result != nil {
		this.result.Close()
		this.result = nil
	}
	return this.raw.Close()
}

func (this *stmt) writeColumn(i int) error {
	value := &this.result.Values[this.current][i]
	field := this.result.Fields[i]
	if err := writeColumnValue(value, field, this.outputs.Column(i)); err != nil {
		return fmt.Errorf("column %d of %q: %s", i, this.query, err)
	}
	return nil
}

// writeColumnValue converts one protocol value into the canonical byte layout
// of the bound descriptor, reporting actual length, NULL and truncation
// through the descriptor's out-cells. On truncation the length cell carries
// the size the regrow path must allocate.
func writeColumnValue(value *gomysql.FieldValue, field *gomysql.Field, d *bind.Descriptor) error {
	*d.Null = false
	*d.Truncated = false

	if value.Type == gomysql.FieldValueTypeNull {
		*d.Null = true
		*d.Length = 0
		return nil
	}

	switch d.Type {
	case bind.TypeTiny, bind.TypeShort, bind.TypeLong, bind.TypeLongLong:
		pattern, err := integerValue(value)
		if err != nil {
			return err
		}
		width := d.Type.Width()
		putUint(d.Buffer, pattern, width)
		*d.Length = uint32(width)

	case bind.TypeFloat:
		f, err := floatValue(value)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(d.Buffer, math.Float32bits(float32(f)))
		*d.Length = 4

	case bind.TypeDouble:
		f, err := floatValue(value)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(d.Buffer, math.Float64bits(f))
		*d.Length = 8

	case bind.TypeVarString, bind.TypeBlob:
		raw, err := bytesValue(value)
		if err != nil {
			return err
		}
		if d.Type == bind.TypeVarString && isLatin1Collation(field.Charset) {
			raw = transcodeLatin1(raw)
		}
		*d.Length = uint32(len(raw))
		copy(d.Buffer, raw)
		if len(raw) > len(d.Buffer) {
			*d.Truncated = true
		}

	case bind.TypeDatetime:
		raw, err := bytesValue(value)
		if err != nil {
			return err
		}
		t, err := parseDatetime(string(raw))
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(d.Buffer, uint64(t.Unix()))
		binary.LittleEndian.PutUint32(d.Buffer[8:], uint32(t.Nanosecond()))
		*d.Length = uint32(d.Type.Width())

	default:
		return fmt.Errorf("unsupported output type %s", d.Type)
	}
	return nil
}

// integerValue extracts the two's-complement bit pattern of an integer
// column value; sign extension happens here so narrower widths keep the sign.
func integerValue(value *gomysql.FieldValue) (uint64, error) {
	switch value.Type {
	case gomysql.FieldValueTypeSigned:
		return uint64(value.AsInt64()), nil
	case gomysql.FieldValueTypeUnsigned:
		return value.AsUint64(), nil
	case gomysql.FieldValueTypeString:
		parsed, err := strconv.ParseInt(string(value.AsString()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer column data, got %q", value.AsString())
		}
		return uint64(parsed), nil
	}
	return 0, fmt.Errorf("expected integer column data, got %s", columnTypeName(value))
}

func floatValue(value *gomysql.FieldValue) (float64, error) {
	switch value.Type {
	case gomysql.FieldValueTypeFloat:
		return value.AsFloat64(), nil
	case gomysql.FieldValueTypeSigned:
		return float64(value.AsInt64()), nil
	case gomysql.FieldValueTypeUnsigned:
		return float64(value.AsUint64()), nil
	case gomysql.FieldValueTypeString:
		parsed, err := strconv.ParseFloat(string(value.AsString()), 64)
		if err != nil {
			return 0, fmt.Errorf("expected float column data, got %q", value.AsString())
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("expected float column data, got %s", columnTypeName(value))
}

// bytesValue renders any column value as bytes; non-string values are
// formatted in their text representation, which is what the text decode path
// expects.
func bytesValue(value *gomysql.FieldValue) ([]byte, error) {
	switch value.Type {
	case gomysql.FieldValueTypeString:
		return value.AsString(), nil
	case gomysql.FieldValueTypeSigned:
		return strconv.AppendInt(nil, value.AsInt64(), 10), nil
	case gomysql.FieldValueTypeUnsigned:
		return strconv.AppendUint(nil, value.AsUint64(), 10), nil
	case gomysql.FieldValueTypeFloat:
		return strconv.AppendFloat(nil, value.AsFloat64(), 'g', -1, 64), nil
	}
	return nil, fmt.Errorf("unexpected column data type %s", columnTypeName(value))
}

func columnTypeName(value *gomysql.FieldValue) string {
	switch value.Type {
	case gomysql.FieldValueTypeNull:
		return "null"
	case gomysql.FieldValueTypeSigned:
		return "signed"
	case gomysql.FieldValueTypeUnsigned:
		return "unsigned"
	case gomysql.FieldValueTypeFloat:
		return "float"
	case gomysql.FieldValueTypeString:
		return "string"
	}
	return "unknown"
}

func parseDatetime(raw string) (time.Time, error) {
	for _, layout := range []string{datetimeLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as datetime", raw)
}

func putUint(buf []byte, v uint64, width int) {
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, v)
	}
}

// nativeArgs decodes input descriptors back into the native values the
// protocol client serializes, preserving declared type and signedness.
func nativeArgs(inputs []bind.Descriptor) ([]interface{}, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(inputs))
	for i := range inputs {
		arg, err := nativeArg(&inputs[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %s", i, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

func nativeArg(d *bind.Descriptor) (interface{}, error) {
	if d.Type == bind.TypeNull || d.IsNull() {
		return nil, nil
	}
	switch d.Type {
	case bind.TypeTiny:
		if d.Unsigned {
			return bind.Decode[uint8](d), nil
		}
		return bind.Decode[int8](d), nil
	case bind.TypeShort:
		if d.Unsigned {
			return bind.Decode[uint16](d), nil
		}
		return bind.Decode[int16](d), nil
	case bind.TypeLong:
		if d.Unsigned {
			return bind.Decode[uint32](d), nil
		}
		return bind.Decode[int32](d), nil
	case bind.TypeLongLong:
		if d.Unsigned {
			return bind.Decode[uint64](d), nil
		}
		return bind.Decode[int64](d), nil
	case bind.TypeFloat:
		return bind.Decode[float32](d), nil
	case bind.TypeDouble:
		return bind.Decode[float64](d), nil
	case bind.TypeVarString:
		return bind.Decode[string](d), nil
	case bind.TypeBlob:
		return bind.Decode[[]byte](d), nil
	case bind.TypeDatetime:
		return bind.Decode[time.Time](d).Format(datetimeLayout), nil
	}
	return nil, fmt.Errorf("unsupported input type %s", d.Type)
}
