/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package bind

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Value is the closed set of scalar types the codec binds. Requesting any
// other type in a tuple is a compile-time error, not a runtime one.
type Value interface {
	bool |
		int8 | int16 | int32 | int64 | int |
		uint8 | uint16 | uint32 | uint64 | uint |
		float32 | float64 |
		string | []byte |
		time.Time
}

// Encode snapshots a value into an input descriptor carrying the exact
// protocol type tag and byte width the transport expects. The encoded bytes
// are owned by the descriptor and stay alive for the whole execute call.
func Encode[T Value](value T) Descriptor {
	switch v := any(value).(type) {
	case bool:
		b := byte(0)
		if v {
			b = 1
		}
		return newInputDescriptor(TypeTiny, false, []byte{b})
	case int8:
		return newInputDescriptor(TypeTiny, false, []byte{byte(v)})
	case uint8:
		return newInputDescriptor(TypeTiny, true, []byte{v})
	case int16:
		return newInputDescriptor(TypeShort, false, encodeUint(uint64(v), 2))
	case uint16:
		return newInputDescriptor(TypeShort, true, encodeUint(uint64(v), 2))
	case int32:
		return newInputDescriptor(TypeLong, false, encodeUint(uint64(v), 4))
	case uint32:
		return newInputDescriptor(TypeLong, true, encodeUint(uint64(v), 4))
	case int64:
		return newInputDescriptor(TypeLongLong, false, encodeUint(uint64(v), 8))
	case uint64:
		return newInputDescriptor(TypeLongLong, true, encodeUint(v, 8))
	case int:
		return newInputDescriptor(TypeLongLong, false, encodeUint(uint64(v), 8))
	case uint:
		return newInputDescriptor(TypeLongLong, true, encodeUint(uint64(v), 8))
	case float32:
		return newInputDescriptor(TypeFloat, false, encodeUint(uint64(math.Float32bits(v)), 4))
	case float64:
		return newInputDescriptor(TypeDouble, false, encodeUint(math.Float64bits(v), 8))
	case string:
		return newInputDescriptor(TypeVarString, false, []byte(v))
	case []byte:
		encoded := make([]byte, len(v))
		copy(encoded, v)
		return newInputDescriptor(TypeBlob, false, encoded)
	case time.Time:
		return newInputDescriptor(TypeDatetime, false, encodeTime(v))
	}
	// Unreachable: the Value constraint is exhaustive.
	panic(fmt.Sprintf("bind: no codec for %T", value))
}

// EncodeArg is the runtime bridge for variadic parameter lists. A nil
// argument binds as SQL NULL; a dynamic type outside the codec set is
// rejected before any transport round trip.
func EncodeArg(arg interface{}) (Descriptor, error) {
	switch v := arg.(type) {
	case nil:
		return newInputDescriptor(TypeNull, false, nil), nil
	case bool:
		return Encode(v), nil
	case int8:
		return Encode(v), nil
	case int16:
		return Encode(v), nil
	case int32:
		return Encode(v), nil
	case int64:
		return Encode(v), nil
	case int:
		return Encode(v), nil
	case uint8:
		return Encode(v), nil
	case uint16:
		return Encode(v), nil
	case uint32:
		return Encode(v), nil
	case uint64:
		return Encode(v), nil
	case uint:
		return Encode(v), nil
	case float32:
		return Encode(v), nil
	case float64:
		return Encode(v), nil
	case string:
		return Encode(v), nil
	case []byte:
		return Encode(v), nil
	case time.Time:
		return Encode(v), nil
	}
	return Descriptor{}, fmt.Errorf("unsupported parameter type %T", arg)
}

// Decode converts the descriptor's current raw bytes into a typed value.
// A value flagged NULL decodes to the type's zero value; callers are expected
// to consult the null flag before using it.
func Decode[T Value](d *Descriptor) T {
	var out T
	if d.IsNull() {
		return out
	}
	raw := d.ValueBytes()
	switch p := any(&out).(type) {
	case *bool:
		*p = len(raw) > 0 && raw[0] != 0
	case *int8:
		*p = int8(decodeUint(raw, 1))
	case *uint8:
		*p = uint8(decodeUint(raw, 1))
	case *int16:
		*p = int16(decodeUint(raw, 2))
	case *uint16:
		*p = uint16(decodeUint(raw, 2))
	case *int32:
		*p = int32(decodeUint(raw, 4))
	case *uint32:
		*p = uint32(decodeUint(raw, 4))
	case *int64:
		*p = int64(decodeUint(raw, 8))
	case *uint64:
		*p = decodeUint(raw, 8)
	case *int:
		*p = int(decodeUint(raw, 8))
	case *uint:
		*p = uint(decodeUint(raw, 8))
	case *float32:
		*p = math.Float32frombits(uint32(decodeUint(raw, 4)))
	case *float64:
		*p = math.Float64frombits(decodeUint(raw, 8))
	case *string:
		*p = string(raw)
	case *[]byte:
		value := make([]byte, len(raw))
		copy(value, raw)
		*p = value
	case *time.Time:
		*p = decodeTime(raw)
	}
	return out
}

// fieldTypeOf reports the protocol tag, signedness and allocation width used
// for output columns of type T.
func fieldTypeOf[T Value]() (fieldType FieldType, unsigned bool) {
	var zero T
	switch any(zero).(type) {
	case bool, int8:
		return TypeTiny, false
	case uint8:
		return TypeTiny, true
	case int16:
		return TypeShort, false
	case uint16:
		return TypeShort, true
	case int32:
		return TypeLong, false
	case uint32:
		return TypeLong, true
	case int64, int:
		return TypeLongLong, false
	case uint64, uint:
		return TypeLongLong, true
	case float32:
		return TypeFloat, false
	case float64:
		return TypeDouble, false
	case string:
		return TypeVarString, false
	case []byte:
		return TypeBlob, false
	case time.Time:
		return TypeDatetime, false
	}
	panic(fmt.Sprintf("bind: no codec for %T", zero))
}

func encodeUint(v uint64, width int) []byte {
	buf := make([]byte, width)
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, v)
	}
	return buf
}

func decodeUint(raw []byte, width int) uint64 {
	if len(raw) < width {
		return 0
	}
	switch width {
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(raw))
	case 4:
		return uint64(binary.LittleEndian.Uint32(raw))
	}
	return binary.LittleEndian.Uint64(raw)
}

func encodeTime(t time.Time) []byte {
	buf := make([]byte, datetimeWidth)
	binary.LittleEndian.PutUint64(buf, uint64(t.Unix()))
	binary.LittleEndian.PutUint32(buf[8:], uint32(t.Nanosecond()))
	return buf
}

func decodeTime(raw []byte) time.Time {
	if len(raw) < datetimeWidth {
		return time.Time{}
	}
	sec := int64(binary.LittleEndian.Uint64(raw))
	nsec := int64(binary.LittleEndian.Uint32(raw[8:]))
	return time.Unix(sec, nsec).UTC()
}
