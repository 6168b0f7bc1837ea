/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package bind

import "fmt"

// FieldType is the protocol-level type tag carried by a bind descriptor.
// Values mirror the MySQL binary protocol column type identifiers.
type FieldType byte

const (
	TypeTiny      FieldType = 0x01
	TypeShort     FieldType = 0x02
	TypeLong      FieldType = 0x03
	TypeFloat     FieldType = 0x04
	TypeDouble    FieldType = 0x05
	TypeNull      FieldType = 0x06
	TypeLongLong  FieldType = 0x08
	TypeDatetime  FieldType = 0x0c
	TypeBlob      FieldType = 0xfc
	TypeVarString FieldType = 0xfd
)

// datetimeWidth is the canonical encoding of a timestamp: 8 bytes of unix
// seconds followed by 4 bytes of nanoseconds, both little-endian.
const datetimeWidth = 12

// defaultVarLength is the initial capacity allocated for variable-length
// output columns. Larger values are handled by the truncation regrow path.
const defaultVarLength = 64

// Width returns the fixed byte width of the type, or 0 for
// variable-length types.
func (this FieldType) Width() int {
	switch this {
	case TypeTiny:
		return 1
	case TypeShort:
		return 2
	case TypeLong, TypeFloat:
		return 4
	case TypeLongLong, TypeDouble:
		return 8
	case TypeDatetime:
		return datetimeWidth
	}
	return 0
}

// IsVariableLength tells whether the type carries variable-length data and
// therefore needs a growable output buffer plus a length out-cell.
func (this FieldType) IsVariableLength() bool {
	return this == TypeVarString || this == TypeBlob
}

func (this FieldType) String() string {
	switch this {
	case TypeTiny:
		return "tiny"
	case TypeShort:
		return "short"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeNull:
		return "null"
	case TypeLongLong:
		return "longlong"
	case TypeDatetime:
		return "datetime"
	case TypeBlob:
		return "blob"
	case TypeVarString:
		return "varstring"
	}
	return fmt.Sprintf("fieldtype(%d)", byte(this))
}
