/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package mysql

import (
	"golang.org/x/text/encoding/charmap"
)

// latin1 collation ids as they appear in column definitions:
// latin1_german1_ci, latin1_swedish_ci, latin1_general_ci.
var latin1CollationIds = map[uint16]bool{
	5:  true,
	8:  true,
	48: true,
}

func isLatin1Collation(collationId uint16) bool {
	return latin1CollationIds[collationId]
}

// transcodeLatin1 converts latin1 column bytes to UTF-8 so string decoding
// never yields invalid UTF-8. Returns the input on conversion failure.
func transcodeLatin1(raw []byte) []byte {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}
