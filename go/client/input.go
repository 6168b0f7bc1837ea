/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package client

import (
	"github.com/typedsql/typedsql/go/bind"
)

// bindInputs converts a positional argument list into an ordered descriptor
// sequence, position-for-position with the query's placeholders. It is a pure
// transform: caller arguments are snapshotted, never mutated. An argument of
// a type outside the codec set fails here, before any transport round trip.
func bindInputs(args []interface{}) ([]bind.Descriptor, error) {
	if len(args) == 0 {
		return nil, nil
	}
	inputs := make([]bind.Descriptor, 0, len(args))
	for i, arg := range args {
		descriptor, err := bind.EncodeArg(arg)
		if err != nil {
			return nil, Errorf(ErrBindArity, "argument %d: %s", i, err)
		}
		inputs = append(inputs, descriptor)
	}
	return inputs, nil
}
