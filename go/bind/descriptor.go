/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package bind

// Descriptor describes one bound value for the wire protocol: where its bytes
// live, what protocol type it declares, and the out-cells the transport
// reports actual length, SQL NULL and truncation through.
//
// Input descriptors are immutable snapshots of a caller value, valid until the
// execute call they were built for completes. Output descriptors own their
// buffer; the transport overwrites it row by row.
type Descriptor struct {
	Type     FieldType
	Unsigned bool

	// Buffer holds the encoded value (inputs) or the allocated capacity the
	// transport writes into (outputs).
	Buffer []byte

	// Length reports the actual byte length of the current value. On
	// truncation it holds the length the transport needed, which is what the
	// regrow path allocates.
	Length *uint32

	// Null reports SQL NULL for the current value. The buffer content is
	// undefined while set; decoding yields the type's zero value.
	Null *bool

	// Truncated reports that the current value did not fit in Buffer.
	Truncated *bool
}

// IsNull tells whether the current value is SQL NULL.
func (this *Descriptor) IsNull() bool {
	return this.Null != nil && *this.Null
}

// IsTruncated tells whether the current value overflowed the buffer.
func (this *Descriptor) IsTruncated() bool {
	return this.Truncated != nil && *this.Truncated
}

// ValueBytes returns the bytes of the current value, clipped to the reported
// length.
func (this *Descriptor) ValueBytes() []byte {
	if this.Length == nil {
		return this.Buffer
	}
	n := int(*this.Length)
	if n > len(this.Buffer) {
		n = len(this.Buffer)
	}
	return this.Buffer[:n]
}

// newInputDescriptor snapshots encoded bytes into an input descriptor.
func newInputDescriptor(fieldType FieldType, unsigned bool, encoded []byte) Descriptor {
	length := uint32(len(encoded))
	isNull := fieldType == TypeNull
	return Descriptor{
		Type:     fieldType,
		Unsigned: unsigned,
		Buffer:   encoded,
		Length:   &length,
		Null:     &isNull,
	}
}
