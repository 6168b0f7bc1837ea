/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package bind

// OutputSet owns one typed output buffer, length cell, null cell and
// truncation cell per result column. It is allocated once per query execution
// and overwritten row by row by the transport; the only per-row reallocation
// is the truncation regrow path.
type OutputSet struct {
	descriptors []Descriptor

	// Cell storage. Preallocated to the field count so descriptor pointers
	// into these slices stay valid as columns are appended.
	lengths   []uint32
	nulls     []bool
	truncated []bool
}

// NewOutputSet prepares an output set for the given live field count.
func NewOutputSet(fieldCount int) *OutputSet {
	return &OutputSet{
		descriptors: make([]Descriptor, 0, fieldCount),
		lengths:     make([]uint32, 0, fieldCount),
		nulls:       make([]bool, 0, fieldCount),
		truncated:   make([]bool, 0, fieldCount),
	}
}

// AppendColumn allocates the zero-initialized buffer and out-cells for one
// output column of type T. Variable-length types get a growable buffer of the
// default capacity; fixed types get their exact protocol width.
func AppendColumn[T Value](this *OutputSet) {
	fieldType, unsigned := fieldTypeOf[T]()
	width := fieldType.Width()
	if fieldType.IsVariableLength() {
		width = defaultVarLength
	}

	this.lengths = append(this.lengths, 0)
	this.nulls = append(this.nulls, false)
	this.truncated = append(this.truncated, false)
	i := len(this.lengths) - 1

	this.descriptors = append(this.descriptors, Descriptor{
		Type:      fieldType,
		Unsigned:  unsigned,
		Buffer:    make([]byte, width),
		Length:    &this.lengths[i],
		Null:      &this.nulls[i],
		Truncated: &this.truncated[i],
	})
}

// Arity returns the number of bound output columns.
func (this *OutputSet) Arity() int {
	return len(this.descriptors)
}

// Column returns the descriptor bound to column i.
func (this *OutputSet) Column(i int) *Descriptor {
	return &this.descriptors[i]
}

// Descriptors exposes the full ordered descriptor sequence for the transport
// to bind.
func (this *OutputSet) Descriptors() []Descriptor {
	return this.descriptors
}

// NullFlags copies the per-column null cells into a fresh row-local vector.
func (this *OutputSet) NullFlags() []bool {
	flags := make([]bool, len(this.nulls))
	copy(flags, this.nulls)
	return flags
}

// TruncatedColumns returns the indexes of columns whose current value
// overflowed its buffer.
func (this *OutputSet) TruncatedColumns() []int {
	var columns []int
	for i := range this.truncated {
		if this.truncated[i] {
			columns = append(columns, i)
		}
	}
	return columns
}

// Grow reallocates column i's buffer to hold at least n bytes and clears its
// truncation cell. The transport must re-fetch the column's data afterwards;
// the old buffer content is not carried over.
func (this *OutputSet) Grow(i int, n uint32) {
	if int(n) <= len(this.descriptors[i].Buffer) {
		this.truncated[i] = false
		return
	}
	this.descriptors[i].Buffer = make([]byte, n)
	this.truncated[i] = false
}
