package datawrapper

import (
	"fmt"
)

// New returns an empty wrapper.
func New(opts ...Option) (*Wrapper, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return nil, err
	}
	return build([]byte{}, o)
}

// FromBytes wraps a copy of data. data itself belongs to the caller and
// is left untouched.
func FromBytes(data []byte, opts ...Option) (*Wrapper, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return nil, err
	}
	return build(data, o)
}

// FromString wraps the UTF-8 bytes of s. The bytes are staged in a secure
// scratch buffer that is wiped before FromString returns; s itself is an
// immutable Go string and cannot be wiped.
func FromString(s string, opts ...Option) (*Wrapper, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return nil, err
	}
	scratch, err := newSecureBuffer(len(s))
	if err != nil {
		return nil, err
	}
	defer scratch.destroy()
	copy(scratch.bytes(), s)
	return build(scratch.bytes(), o)
}

// FromFill wraps length bytes produced by fill. fill is called once with a
// zeroed secure scratch buffer of exactly length bytes, which is wiped
// before FromFill returns. A length of zero or less yields an empty
// wrapper without calling fill.
func FromFill(length int, fill func(buf []byte) error, opts ...Option) (*Wrapper, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return nil, err
	}
	if length <= 0 {
		return build([]byte{}, o)
	}
	scratch, err := newSecureBuffer(length)
	if err != nil {
		return nil, err
	}
	defer scratch.destroy()
	if err := fill(scratch.bytes()); err != nil {
		return nil, fmt.Errorf("filling wrapper: %w", err)
	}
	return build(scratch.bytes(), o)
}

// FromCapacity wraps up to capacity bytes produced by fill. fill is called
// once with a zeroed secure scratch buffer of capacity bytes and reports
// how many it used. A reported length outside 1..capacity means no usable
// content was produced and yields an empty wrapper. The scratch buffer is
// wiped before FromCapacity returns.
func FromCapacity(capacity int, fill func(buf []byte) (int, error), opts ...Option) (*Wrapper, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return build([]byte{}, o)
	}
	scratch, err := newSecureBuffer(capacity)
	if err != nil {
		return nil, err
	}
	defer scratch.destroy()
	actual, err := fill(scratch.bytes())
	if err != nil {
		return nil, fmt.Errorf("filling wrapper: %w", err)
	}
	if actual <= 0 || actual > capacity {
		return build([]byte{}, o)
	}
	return build(scratch.bytes()[:actual], o)
}

// build binds coders sized to len(src), allocates storage of exactly that
// length and runs the encoder once. The encoder runs even for empty data,
// against zero-length spans.
func build(src []byte, o options) (*Wrapper, error) {
	b, err := o.bind(len(src))
	if err != nil {
		return nil, err
	}
	storage, err := newSecureBuffer(len(src))
	if err != nil {
		return nil, err
	}
	encode := b.encode
	if o.verbatim {
		encode = copyInfoTransform
	}
	encode(src, storage.bytes(), o.info)
	storage.freeze()
	return &Wrapper{storage: storage, coders: b}, nil
}
