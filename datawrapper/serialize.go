package datawrapper

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/jmcleod/datawrapper/internal/util"
)

// The methods below are the default serialization boundary: the plaintext
// is written as raw bytes and decoded values get fresh default coders.
// Wrappers bound to info coders are decoded with a nil context. The codec
// package exposes the text representation, explicit coders and contexts.
//
// Encoded output is a heap copy of the plaintext and is not wiped.

var (
	_ json.Marshaler   = (*Wrapper)(nil)
	_ json.Unmarshaler = (*Wrapper)(nil)
	_ cbor.Marshaler   = (*Wrapper)(nil)
	_ cbor.Unmarshaler = (*Wrapper)(nil)
)

// MarshalJSON encodes the plaintext as a base64 JSON string.
func (w *Wrapper) MarshalJSON() ([]byte, error) {
	return mapData(w, nil, accessAny, func(data []byte) ([]byte, error) {
		return json.Marshal(data)
	})
}

// UnmarshalJSON decodes a base64 JSON string into a zero-value wrapper.
// The decoded staging bytes are wiped once wrapped.
func (w *Wrapper) UnmarshalJSON(b []byte) error {
	var staged []byte
	if err := json.Unmarshal(b, &staged); err != nil {
		return err
	}
	defer util.WipeBytes(staged)
	return w.adoptBytes(staged)
}

// MarshalCBOR encodes the plaintext as a CBOR byte string.
func (w *Wrapper) MarshalCBOR() ([]byte, error) {
	return mapData(w, nil, accessAny, func(data []byte) ([]byte, error) {
		return cbor.Marshal(data)
	})
}

// UnmarshalCBOR decodes a CBOR byte string into a zero-value wrapper.
func (w *Wrapper) UnmarshalCBOR(b []byte) error {
	var staged []byte
	if err := cbor.Unmarshal(b, &staged); err != nil {
		return err
	}
	defer util.WipeBytes(staged)
	return w.adoptBytes(staged)
}

// MarshalText returns a heap copy of the plaintext, which must be valid UTF-8.
func (w *Wrapper) MarshalText() ([]byte, error) {
	return mapData(w, nil, accessAny, func(data []byte) ([]byte, error) {
		if !utf8.Valid(data) {
			return nil, ErrInvalidUTF8
		}
		return util.CopyBytes(data), nil
	})
}

// UnmarshalText wraps text into a zero-value wrapper. text belongs to the
// caller and is not wiped.
func (w *Wrapper) UnmarshalText(text []byte) error {
	return w.adoptBytes(text)
}

func (w *Wrapper) adoptBytes(data []byte) error {
	if w == nil {
		return ErrNilWrapper
	}
	decoded, err := FromBytes(data)
	if err != nil {
		return err
	}
	return w.adopt(decoded)
}
