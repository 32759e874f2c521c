package codec

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/jmcleod/datawrapper/datawrapper"
	"github.com/jmcleod/datawrapper/internal/util"
)

// Representation selects how plaintext appears in the serialized form.
type Representation int

const (
	// Bytes writes the plaintext as a byte string (base64 in JSON).
	Bytes Representation = iota
	// Text writes the plaintext as a UTF-8 string.
	Text
)

func (r Representation) String() string {
	switch r {
	case Bytes:
		return "bytes"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Representation(%d)", int(r))
	}
}

// Options is the per-call policy. The zero value writes raw bytes and
// decodes into wrappers with default coders.
type Options struct {
	Representation Representation
	// Coders binds decoded wrappers to a context-free pair.
	Coders *datawrapper.Coders
	// InfoCoders binds decoded wrappers to a context-carrying pair.
	InfoCoders *datawrapper.InfoCoders
	// Info is passed to info coders when encoding a decoded wrapper and
	// when decoding a wrapper for marshaling.
	Info any
}

func (o Options) wrapperOptions() []datawrapper.Option {
	var opts []datawrapper.Option
	if o.Coders != nil {
		opts = append(opts, datawrapper.WithCoders(*o.Coders))
	}
	if o.InfoCoders != nil {
		opts = append(opts, datawrapper.WithInfoCoders(*o.InfoCoders), datawrapper.WithInfo(o.Info))
	}
	return opts
}

func (o Options) use(w *datawrapper.Wrapper, fn func(data []byte) error) error {
	if w.UsesInfo() {
		return w.UseInfo(o.Info, fn)
	}
	return w.Use(fn)
}

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// textBytes implements encoding.TextMarshaler; it must become a CBOR
	// text string rather than an empty map.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// textBytes marshals as a string without an intermediate Go string, which
// could never be wiped.
type textBytes []byte

func (b textBytes) MarshalText() ([]byte, error) {
	return b, nil
}

// textSink builds a wrapper directly from the unquoted text a decoder
// hands to UnmarshalText.
type textSink struct {
	opts    []datawrapper.Option
	wrapper *datawrapper.Wrapper
}

func (s *textSink) UnmarshalText(text []byte) error {
	if !utf8.Valid(text) {
		return datawrapper.ErrInvalidUTF8
	}
	// text belongs to the decoder and may alias the caller's input, so it
	// is copied into the wrapper but not wiped here.
	w, err := datawrapper.FromBytes(text, s.opts...)
	if err != nil {
		return err
	}
	s.wrapper = w
	return nil
}

type marshalFunc func(v any) ([]byte, error)

type unmarshalFunc func(data []byte, v any) error

func marshal(w *datawrapper.Wrapper, opts Options, m marshalFunc) ([]byte, error) {
	var out []byte
	err := opts.use(w, func(data []byte) error {
		var err error
		switch opts.Representation {
		case Text:
			if !utf8.Valid(data) {
				return datawrapper.ErrInvalidUTF8
			}
			out, err = m(textBytes(data))
		case Bytes:
			out, err = m(data)
		default:
			return fmt.Errorf("codec: unsupported representation %s", opts.Representation)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func unmarshal(data []byte, opts Options, u unmarshalFunc) (*datawrapper.Wrapper, error) {
	switch opts.Representation {
	case Text:
		sink := &textSink{opts: opts.wrapperOptions()}
		if err := u(data, sink); err != nil {
			return nil, err
		}
		if sink.wrapper == nil {
			return datawrapper.New(sink.opts...)
		}
		return sink.wrapper, nil
	case Bytes:
		var staged []byte
		if err := u(data, &staged); err != nil {
			return nil, err
		}
		defer util.WipeBytes(staged)
		return datawrapper.FromBytes(staged, opts.wrapperOptions()...)
	default:
		return nil, fmt.Errorf("codec: unsupported representation %s", opts.Representation)
	}
}

// MarshalJSON writes the plaintext of w as a JSON value per opts.
func MarshalJSON(w *datawrapper.Wrapper, opts Options) ([]byte, error) {
	return marshal(w, opts, json.Marshal)
}

// UnmarshalJSON builds a new wrapper from a JSON value per opts.
func UnmarshalJSON(data []byte, opts Options) (*datawrapper.Wrapper, error) {
	return unmarshal(data, opts, json.Unmarshal)
}

// MarshalCBOR writes the plaintext of w as a CBOR data item per opts.
func MarshalCBOR(w *datawrapper.Wrapper, opts Options) ([]byte, error) {
	return marshal(w, opts, encMode.Marshal)
}

// UnmarshalCBOR builds a new wrapper from a CBOR data item per opts.
func UnmarshalCBOR(data []byte, opts Options) (*datawrapper.Wrapper, error) {
	return unmarshal(data, opts, decMode.Unmarshal)
}
