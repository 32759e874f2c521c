package datawrapper

import "fmt"

// Option configures wrapper construction.
type Option func(*options)

type options struct {
	coders     *Coders
	infoCoders *InfoCoders
	info       any
	withInfo   bool
	verbatim   bool
}

// WithCoders binds an explicit context-free coder pair.
func WithCoders(c Coders) Option {
	return func(o *options) {
		o.coders = &c
	}
}

// WithCoder binds t for both encoding and decoding.
func WithCoder(t Transform) Option {
	return WithCoders(Coders{Encode: t, Decode: t})
}

// WithInfoCoders binds an explicit context-carrying coder pair.
func WithInfoCoders(c InfoCoders) Option {
	return func(o *options) {
		o.infoCoders = &c
	}
}

// WithInfoCoder binds t for both encoding and decoding.
func WithInfoCoder(t InfoTransform) Option {
	return WithInfoCoders(InfoCoders{Encode: t, Decode: t})
}

// WithInfo passes info to the encoder at construction and selects the
// context-carrying variant. Without WithInfoCoders the default random XOR
// coders are used in their context-carrying form.
func WithInfo(info any) Option {
	return func(o *options) {
		o.info = info
		o.withInfo = true
	}
}

// AlreadyEncoded treats the source as the final encoded form and copies it
// verbatim into storage, for example when restoring a persisted
// RawEncodedBytes snapshot. The bound coders must match the ones that
// produced it.
func AlreadyEncoded() Option {
	return func(o *options) {
		o.verbatim = true
	}
}

func collectOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.coders != nil && (o.infoCoders != nil || o.withInfo) {
		return options{}, fmt.Errorf("%w: plain coders combined with info coders or info", ErrCoderMismatch)
	}
	if o.coders != nil {
		if err := o.coders.validate(); err != nil {
			return options{}, err
		}
	}
	if o.infoCoders != nil {
		if err := o.infoCoders.validate(); err != nil {
			return options{}, err
		}
	}
	return o, nil
}

// bind selects the coder pair for a wrapper holding length bytes.
func (o options) bind(length int) (binding, error) {
	switch {
	case o.coders != nil:
		return plainBinding(*o.coders), nil
	case o.infoCoders != nil:
		return infoBinding(*o.infoCoders), nil
	case o.withInfo:
		c, err := XorInfoWithRandomVector(length)
		if err != nil {
			return nil, err
		}
		return infoBinding(c), nil
	default:
		c, err := XorWithRandomVector(length)
		if err != nil {
			return nil, err
		}
		return plainBinding(c), nil
	}
}
