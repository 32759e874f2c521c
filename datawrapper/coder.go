package datawrapper

import (
	"fmt"

	"github.com/jmcleod/datawrapper/internal/util"
)

// Transform reads src and writes the transformed bytes into dst. It must
// write every byte of dst and must not retain either slice after it
// returns. dst is never shorter than src when called by a Wrapper.
type Transform func(src, dst []byte)

// InfoTransform is a Transform that also receives a caller supplied
// context value. The value is passed at call time only and is never
// stored with the wrapper, so each decode may pass a different one.
type InfoTransform func(src, dst []byte, info any)

// Coders is a context-free encode/decode pair.
type Coders struct {
	Encode Transform
	Decode Transform
}

func (c Coders) validate() error {
	if c.Encode == nil || c.Decode == nil {
		return fmt.Errorf("%w: coders require both encode and decode transforms", ErrInvalidCoder)
	}
	return nil
}

// InfoCoders is a context-carrying encode/decode pair.
type InfoCoders struct {
	Encode InfoTransform
	Decode InfoTransform
}

func (c InfoCoders) validate() error {
	if c.Encode == nil || c.Decode == nil {
		return fmt.Errorf("%w: info coders require both encode and decode transforms", ErrInvalidCoder)
	}
	return nil
}

// binding is the coder pair bound to a single wrapper for its lifetime.
// Exactly one of the two variants implements it.
type binding interface {
	encode(src, dst []byte, info any)
	decode(src, dst []byte, info any)
	takesInfo() bool
}

type plainBinding Coders

func (b plainBinding) encode(src, dst []byte, _ any) { b.Encode(src, dst) }
func (b plainBinding) decode(src, dst []byte, _ any) { b.Decode(src, dst) }
func (plainBinding) takesInfo() bool                 { return false }

type infoBinding InfoCoders

func (b infoBinding) encode(src, dst []byte, info any) { b.Encode(src, dst, info) }
func (b infoBinding) decode(src, dst []byte, info any) { b.Decode(src, dst, info) }
func (infoBinding) takesInfo() bool                    { return true }

func copyTransform(src, dst []byte) {
	n := copy(dst, src)
	clear(dst[n:])
}

func copyInfoTransform(src, dst []byte, _ any) { copyTransform(src, dst) }

// Identity returns coders that store the plaintext verbatim. dst receives
// min(len(src), len(dst)) bytes of src; the rest of dst is zeroed.
func Identity() Coders {
	return Coders{Encode: copyTransform, Decode: copyTransform}
}

// IdentityInfo is Identity in the context-carrying form. The context is ignored.
func IdentityInfo() InfoCoders {
	return InfoCoders{Encode: copyInfoTransform, Decode: copyInfoTransform}
}

// xorTransform captures its own copy of key. For each destination index i,
// dst[i] = src[i] ^ key[i mod len(key)], with src treated as zero past its
// end. An empty key leaves dst zeroed.
func xorTransform(key []byte) Transform {
	vector := util.CopyBytes(key)
	return func(src, dst []byte) {
		if len(vector) == 0 {
			clear(dst)
			return
		}
		for i := range dst {
			var b byte
			if i < len(src) {
				b = src[i]
			}
			dst[i] = b ^ vector[i%len(vector)]
		}
	}
}

// XorWithVector returns coders that XOR the data with key, wrapping the
// key index when the data is longer. XOR is its own inverse, so the same
// transform serves both directions. key is copied.
func XorWithVector(key []byte) Coders {
	t := xorTransform(key)
	return Coders{Encode: t, Decode: t}
}

// XorInfoWithVector is XorWithVector in the context-carrying form. The context is ignored.
func XorInfoWithVector(key []byte) InfoCoders {
	t := xorTransform(key)
	it := func(src, dst []byte, _ any) { t(src, dst) }
	return InfoCoders{Encode: it, Decode: it}
}

// XorWithRandomVector returns XOR coders keyed with n bytes from the
// operating system CSPRNG. This is the default for every wrapper built
// without explicit coders. The key lives only inside the returned
// transforms and is not wiped when they are dropped.
func XorWithRandomVector(n int) (Coders, error) {
	key, err := util.RandomBytes(n)
	if err != nil {
		return Coders{}, fmt.Errorf("generating xor key: %w", err)
	}
	c := XorWithVector(key)
	util.WipeBytes(key)
	return c, nil
}

// XorInfoWithRandomVector is XorWithRandomVector in the context-carrying form.
func XorInfoWithRandomVector(n int) (InfoCoders, error) {
	key, err := util.RandomBytes(n)
	if err != nil {
		return InfoCoders{}, fmt.Errorf("generating xor key: %w", err)
	}
	c := XorInfoWithVector(key)
	util.WipeBytes(key)
	return c, nil
}
