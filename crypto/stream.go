// Package crypto provides keyed coders for datawrapper and the key
// derivation used to persist wrappers.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/jmcleod/datawrapper/datawrapper"
	"github.com/jmcleod/datawrapper/internal/util"
)

// StreamScheme names the stream coder in persisted records.
const StreamScheme = "chacha20-xor"

const (
	// StreamKeyLen is the required key length.
	StreamKeyLen = chacha20.KeySize
	// StreamNonceLen is the required nonce length.
	StreamNonceLen = chacha20.NonceSize
)

// ErrInvalidStreamContext is returned by ValidateStreamContext.
var ErrInvalidStreamContext = errors.New("crypto: invalid stream context")

// StreamContext is the info value consumed by StreamCoders. A key must
// never be used with two different plaintexts under the same nonce.
type StreamContext struct {
	Key   []byte
	Nonce []byte
}

// NewStreamContext pairs key with a fresh random nonce.
func NewStreamContext(key []byte) (StreamContext, error) {
	if len(key) != StreamKeyLen {
		return StreamContext{}, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidStreamContext, StreamKeyLen, len(key))
	}
	nonce, err := util.RandomBytes(StreamNonceLen)
	if err != nil {
		return StreamContext{}, fmt.Errorf("generating stream nonce: %w", err)
	}
	return StreamContext{Key: key, Nonce: nonce}, nil
}

// ValidateStreamContext checks that info is a StreamContext (or a pointer
// to one) with key and nonce of the right size.
func ValidateStreamContext(info any) error {
	_, err := streamContext(info)
	return err
}

func streamContext(info any) (StreamContext, error) {
	var sc StreamContext
	switch v := info.(type) {
	case StreamContext:
		sc = v
	case *StreamContext:
		if v == nil {
			return StreamContext{}, fmt.Errorf("%w: nil context", ErrInvalidStreamContext)
		}
		sc = *v
	default:
		return StreamContext{}, fmt.Errorf("%w: got %T", ErrInvalidStreamContext, info)
	}
	if len(sc.Key) != StreamKeyLen {
		return StreamContext{}, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidStreamContext, StreamKeyLen, len(sc.Key))
	}
	if len(sc.Nonce) != StreamNonceLen {
		return StreamContext{}, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrInvalidStreamContext, StreamNonceLen, len(sc.Nonce))
	}
	return sc, nil
}

// StreamCoders returns context-carrying coders that XOR data with the
// ChaCha20 keystream for the StreamContext passed as info. Encoding and
// decoding are the same operation.
//
// The transforms cannot report errors: with an invalid context the
// destination is zero-filled. Check with ValidateStreamContext first.
func StreamCoders() datawrapper.InfoCoders {
	return datawrapper.InfoCoders{Encode: streamXOR, Decode: streamXOR}
}

func streamXOR(src, dst []byte, info any) {
	sc, err := streamContext(info)
	if err != nil {
		clear(dst)
		return
	}
	c, err := chacha20.NewUnauthenticatedCipher(sc.Key, sc.Nonce)
	if err != nil {
		clear(dst)
		return
	}
	c.XORKeyStream(dst, src)
}
