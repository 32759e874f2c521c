package datawrapper

import "errors"

var (
	// ErrCoderMismatch indicates plain and info coder variants were mixed,
	// either in construction options or at access time.
	ErrCoderMismatch = errors.New("datawrapper: coder variant mismatch")
	// ErrInvalidCoder indicates a coder pair with a nil transform.
	ErrInvalidCoder = errors.New("datawrapper: invalid coder")
	// ErrInvalidLength indicates a negative buffer length.
	ErrInvalidLength = errors.New("datawrapper: invalid length")
	// ErrDestroyed indicates the wrapper's storage has already been wiped and released.
	ErrDestroyed = errors.New("datawrapper: wrapper destroyed")
	// ErrNilWrapper indicates an operation on a nil *Wrapper.
	ErrNilWrapper = errors.New("datawrapper: nil wrapper")
	// ErrAlreadyInitialized indicates an attempt to decode into a wrapper that already holds data.
	ErrAlreadyInitialized = errors.New("datawrapper: wrapper already initialized")
	// ErrInvalidUTF8 indicates plaintext that cannot be represented as text.
	ErrInvalidUTF8 = errors.New("datawrapper: plaintext is not valid UTF-8")
)
