package datawrapper

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmcleod/datawrapper/internal/util"
)

// Wrapper holds a byte sequence in encoded form. The stored bytes and the
// bound coders never change after construction.
//
// A Wrapper must not be copied by value; use Clone for an independent
// copy. Call Destroy when the value is no longer needed. A wrapper that
// becomes unreachable is also wiped when the garbage collector finalizes
// its storage, but at an unspecified time.
//
// The zero value is an empty wrapper with identity coders.
type Wrapper struct {
	mu        sync.RWMutex
	storage   *secureBuffer
	coders    binding
	destroyed bool
}

// Len returns the length of the stored data.
func (w *Wrapper) Len() int {
	if w == nil {
		return 0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.destroyed {
		return 0
	}
	return w.storage.len()
}

// IsEmpty reports whether the wrapper holds no data.
func (w *Wrapper) IsEmpty() bool {
	return w.Len() == 0
}

// UsesInfo reports whether the wrapper is bound to context-carrying coders
// and must be accessed through the Info variants.
func (w *Wrapper) UsesInfo() bool {
	if w == nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bound().takesInfo()
}

// RawEncodedBytes returns a copy of the stored, still encoded bytes. The
// copy lives on the Go heap and is not covered by the wipe guarantee.
func (w *Wrapper) RawEncodedBytes() ([]byte, error) {
	if w == nil {
		return nil, ErrNilWrapper
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.destroyed {
		return nil, ErrDestroyed
	}
	return util.CopyBytes(w.storage.bytes()), nil
}

// Clone returns a wrapper with an independent copy of the storage bound
// to the same coders.
func (w *Wrapper) Clone() (*Wrapper, error) {
	if w == nil {
		return nil, ErrNilWrapper
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.destroyed {
		return nil, ErrDestroyed
	}
	storage, err := w.storage.clone()
	if err != nil {
		return nil, err
	}
	storage.freeze()
	return &Wrapper{storage: storage, coders: w.bound()}, nil
}

// Destroy wipes and releases the storage. Every later access returns
// ErrDestroyed. Destroy is idempotent.
func (w *Wrapper) Destroy() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.storage.destroy()
	w.storage = nil
}

// String never decodes; it reports only the length.
func (w *Wrapper) String() string {
	return fmt.Sprintf("datawrapper.Wrapper(len=%d)", w.Len())
}

func (w *Wrapper) GoString() string {
	return w.String()
}

// LogValue keeps wrappers redacted in structured logs.
func (w *Wrapper) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("value", "[redacted]"),
		slog.Int("len", w.Len()),
	)
}

// bound returns the coder pair, defaulting to identity for a zero Wrapper.
// Callers hold w.mu.
func (w *Wrapper) bound() binding {
	if w.coders == nil {
		return plainBinding(Identity())
	}
	return w.coders
}

// adopt moves the state of src into a zero-value w. src is left empty.
func (w *Wrapper) adopt(src *Wrapper) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.storage != nil || w.coders != nil || w.destroyed {
		src.Destroy()
		return ErrAlreadyInitialized
	}
	src.mu.Lock()
	defer src.mu.Unlock()
	w.storage, w.coders = src.storage, src.coders
	src.storage, src.coders, src.destroyed = nil, nil, true
	return nil
}
