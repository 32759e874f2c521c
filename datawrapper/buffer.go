package datawrapper

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// secureBuffer is an exclusively owned allocation that is zeroed before it
// is released. Non-empty buffers live in memguard locked memory: outside
// the Go heap, excluded from swap, surrounded by guard pages. Empty
// buffers hold a valid zero-length slice; memguard has no zero-size
// allocation.
//
// A secureBuffer never hands out a slice that outlives the call it was
// obtained in; callers inside this package keep that discipline.
type secureBuffer struct {
	locked *memguard.LockedBuffer
}

// newSecureBuffer allocates length zeroed bytes. Allocation or mlock
// failure is fatal: memguard wipes every live buffer and panics.
func newSecureBuffer(length int) (*secureBuffer, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if length == 0 {
		return &secureBuffer{}, nil
	}
	return &secureBuffer{locked: memguard.NewBuffer(length)}, nil
}

func (b *secureBuffer) bytes() []byte {
	if b == nil || b.locked == nil {
		return []byte{}
	}
	data := b.locked.Bytes()
	return data[:len(data):len(data)]
}

func (b *secureBuffer) len() int {
	if b == nil || b.locked == nil {
		return 0
	}
	return b.locked.Size()
}

// freeze marks the pages read-only. Used once the stored encoding is written.
func (b *secureBuffer) freeze() {
	if b.locked != nil {
		b.locked.Freeze()
	}
}

// wipe zeroes the buffer in place without releasing it. The buffer must be mutable.
func (b *secureBuffer) wipe() {
	if b.locked != nil {
		memguard.WipeBytes(b.locked.Bytes())
	}
}

// destroy zeroes every byte and then releases the allocation. Safe to call more than once.
func (b *secureBuffer) destroy() {
	if b != nil && b.locked != nil {
		b.locked.Destroy()
	}
}

// clone returns an independent buffer holding the same bytes.
func (b *secureBuffer) clone() (*secureBuffer, error) {
	dup, err := newSecureBuffer(b.len())
	if err != nil {
		return nil, err
	}
	copy(dup.bytes(), b.bytes())
	return dup, nil
}
