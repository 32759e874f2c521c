package datawrapper

import (
	"crypto/subtle"
	"encoding/binary"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/jmcleod/datawrapper/internal/util"
)

// hashKey keys Hash for the life of the process, so equal plaintexts hash
// equally within a process but digests reveal nothing across processes.
var hashKey = sync.OnceValues(func() ([]byte, error) {
	return util.RandomBytes(32)
})

// Equal reports whether w and other hold the same plaintext. Encoded bytes
// are never compared: two wrappers over the same data usually carry
// different random keys. Info coders are decoded with a nil context, which
// is only meaningful for coders that ignore it; wrappers whose coders need
// a context must be compared with EqualInfo. Destroyed or nil wrappers are
// never equal.
func (w *Wrapper) Equal(other *Wrapper) bool {
	return w.EqualInfo(other, nil, nil)
}

// EqualInfo is Equal with the contexts used to decode w and other. Plain
// coder wrappers ignore their context.
func (w *Wrapper) EqualInfo(other *Wrapper, info, otherInfo any) bool {
	eq, err := mapPairInfo(w, other, info, otherInfo, accessAny, func(a, b []byte) (bool, error) {
		return subtle.ConstantTimeCompare(a, b) == 1, nil
	})
	return err == nil && eq
}

// Hash returns a keyed BLAKE3 digest of the plaintext, truncated to 64
// bits. Wrappers that are Equal have the same Hash. Like Equal it decodes
// info coders with a nil context; use HashInfo for coders that need one.
// It returns 0 for nil or destroyed wrappers.
func (w *Wrapper) Hash() uint64 {
	return w.HashInfo(nil)
}

// HashInfo is Hash with the context used to decode w.
func (w *Wrapper) HashInfo(info any) uint64 {
	key, err := hashKey()
	if err != nil {
		return 0
	}
	sum, err := mapData(w, info, accessAny, func(data []byte) (uint64, error) {
		h, err := blake3.NewKeyed(key)
		if err != nil {
			return 0, err
		}
		_, _ = h.Write(data)
		digest := h.Sum(nil)
		defer util.WipeBytes(digest)
		return binary.LittleEndian.Uint64(digest[:8]), nil
	})
	if err != nil {
		return 0
	}
	return sum
}
