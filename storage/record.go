package storage

import (
	"fmt"

	"github.com/jmcleod/datawrapper/crypto"
	"github.com/jmcleod/datawrapper/datawrapper"
	"github.com/jmcleod/datawrapper/internal/util"
	"github.com/jmcleod/datawrapper/internal/uuid"
)

// RecordVersion is the format version written by SealRecord.
const RecordVersion = 1

// SchemeIdentity marks records whose encoded bytes are the plaintext.
const SchemeIdentity = "identity"

var supportedSchemes = map[string]bool{
	SchemeIdentity:      true,
	crypto.StreamScheme: true,
}

// Record is the persisted snapshot of a wrapper's encoded storage. Only
// deterministic, keyed coders can be restored, so Scheme names one of
// those. Salt, KDF and KeyCheck describe how the stream key is derived
// and are empty for identity records.
type Record struct {
	Ver      int                    `json:"ver"`
	ID       string                 `json:"id"`
	Scheme   string                 `json:"scheme"`
	Salt     []byte                 `json:"salt,omitempty"`
	KDF      *crypto.Argon2idParams `json:"kdf,omitempty"`
	KeyCheck []byte                 `json:"key_check,omitempty"`
	Nonce    []byte                 `json:"nonce,omitempty"`
	Encoded  []byte                 `json:"encoded"`
	Version  uint64                 `json:"version,omitempty"`
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Salt = util.CopyBytes(r.Salt)
	cp.KeyCheck = util.CopyBytes(r.KeyCheck)
	cp.Nonce = util.CopyBytes(r.Nonce)
	cp.Encoded = util.CopyBytes(r.Encoded)
	if r.KDF != nil {
		kdf := *r.KDF
		cp.KDF = &kdf
	}
	return &cp
}

// SealRecord snapshots the encoded bytes of w into a new Record. The
// plaintext is never decoded.
func SealRecord(w *datawrapper.Wrapper, scheme string, version ...uint64) (*Record, error) {
	if !supportedSchemes[scheme] {
		return nil, fmt.Errorf("unsupported record scheme: %s", scheme)
	}
	encoded, err := w.RawEncodedBytes()
	if err != nil {
		return nil, fmt.Errorf("sealing record: %w", err)
	}

	rec := &Record{
		Ver:     RecordVersion,
		ID:      uuid.New(),
		Scheme:  scheme,
		Encoded: encoded,
	}
	if len(version) > 0 {
		rec.Version = version[0]
	}
	return rec, nil
}

// OpenRecord rebuilds a wrapper from rec's encoded bytes. opts must bind
// the coders that produced them; the bytes are copied verbatim.
func OpenRecord(rec *Record, opts ...datawrapper.Option) (*datawrapper.Wrapper, error) {
	if rec.Ver != RecordVersion {
		return nil, fmt.Errorf("unsupported record version: %d", rec.Ver)
	}
	if !supportedSchemes[rec.Scheme] {
		return nil, fmt.Errorf("unsupported record scheme: %s", rec.Scheme)
	}
	if !uuid.Valid(rec.ID) {
		return nil, fmt.Errorf("invalid record id %q", rec.ID)
	}
	if rec.Scheme == crypto.StreamScheme && len(rec.Nonce) != crypto.StreamNonceLen {
		return nil, fmt.Errorf("record %s: nonce must be %d bytes, got %d", rec.ID, crypto.StreamNonceLen, len(rec.Nonce))
	}

	opts = append(opts[:len(opts):len(opts)], datawrapper.AlreadyEncoded())
	w, err := datawrapper.FromBytes(rec.Encoded, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening record %s: %w", rec.ID, err)
	}
	return w, nil
}
