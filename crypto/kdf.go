package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/jmcleod/datawrapper/internal/util"
)

// Argon2idParams configures Argon2id key derivation.
type Argon2idParams = util.Argon2idParams

// SaltLen is the length of salts produced by NewSalt.
const SaltLen = 16

// Named KDF profiles for different deployment scenarios.
const (
	KDFProfileInteractive = util.KDFProfileInteractive // sub-second, dev/testing
	KDFProfileModerate    = util.KDFProfileModerate    // production default
	KDFProfileSensitive   = util.KDFProfileSensitive   // high-value secrets
)

// DefaultArgon2idParams returns the default Argon2id parameters (moderate profile).
func DefaultArgon2idParams() Argon2idParams {
	return util.DefaultArgon2idParams()
}

// Argon2idProfile returns the Argon2idParams for a named profile.
func Argon2idProfile(name string) (Argon2idParams, error) {
	return util.Argon2idProfile(name)
}

// ValidateArgon2idParams checks that the given parameters meet the minimum
// acceptable thresholds.
func ValidateArgon2idParams(p Argon2idParams) error {
	return util.ValidateArgon2idParams(p)
}

// NewSalt returns a fresh random salt for DeriveKey.
func NewSalt() ([]byte, error) {
	return util.RandomBytes(SaltLen)
}

// DeriveKey stretches a passphrase into a 32-byte master key. The
// passphrase is NFKD-normalized first so that visually identical input
// derives the same key.
func DeriveKey(passphrase string, salt []byte, params Argon2idParams) ([]byte, error) {
	key, err := util.DeriveArgon2idKey(passphrase, salt, params)
	if err != nil {
		return nil, fmt.Errorf("deriving master key: %w", err)
	}
	return key, nil
}

// RecordKey derives the stream key for the named record from master.
func RecordKey(master []byte, namespace, name string) ([]byte, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("deriving record key: empty master key")
	}
	return subkey(master, nil, recordInfo(namespace, name))
}

// KeyCheck derives a value stored next to a record so that a wrong
// passphrase is detected before anything is decoded.
func KeyCheck(master, salt []byte) ([]byte, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("deriving key check: empty master key")
	}
	return subkey(master, salt, keyCheckInfo())
}

// VerifyKeyCheck reports whether master produces want.
func VerifyKeyCheck(master, salt, want []byte) (bool, error) {
	got, err := KeyCheck(master, salt)
	if err != nil {
		return false, err
	}
	defer util.WipeBytes(got)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// subkeyLen is the length of every HKDF output, sized for StreamKeyLen.
const subkeyLen = StreamKeyLen

// subkey expands master into a subkeyLen key bound to info with
// HKDF-SHA256. A nil salt is allowed.
func subkey(master, salt, info []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, master, salt, info)
	k := make([]byte, subkeyLen)
	if _, err := io.ReadFull(r, k); err != nil {
		util.WipeBytes(k)
		return nil, fmt.Errorf("expanding subkey: %w", err)
	}
	return k, nil
}
