package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20"

	"github.com/jmcleod/datawrapper/datawrapper"
)

func testStreamContext(t *testing.T) StreamContext {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, StreamKeyLen)
	sc, err := NewStreamContext(key)
	require.NoError(t, err)
	return sc
}

func TestStreamCoders(t *testing.T) {
	sc := testStreamContext(t)
	plaintext := []byte("attack at dawn")

	w, err := datawrapper.FromBytes(plaintext, datawrapper.WithInfoCoders(StreamCoders()), datawrapper.WithInfo(sc))
	require.NoError(t, err)
	defer w.Destroy()

	t.Run("StorageIsKeystreamXOR", func(t *testing.T) {
		c, err := chacha20.NewUnauthenticatedCipher(sc.Key, sc.Nonce)
		require.NoError(t, err)
		want := make([]byte, len(plaintext))
		c.XORKeyStream(want, plaintext)

		raw, err := w.RawEncodedBytes()
		require.NoError(t, err)
		assert.Equal(t, want, raw)
	})

	t.Run("DecodeWithSameContext", func(t *testing.T) {
		got, err := datawrapper.MapDataInfo(w, sc, func(data []byte) (string, error) { return string(data), nil })
		require.NoError(t, err)
		assert.Equal(t, "attack at dawn", got)

		got, err = datawrapper.MapDataInfo(w, &sc, func(data []byte) (string, error) { return string(data), nil })
		require.NoError(t, err)
		assert.Equal(t, "attack at dawn", got)
	})

	t.Run("DecodeWithOtherNonce", func(t *testing.T) {
		other := testStreamContext(t)
		require.NotEqual(t, sc.Nonce, other.Nonce)
		got, err := datawrapper.MapDataInfo(w, other, func(data []byte) (string, error) { return string(data), nil })
		require.NoError(t, err)
		assert.NotEqual(t, "attack at dawn", got)
	})

	t.Run("InvalidContextZeroFills", func(t *testing.T) {
		got, err := datawrapper.MapDataInfo(w, "not a context", func(data []byte) ([]byte, error) {
			return append([]byte(nil), data...), nil
		})
		require.NoError(t, err)
		assert.Equal(t, make([]byte, len(plaintext)), got)
	})
}

func TestValidateStreamContext(t *testing.T) {
	sc := testStreamContext(t)
	var nilCtx *StreamContext

	tests := []struct {
		name  string
		info  any
		valid bool
	}{
		{"Value", sc, true},
		{"Pointer", &sc, true},
		{"NilPointer", nilCtx, false},
		{"WrongType", []byte("key"), false},
		{"Nil", nil, false},
		{"ShortKey", StreamContext{Key: sc.Key[:16], Nonce: sc.Nonce}, false},
		{"ShortNonce", StreamContext{Key: sc.Key, Nonce: sc.Nonce[:8]}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStreamContext(tt.info)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStreamContext)
			}
		})
	}
}

func TestNewStreamContext_BadKey(t *testing.T) {
	_, err := NewStreamContext([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidStreamContext)
}

func TestDeriveKey(t *testing.T) {
	params, err := Argon2idProfile(KDFProfileInteractive)
	require.NoError(t, err)
	salt := []byte("0123456789abcdef")

	k1, err := DeriveKey("correct horse", salt, params)
	require.NoError(t, err)
	assert.Len(t, k1, 32)

	t.Run("Deterministic", func(t *testing.T) {
		k2, err := DeriveKey("correct horse", salt, params)
		require.NoError(t, err)
		assert.Equal(t, k1, k2)
	})

	t.Run("NormalizesPassphrase", func(t *testing.T) {
		// U+00E9 and e + U+0301 share an NFKD form.
		a, err := DeriveKey("caf\u00e9", salt, params)
		require.NoError(t, err)
		b, err := DeriveKey("cafe\u0301", salt, params)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("DifferentSalt", func(t *testing.T) {
		k2, err := DeriveKey("correct horse", []byte("fedcba9876543210"), params)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("RejectsWeakParams", func(t *testing.T) {
		weak := params
		weak.MemoryKiB = 1024
		_, err := DeriveKey("correct horse", salt, weak)
		assert.Error(t, err)
	})

	t.Run("RejectsEmptySalt", func(t *testing.T) {
		_, err := DeriveKey("correct horse", nil, params)
		assert.Error(t, err)
	})
}

func TestRecordKey(t *testing.T) {
	master := bytes.Repeat([]byte{0x07}, 32)

	a, err := RecordKey(master, "default", "db/password")
	require.NoError(t, err)
	assert.Len(t, a, StreamKeyLen)

	again, err := RecordKey(master, "default", "db/password")
	require.NoError(t, err)
	assert.Equal(t, a, again)

	b, err := RecordKey(master, "default", "api/token")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = RecordKey(nil, "default", "db/password")
	assert.Error(t, err)

	t.Run("NamespaceBoundary", func(t *testing.T) {
		x, err := RecordKey(master, "a/b", "c")
		require.NoError(t, err)
		y, err := RecordKey(master, "a", "b/c")
		require.NoError(t, err)
		assert.NotEqual(t, x, y)
	})
}

func TestBuildInfo(t *testing.T) {
	got := buildInfo("AB", 1)
	want := append([]byte("datawrapper:"), 0, 0, 0, 2, 'A', 'B', 0, 0, 0, 1)
	assert.Equal(t, want, got)
	assert.NotEqual(t, recordInfo("ab", "c"), recordInfo("a", "bc"))
}

func TestKeyCheck(t *testing.T) {
	master := bytes.Repeat([]byte{0x07}, 32)
	salt := []byte("salt")

	check, err := KeyCheck(master, salt)
	require.NoError(t, err)

	ok, err := VerifyKeyCheck(master, salt, check)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyKeyCheck(bytes.Repeat([]byte{0x08}, 32), salt, check)
	require.NoError(t, err)
	assert.False(t, ok)

	recordKey, err := RecordKey(master, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, check, recordKey, "key check and record keys are domain separated")
}

func TestProfiles(t *testing.T) {
	for _, name := range []string{KDFProfileInteractive, KDFProfileModerate, KDFProfileSensitive} {
		p, err := Argon2idProfile(name)
		require.NoError(t, err, name)
		assert.NoError(t, ValidateArgon2idParams(p), name)
	}
	assert.Equal(t, mustProfile(t, KDFProfileModerate), DefaultArgon2idParams())

	_, err := Argon2idProfile("extreme")
	assert.Error(t, err)
}

func mustProfile(t *testing.T, name string) Argon2idParams {
	t.Helper()
	p, err := Argon2idProfile(name)
	require.NoError(t, err)
	return p
}

func TestStreamEquality(t *testing.T) {
	sc := testStreamContext(t)
	wrap := func(s string) *datawrapper.Wrapper {
		w, err := datawrapper.FromString(s, datawrapper.WithInfoCoders(StreamCoders()), datawrapper.WithInfo(sc))
		require.NoError(t, err)
		t.Cleanup(w.Destroy)
		return w
	}
	alpha, omega, again := wrap("alpha"), wrap("omega"), wrap("alpha")

	assert.False(t, alpha.EqualInfo(omega, sc, sc))
	assert.NotEqual(t, alpha.HashInfo(sc), omega.HashInfo(sc))

	assert.True(t, alpha.EqualInfo(again, sc, &sc))
	assert.Equal(t, alpha.HashInfo(sc), again.HashInfo(sc))

	other := testStreamContext(t)
	o, err := datawrapper.FromString("alpha", datawrapper.WithInfoCoders(StreamCoders()), datawrapper.WithInfo(other))
	require.NoError(t, err)
	defer o.Destroy()
	assert.True(t, alpha.EqualInfo(o, sc, other), "each side decodes with its own context")
	assert.False(t, alpha.EqualInfo(o, sc, sc))
}

func TestSubkey(t *testing.T) {
	master := bytes.Repeat([]byte{0x07}, 32)
	info := []byte("info")

	k1, err := subkey(master, []byte("salt"), info)
	require.NoError(t, err)
	assert.Len(t, k1, StreamKeyLen)

	k2, err := subkey(master, []byte("salt"), info)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "deterministic")

	k3, err := subkey(master, []byte("salt"), []byte("different info"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	k4, err := subkey(master, nil, info)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4, "salt is mixed in")
}
