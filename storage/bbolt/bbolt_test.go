package bbolt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmcleod/datawrapper/crypto"
	"github.com/jmcleod/datawrapper/storage"
	"github.com/jmcleod/datawrapper/storage/storagetest"
	"go.etcd.io/bbolt"
)

func newTestDB(t *testing.T) (*bbolt.DB, func()) {
	t.Helper()
	f, err := os.CreateTemp("", "datawrapper-test-*.db")
	if err != nil {
		t.Fatalf("could not create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		os.Remove(path)
		t.Fatalf("could not open db: %v", err)
	}
	return db, func() {
		db.Close()
		os.Remove(path)
	}
}

func TestBBoltStorage(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Repository {
		db, cleanup := newTestDB(t)
		t.Cleanup(cleanup)
		return NewRepository(db)
	})
}

func TestNewRepositoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	params := crypto.DefaultArgon2idParams()

	s, err := NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("NewRepositoryFromFile failed: %v", err)
	}
	rec := &storage.Record{
		Ver:      storage.RecordVersion,
		ID:       "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Scheme:   crypto.StreamScheme,
		Salt:     []byte("salt"),
		KDF:      &params,
		KeyCheck: []byte("check"),
		Nonce:    make([]byte, crypto.StreamNonceLen),
		Encoded:  []byte("enc"),
		Version:  1,
	}
	if err := s.Put("ns", "a", rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get("ns", "a")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.KDF == nil || *got.KDF != params {
		t.Errorf("expected KDF params %+v, got %+v", params, got.KDF)
	}
	if string(got.KeyCheck) != "check" || string(got.Salt) != "salt" {
		t.Errorf("record fields not persisted: %+v", got)
	}
}

func TestNewRepositoryFromFile_BadPath(t *testing.T) {
	_, err := NewRepositoryFromFile(filepath.Join(t.TempDir(), "missing", "records.db"), nil)
	if err == nil {
		t.Error("expected error opening db in missing directory")
	}
}
