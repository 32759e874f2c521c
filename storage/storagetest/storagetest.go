// Package storagetest holds the behavior every storage.Repository
// implementation must share.
package storagetest

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/jmcleod/datawrapper/storage"
)

func record(encoded string, version uint64) *storage.Record {
	return &storage.Record{
		Ver:     storage.RecordVersion,
		ID:      "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Scheme:  storage.SchemeIdentity,
		Nonce:   []byte("nonce1234567"),
		Encoded: []byte(encoded),
		Version: version,
	}
}

// Run exercises repo. newRepo must return an empty repository.
func Run(t *testing.T, newRepo func(t *testing.T) storage.Repository) {
	t.Run("PutAndGet", func(t *testing.T) {
		repo := newRepo(t)
		rec := record("encoded", 1)
		if err := repo.Put("ns", "a", rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := repo.Get("ns", "a")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Ver != rec.Ver || got.ID != rec.ID || got.Scheme != rec.Scheme || !bytes.Equal(got.Nonce, rec.Nonce) || !bytes.Equal(got.Encoded, rec.Encoded) || got.Version != rec.Version {
			t.Errorf("Get returned wrong record: %+v", got)
		}

		// Returned records are independent of the stored copy.
		got.Encoded[0] = 'X'
		got2, _ := repo.Get("ns", "a")
		if got2.Encoded[0] == 'X' {
			t.Error("repository should return independent records")
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get("missing", "a")
		if !errors.Is(err, storage.ErrNamespaceNotFound) {
			t.Errorf("expected ErrNamespaceNotFound, got %v", err)
		}

		repo.Put("ns", "a", record("x", 1))
		_, err = repo.Get("ns", "b")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := newRepo(t)
		repo.Put("ns", "b", record("x", 1))
		repo.Put("ns", "a", record("x", 1))
		repo.Put("other", "c", record("x", 1))

		names, err := repo.List("ns")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if !slices.Equal(names, []string{"a", "b"}) {
			t.Errorf("expected [a b], got %v", names)
		}

		names, err = repo.List("missing")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(names) != 0 {
			t.Errorf("expected no names for missing namespace, got %v", names)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		repo.Put("ns", "a", record("x", 1))
		repo.Put("ns", "b", record("x", 1))

		if err := repo.Delete("ns", "a"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get("ns", "a"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete("ns", "a"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
		if err := repo.Delete("missing", "a"); !errors.Is(err, storage.ErrNamespaceNotFound) {
			t.Errorf("expected ErrNamespaceNotFound, got %v", err)
		}

		// Removing the last record removes the namespace.
		if err := repo.Delete("ns", "b"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get("ns", "b"); !errors.Is(err, storage.ErrNamespaceNotFound) {
			t.Errorf("expected ErrNamespaceNotFound for emptied namespace, got %v", err)
		}
	})

	t.Run("PutCAS", func(t *testing.T) {
		repo := newRepo(t)

		if err := repo.PutCAS("ns", "a", 1, record("v1", 1)); !errors.Is(err, storage.ErrCASFailed) {
			t.Errorf("expected ErrCASFailed for non-zero version on missing record, got %v", err)
		}
		if err := repo.PutCAS("ns", "a", 0, record("v1", 1)); err != nil {
			t.Fatalf("create-only PutCAS failed: %v", err)
		}
		if err := repo.PutCAS("ns", "a", 0, record("v1", 1)); !errors.Is(err, storage.ErrCASFailed) {
			t.Errorf("expected ErrCASFailed for create-only on existing record, got %v", err)
		}
		if err := repo.PutCAS("ns", "a", 2, record("v2", 2)); !errors.Is(err, storage.ErrCASFailed) {
			t.Errorf("expected ErrCASFailed for version mismatch, got %v", err)
		}
		if err := repo.PutCAS("ns", "a", 1, record("v2", 2)); err != nil {
			t.Fatalf("PutCAS with matching version failed: %v", err)
		}

		got, err := repo.Get("ns", "a")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Version != 2 || string(got.Encoded) != "v2" {
			t.Errorf("expected version 2 record, got %+v", got)
		}
	})
}
