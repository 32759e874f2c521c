// Package memory provides a thread-safe in-memory implementation of storage.Repository.
package memory

import (
	"sort"
	"sync"

	"github.com/jmcleod/datawrapper/storage"
)

// Repository is a thread-safe in-memory implementation of storage.Repository.
// Suitable for testing, demos, and single-process use cases.
type Repository struct {
	mu   sync.RWMutex
	data map[string]map[string]*storage.Record
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository creates a new empty in-memory Repository.
func NewRepository() *Repository {
	return &Repository{data: make(map[string]map[string]*storage.Record)}
}

func (r *Repository) Put(namespace, name string, record *storage.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(namespace, name, record)
	return nil
}

func (r *Repository) putLocked(namespace, name string, record *storage.Record) {
	if _, ok := r.data[namespace]; !ok {
		r.data[namespace] = make(map[string]*storage.Record)
	}
	r.data[namespace][name] = record.Clone()
}

func (r *Repository) Get(namespace, name string) (*storage.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, err := r.getLocked(namespace, name)
	if err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

func (r *Repository) getLocked(namespace, name string) (*storage.Record, error) {
	records, ok := r.data[namespace]
	if !ok {
		return nil, storage.ErrNamespaceNotFound
	}
	rec, ok := records[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rec, nil
}

// List returns the record names in namespace in sorted order.
func (r *Repository) List(namespace string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name := range r.data[namespace] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repository) Delete(namespace, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.getLocked(namespace, name); err != nil {
		return err
	}
	delete(r.data[namespace], name)
	if len(r.data[namespace]) == 0 {
		delete(r.data, namespace)
	}
	return nil
}

func (r *Repository) PutCAS(namespace, name string, expectedVersion uint64, record *storage.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, err := r.getLocked(namespace, name)
	if err != nil {
		if expectedVersion != 0 {
			return storage.ErrCASFailed
		}
		r.putLocked(namespace, name, record)
		return nil
	}
	if existing.Version != expectedVersion || expectedVersion == 0 {
		return storage.ErrCASFailed
	}
	r.putLocked(namespace, name, record)
	return nil
}
