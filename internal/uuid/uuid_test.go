package uuid

import (
	"testing"
)

func TestNew(t *testing.T) {
	id1 := New()
	id2 := New()

	if len(id1) == 0 {
		t.Error("UUID should not be empty")
	}

	if id1 == id2 {
		t.Error("UUIDs should be unique")
	}

	if !Valid(id1) {
		t.Errorf("New returned unparseable UUID %q", id1)
	}
}

func TestValid(t *testing.T) {
	if Valid("") {
		t.Error("empty string should not be a valid UUID")
	}
	if Valid("not-a-uuid") {
		t.Error("garbage should not be a valid UUID")
	}
	if !Valid("6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("canonical UUID should be valid")
	}
}
