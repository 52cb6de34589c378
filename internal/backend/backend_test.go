package backend

import (
	"strings"
	"testing"

	"whoowns/internal/model"
)

type stubBackend struct {
	name string
	file string
}

func (b stubBackend) Name() string     { return b.name }
func (b stubBackend) FileName() string { return b.file }
func (b stubBackend) Parse(path string, content []byte) (*model.Declaration, error) {
	return &model.Declaration{}, nil
}

func TestRegisterAndGet(t *testing.T) {
	Register(stubBackend{name: "stub-a", file: "OWNERS_A"})
	Register(stubBackend{name: "stub-b", file: "OWNERS_B"})

	b, err := Get("stub-a")
	if err != nil {
		t.Fatalf("Get(stub-a): %v", err)
	}
	if b.FileName() != "OWNERS_A" {
		t.Fatalf("want OWNERS_A, got %q", b.FileName())
	}
}

func TestGetUnknownListsAvailable(t *testing.T) {
	Register(stubBackend{name: "stub-known", file: "OWNERS_K"})

	_, err := Get("nope")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), `unknown backend "nope"`) {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "stub-known") {
		t.Fatalf("error should list available backends: %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	Register(stubBackend{name: "stub-dup", file: "X"})
	Register(stubBackend{name: "stub-dup", file: "X"})
}

func TestListSorted(t *testing.T) {
	Register(stubBackend{name: "stub-z", file: "Z"})
	Register(stubBackend{name: "stub-0", file: "0"})

	all := List()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name() > all[i].Name() {
			t.Fatalf("List not sorted: %q before %q", all[i-1].Name(), all[i].Name())
		}
	}
}
