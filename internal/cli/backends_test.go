package cli

import (
	"bytes"
	"strings"
	"testing"

	"whoowns/internal/model"
)

// mockBackend implements backend.Backend for testing purposes
type mockBackend struct {
	name string
	file string
}

func (m *mockBackend) Name() string     { return m.name }
func (m *mockBackend) FileName() string { return m.file }
func (m *mockBackend) Parse(path string, content []byte) (*model.Declaration, error) {
	return &model.Declaration{}, nil
}

func TestPrintBackend(t *testing.T) {
	var buf bytes.Buffer
	printBackend(&buf, &mockBackend{name: "mock-owners", file: "MOCK_OWNERS"})

	out := buf.String()
	for _, want := range []string{"BACKEND: mock-owners", "Declaration file: MOCK_OWNERS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
