package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_WriteLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"${name}", modeTemplate},
		{"vars", modeCtrl},
		{"${hostname()}", modeTemplate},
	} {
		if err := h.Write(e.Line, e.Mode); err != nil {
			t.Fatalf("write %q: %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "T:${name}\nC:vars\nT:${hostname()}\n"; string(data) != want {
		t.Errorf("expected file %q, got %q", want, data)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", loaded.Len())
	}

	if e, _ := loaded.Entry(1); e.Line != "vars" || e.Mode != modeCtrl {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestHistory_Dedup(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)
	h := NewHistory(path)

	_ = h.Write("a", modeTemplate)
	_ = h.Write("b", modeTemplate)
	_ = h.Write("b", modeTemplate) // repeat of last: ignored
	_ = h.Write("a", modeTemplate) // moved to end
	_ = h.Write("a", modeCtrl)     // same line, other mode: kept

	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "T:b\nT:a\nC:a\n"; string(data) != want {
		t.Errorf("expected file %q, got %q", want, data)
	}
}

func TestHistory_LegacyAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	if err := os.WriteFile(path, []byte("plain\n\n  \nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}

	if e, _ := h.Entry(0); e.Line != "plain" || e.Mode != modeTemplate {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestHistory_MissingFileAndMemory(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("expected missing file to load cleanly, got %v", err)
	}

	mem := NewHistory("")
	if err := mem.Write("x", modeTemplate); err != nil || mem.Len() != 1 {
		t.Errorf("expected in-memory write, got len %d err %v", mem.Len(), err)
	}

	if err := mem.Write("   ", modeTemplate); err != nil || mem.Len() != 1 {
		t.Errorf("expected blank line to be ignored, got len %d", mem.Len())
	}

	if _, err := mem.Entry(5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
