package components

import (
	"strings"
	"testing"
)

func TestOptions(t *testing.T) {
	o := NewOptions("Mode", []Option{{ID: "file", Label: "File"}, {ID: "url", Label: "URL"}, {ID: "x", Label: "X"}})
	if o.Value() != "file" {
		t.Errorf("Expected first item selected, got %s", o.Value())
	}

	o.Prev()
	if o.Value() != "x" {
		t.Errorf("Expected Prev to wrap, got %s", o.Value())
	}
	o.Next()
	o.Next()
	if o.Value() != "url" {
		t.Errorf("Expected url, got %s", o.Value())
	}

	if o.Select("missing") {
		t.Error("Expected Select to fail for unknown id")
	}
	if !o.Select("file") || o.Value() != "file" {
		t.Error("Expected Select to pick file")
	}

	o.SetFocused(true)
	out := o.Render()
	if !strings.Contains(out, "Mode:") || !strings.Contains(out, "● File") || !strings.Contains(out, "○ URL") {
		t.Errorf("Unexpected render %q", out)
	}

	empty := NewOptions("", nil)
	empty.Next()
	if empty.Value() != "" {
		t.Error("Expected empty value for no items")
	}
}

func TestTextInput(t *testing.T) {
	in := NewTextInput("URL", "https://", 10)
	if !strings.Contains(in.Render(), "https://") {
		t.Error("Expected placeholder when empty and unfocused")
	}

	if in.Backspace() || in.Clear() || in.Insert(nil) {
		t.Error("Expected no change on empty field")
	}
	if !in.Insert([]rune("héllo")) || in.Value() != "héllo" {
		t.Errorf("Unexpected value %q", in.Value())
	}
	if !in.Backspace() || in.Value() != "héll" {
		t.Errorf("Expected rune-wise backspace, got %q", in.Value())
	}

	in.SetValue("https://example.com/image.png")
	out := in.Render()
	if !strings.Contains(out, "…") || !strings.HasSuffix(out, "age.png") {
		t.Errorf("Expected truncated tail, got %q", out)
	}

	if !in.Clear() || in.Value() != "" {
		t.Error("Expected Clear to empty the field")
	}
}

func TestSpinner(t *testing.T) {
	s := NewSpinner()
	for range len(spinnerFrames) + 1 {
		s.Tick()
	}
	if s.Frame != 1 {
		t.Errorf("Expected frame to wrap to 1, got %d", s.Frame)
	}

	s.Reset()
	if s.Frame != 0 {
		t.Error("Expected Reset to rewind the frame")
	}

	s.SetLabel("Extracting text...")
	if out := s.Render(); !strings.Contains(out, "Extracting text...") || !strings.Contains(out, "(0s)") {
		t.Errorf("Unexpected render %q", out)
	}
}
