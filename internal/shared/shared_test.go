package shared

import (
	"testing"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "Hello"},
		{"HELLO", "Hello"},
		{"service orders", "Service Orders"},
		{"", ""},
		{"123abc", "123Abc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Capitalize(tt.input)
			if result != tt.expected {
				t.Errorf("Capitalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestHashBytes(t *testing.T) {
	got := HashBytes([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("HashBytes(abc) = %q, want %q", got, want)
	}
	if HashBytes(nil) == got {
		t.Error("expected different hashes for different input")
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"line1\r\nline2", "line1\nline2"},
		{"line1\rline2", "line1\nline2"},
		{"line1\nline2", "line1\nline2"},
		{"mixed\r\n\r\n", "mixed\n\n"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeLineEndings(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLineEndings(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFlattenWhitespace(t *testing.T) {
	in := "one\ntwo\tthree\r"
	got := FlattenWhitespace(in)
	if got != "one two three " {
		t.Errorf("FlattenWhitespace(%q) = %q", in, got)
	}
	if len(got) != len(in) {
		t.Errorf("length changed from %d to %d", len(in), len(got))
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "file", "files"); got != "file" {
		t.Errorf("Pluralize(1) = %q", got)
	}
	if got := Pluralize(0, "file", "files"); got != "files" {
		t.Errorf("Pluralize(0) = %q", got)
	}
}

func TestItoa(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{9, "9"},
		{10, "10"},
		{12345, "12345"},
		{-1, "-1"},
		{-12345, "-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := Itoa(tt.input)
			if result != tt.expected {
				t.Errorf("Itoa(%d) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPtr(t *testing.T) {
	for _, tt := range []string{"hello", "", "#22c55e"} {
		t.Run(tt, func(t *testing.T) {
			if got := Ptr(tt); got == nil || *got != tt {
				t.Errorf("Ptr(%q) = %v", tt, got)
			}
		})
	}
	if b := Ptr(true); !*b {
		t.Error("Ptr(true) = false")
	}
}
