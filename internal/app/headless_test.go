package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bethropolis/inkwell/internal/core/format"
)

func TestDump(t *testing.T) {
	path := writeFile(t, "doc.html", "<p>Hello</p>")
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"unchanged", nil, "<p>Hello</p>\n"},
		{"bold", []string{"bold"}, "<p><strong>Hello</strong></p>\n"},
		{"heading", []string{"h2"}, "<h2>Hello</h2>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := Dump(testConfig(), path, tt.tokens, &out); err != nil {
				t.Fatalf("Dump: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpUnknownCommand(t *testing.T) {
	path := writeFile(t, "doc.html", "<p>Hello</p>")
	err := Dump(testConfig(), path, []string{"sparkle"}, &bytes.Buffer{})
	if !errors.Is(err, format.ErrUnknownCommand) {
		t.Fatalf("got %v, want ErrUnknownCommand", err)
	}
}
