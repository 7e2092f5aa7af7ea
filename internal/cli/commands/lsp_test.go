package commands

import (
	"strings"
	"testing"
)

func TestNewLSPCommand(t *testing.T) {
	cmd := NewLSPCommand()

	if cmd.Use != "lsp" {
		t.Errorf("expected Use to be 'lsp', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if !strings.Contains(cmd.Long, "stdin/stdout") {
		t.Error("expected Long description to mention the stdio transport")
	}

	if cmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}
