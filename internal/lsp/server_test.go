package lsp

import (
	"testing"

	"go.lsp.dev/protocol"

	"github.com/blueprint-gen/blueprint/internal/tooling"
)

func TestServerInitialization(t *testing.T) {
	server := NewServer()
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	if server.api == nil {
		t.Error("Server API is nil")
	}

	if server.logger == nil {
		t.Error("Server logger is nil")
	}

	caps := server.capabilities
	if caps.HoverProvider != true {
		t.Error("HoverProvider should be true")
	}

	if caps.DocumentSymbolProvider != true {
		t.Error("DocumentSymbolProvider should be true")
	}

	syncOptions, ok := caps.TextDocumentSync.(protocol.TextDocumentSyncOptions)
	if !ok {
		t.Fatalf("Expected TextDocumentSyncOptions, got %T", caps.TextDocumentSync)
	}

	if !syncOptions.OpenClose {
		t.Error("OpenClose should be true")
	}

	if syncOptions.Change != protocol.TextDocumentSyncKindFull {
		t.Errorf("Expected full document sync, got %v", syncOptions.Change)
	}
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    tooling.DiagnosticSeverity
		expected protocol.DiagnosticSeverity
	}{
		{
			name:     "Error severity",
			input:    tooling.DiagnosticSeverityError,
			expected: protocol.DiagnosticSeverityError,
		},
		{
			name:     "Warning severity",
			input:    tooling.DiagnosticSeverityWarning,
			expected: protocol.DiagnosticSeverityWarning,
		},
		{
			name:     "Info severity",
			input:    tooling.DiagnosticSeverityInfo,
			expected: protocol.DiagnosticSeverityInformation,
		},
		{
			name:     "Hint severity",
			input:    tooling.DiagnosticSeverityHint,
			expected: protocol.DiagnosticSeverityHint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertSeverity(tt.input)
			if result != tt.expected {
				t.Errorf("convertSeverity(%v): expected %v, got %v", tt.input, tt.expected, result)
			}
		})
	}
}

func TestStdRWC(t *testing.T) {
	// Test that stdrwc struct exists and implements expected methods
	rwc := stdrwc{}

	// Test Read method exists (we won't actually read from stdin)
	_ = rwc.Read

	// Test Write method exists
	_ = rwc.Write

	// Test Close method exists
	_ = rwc.Close
}
