package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/blueprint-gen/blueprint/internal/tooling"
)

// handleTextDocumentHover handles hover requests
func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse hover params")
	}

	uri := string(params.TextDocument.URI)
	pos := tooling.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	}

	hover, err := s.api.GetHover(uri, pos)
	if err != nil {
		s.logger.Printf("Error getting hover: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "Failed to get hover information")
	}

	if hover == nil {
		return reply(ctx, nil, nil)
	}

	result := protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hover.Contents,
		},
		Range: &protocol.Range{
			Start: protocol.Position{
				Line:      uint32(hover.Range.Start.Line),
				Character: uint32(hover.Range.Start.Character),
			},
			End: protocol.Position{
				Line:      uint32(hover.Range.End.Line),
				Character: uint32(hover.Range.End.Character),
			},
		},
	}

	return reply(ctx, result, nil)
}

// handleTextDocumentDocumentSymbol handles document symbol requests
func (s *Server) handleTextDocumentDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse document symbol params")
	}

	uri := string(params.TextDocument.URI)

	symbols, err := s.api.GetDocumentSymbols(uri)
	if err != nil {
		s.logger.Printf("Error getting document symbols: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "Failed to get document symbols")
	}

	// Convert to LSP document symbols
	lspSymbols := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		symRange := protocol.Range{
			Start: protocol.Position{
				Line:      uint32(sym.Range.Start.Line),
				Character: uint32(sym.Range.Start.Character),
			},
			End: protocol.Position{
				Line:      uint32(sym.Range.End.Line),
				Character: uint32(sym.Range.End.Character),
			},
		}

		lspSymbols = append(lspSymbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           convertSymbolKind(sym.Kind),
			Detail:         sym.Detail,
			Range:          symRange,
			SelectionRange: symRange,
		})
	}

	return reply(ctx, lspSymbols, nil)
}

// convertSymbolKind converts a tooling symbol kind to its LSP counterpart
func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolKindEntity:
		return protocol.SymbolKindClass
	case tooling.SymbolKindEnum:
		return protocol.SymbolKindEnum
	case tooling.SymbolKindField:
		return protocol.SymbolKindField
	case tooling.SymbolKindEnumValue:
		return protocol.SymbolKindEnumMember
	case tooling.SymbolKindRelationship:
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindObject
	}
}
