package publish

import "github.com/vk/shapec/internal/compiler"

// Payload is the message emitted for one compiled document.
type Payload struct {
	Document string
	SVG      string
	Error    *compiler.CompileError
}

// NewPayload builds the payload for a compile outcome.
func NewPayload(name, svg string, err error) Payload {
	res := compiler.NewResult(svg, err)
	return Payload{Document: name, SVG: res.SVG, Error: res.Error}
}

// Map converts p into the plain value sent on the wire.
func (p Payload) Map() map[string]any {
	out := map[string]any{
		"document": p.Document,
		"svg":      nil,
		"error":    nil,
	}
	if p.Error != nil {
		out["error"] = map[string]any{
			"line":    p.Error.Line,
			"column":  p.Error.Column,
			"message": p.Error.Message,
		}
	} else {
		out["svg"] = p.SVG
	}
	return out
}
