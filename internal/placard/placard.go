// Package placard renders a stand-in SVG for a document that failed to
// compile, so a page embedding the document shows the error instead of a
// stale or missing image.
package placard

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/vk/shapec/internal/compiler"
)

const (
	Width = 640

	// MaxDetailLines caps how many message lines are drawn.
	MaxDetailLines = 8

	margin     = 16
	lineHeight = 20
	headerY    = 36

	frameStyle  = "fill:#fff5f5;stroke:#d32f2f;stroke-width:4"
	titleStyle  = "font-family:monospace;font-size:18px;font-weight:bold;fill:#b71c1c"
	detailStyle = "font-family:monospace;font-size:14px;fill:#212121"
)

// Height returns the placard height for ce.
func Height(ce compiler.CompileError) int {
	return headerY + margin + lineHeight*len(detailLines(ce))
}

// Write renders the placard for the document named title.
func Write(w io.Writer, title string, ce compiler.CompileError) error {
	ew := &errWriter{w: w}
	lines := detailLines(ce)

	canvas := svg.New(ew)
	canvas.Start(Width, Height(ce))
	canvas.Title(fmt.Sprintf("%s failed to compile", title))
	canvas.Rect(0, 0, Width, Height(ce), frameStyle)
	canvas.Text(margin, headerY-8, title, titleStyle)
	for i, line := range lines {
		canvas.Text(margin, headerY+margin+i*lineHeight, line, detailStyle)
	}
	canvas.End()

	return ew.err
}

// detailLines puts the position in front of the first message line.
func detailLines(ce compiler.CompileError) []string {
	lines := strings.Split(ce.Message, "\n")
	lines[0] = fmt.Sprintf("%d:%d: %s", ce.Line, ce.Column, lines[0])
	if len(lines) > MaxDetailLines {
		hidden := len(lines) - MaxDetailLines + 1
		lines = append(lines[:MaxDetailLines-1], fmt.Sprintf("... %d more lines", hidden))
	}
	return lines
}

// errWriter remembers the first write error, since svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
