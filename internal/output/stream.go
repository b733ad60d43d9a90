package output

import (
	"fmt"
	"io"

	"github.com/temirov/pfs/internal/commands"
	"github.com/temirov/pfs/internal/types"
)

const invalidFormatMessage = "invalid format value '%s'"

// StreamRenderer consumes tree events as the walk produces them.
// Flush is called once after a successful walk.
type StreamRenderer interface {
	Handle(event commands.TreeEvent) error
	Flush() error
}

// NewStreamRenderer returns the renderer for format writing to stdout.
// colorEnabled only affects the raw format.
func NewStreamRenderer(format string, stdout io.Writer, colorEnabled bool) (StreamRenderer, error) {
	switch format {
	case types.FormatRaw:
		return NewRawStreamRenderer(stdout, colorEnabled), nil
	case types.FormatJSON, types.FormatXML, types.FormatYAML:
		return NewStructuredStreamRenderer(stdout, format), nil
	default:
		return nil, fmt.Errorf(invalidFormatMessage, format)
	}
}
