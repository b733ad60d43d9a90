package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/pfs/internal/commands"
)

type rawStreamRenderer struct {
	stdout         io.Writer
	directoryColor *color.Color
}

// NewRawStreamRenderer writes one line per event as soon as it arrives: the
// absolute root path, then prefix plus name for every entry. Directory names
// are highlighted when colorEnabled is set.
func NewRawStreamRenderer(stdout io.Writer, colorEnabled bool) StreamRenderer {
	directoryColor := color.New(color.FgBlue, color.Bold)
	if colorEnabled {
		directoryColor.EnableColor()
	} else {
		directoryColor.DisableColor()
	}
	return &rawStreamRenderer{stdout: stdout, directoryColor: directoryColor}
}

func (renderer *rawStreamRenderer) Handle(event commands.TreeEvent) error {
	if renderer.stdout == nil || event.Entry == nil {
		return nil
	}
	entry := event.Entry
	var writeError error
	switch event.Kind {
	case commands.TreeEventRoot:
		_, writeError = fmt.Fprintln(renderer.stdout, renderer.directoryColor.Sprint(entry.Path))
	case commands.TreeEventEnterDir:
		_, writeError = fmt.Fprintln(renderer.stdout, entry.Prefix+renderer.directoryColor.Sprint(entry.Name))
	case commands.TreeEventFile:
		_, writeError = fmt.Fprintln(renderer.stdout, entry.Prefix+entry.Name)
	}
	return writeError
}

func (renderer *rawStreamRenderer) Flush() error {
	return nil
}
