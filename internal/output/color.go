package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/temirov/pfs/internal/types"
)

const invalidColorModeMessage = "invalid color value '%s'; accepted values: auto, always, never"

// ResolveColor decides whether raw output written to writer is colored.
// In auto mode color is used only for terminals and only when the environment
// does not disable it (NO_COLOR, TERM=dumb).
func ResolveColor(mode string, writer io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case types.ColorAlways:
		return true, nil
	case types.ColorNever:
		return false, nil
	case types.ColorAuto, "":
		if color.NoColor {
			return false, nil
		}
		file, isFile := writer.(*os.File)
		if !isFile {
			return false, nil
		}
		return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()), nil
	default:
		return false, fmt.Errorf(invalidColorModeMessage, mode)
	}
}
