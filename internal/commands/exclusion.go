package commands

import (
	"strings"

	"github.com/temirov/pfs/internal/utils"
)

const (
	hiddenEntryPrefix  = "."
	extensionSeparator = "."
)

// DefaultExcludedExtensions returns the extensions hidden when nothing else is configured.
func DefaultExcludedExtensions() []string {
	return []string{".md", ".pyc", ".css", ".scss", ".ico"}
}

// ExclusionRules decides which entries are left out of a listing.
// Entries whose name starts with a dot are always excluded. The zero value
// excludes hidden entries only.
type ExclusionRules struct {
	extensions   []string
	extensionSet map[string]struct{}
}

// NewExclusionRules builds rules for the given extensions. Extensions without
// a leading dot get one, and duplicates are dropped.
func NewExclusionRules(extensions []string) ExclusionRules {
	normalized := utils.NormalizeExtensions(extensions)
	extensionSet := make(map[string]struct{}, len(normalized))
	for _, extension := range normalized {
		extensionSet[extension] = struct{}{}
	}
	return ExclusionRules{extensions: normalized, extensionSet: extensionSet}
}

// DefaultExclusionRules builds rules for DefaultExcludedExtensions.
func DefaultExclusionRules() ExclusionRules {
	return NewExclusionRules(DefaultExcludedExtensions())
}

// Extensions returns a copy of the normalized excluded extensions in configuration order.
func (rules ExclusionRules) Extensions() []string {
	return append([]string(nil), rules.extensions...)
}

// IsExcluded reports whether an entry name is hidden from output. Only the
// name is inspected. A name is excluded when it starts with a dot, or when the
// suffix starting at its first dot or at its last dot is an excluded extension,
// so both "bundle.min.css" (.css) and "archive.tar.gz" (.tar.gz) can match.
func (rules ExclusionRules) IsExcluded(name string) bool {
	if strings.HasPrefix(name, hiddenEntryPrefix) {
		return true
	}
	firstSeparator := strings.Index(name, extensionSeparator)
	if firstSeparator < 0 {
		return false
	}
	if rules.hasExtension(name[firstSeparator:]) {
		return true
	}
	lastSeparator := strings.LastIndex(name, extensionSeparator)
	return rules.hasExtension(name[lastSeparator:])
}

func (rules ExclusionRules) hasExtension(suffix string) bool {
	_, excluded := rules.extensionSet[suffix]
	return excluded
}
