package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/pfs/internal/commands"
	"github.com/temirov/pfs/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader = xml.Header

	errorRenderFormat = "rendering %s output: %w"
)

// RenderJSON marshals the tree as indented JSON.
func RenderJSON(node *types.TreeOutputNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(node, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderXML marshals the tree as an XML document.
func RenderXML(node *types.TreeOutputNode) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(node, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// RenderYAML marshals the tree as a YAML document.
func RenderYAML(node *types.TreeOutputNode) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(node); encodeError != nil {
		return "", encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return buffer.String(), nil
}

type structuredStreamRenderer struct {
	stdout    io.Writer
	format    string
	assembler commands.TreeAssembler
}

// NewStructuredStreamRenderer collects events into a tree and writes it in
// the json, xml or yaml format on Flush.
func NewStructuredStreamRenderer(stdout io.Writer, format string) StreamRenderer {
	return &structuredStreamRenderer{stdout: stdout, format: format}
}

func (renderer *structuredStreamRenderer) Handle(event commands.TreeEvent) error {
	return renderer.assembler.Handle(event)
}

func (renderer *structuredStreamRenderer) Flush() error {
	root := renderer.assembler.Root()
	if renderer.stdout == nil || root == nil {
		return nil
	}
	var rendered string
	var renderError error
	switch renderer.format {
	case types.FormatJSON:
		rendered, renderError = RenderJSON(root)
	case types.FormatXML:
		rendered, renderError = RenderXML(root)
	case types.FormatYAML:
		rendered, renderError = RenderYAML(root)
	default:
		return fmt.Errorf(invalidFormatMessage, renderer.format)
	}
	if renderError != nil {
		return fmt.Errorf(errorRenderFormat, renderer.format, renderError)
	}
	if _, writeError := io.WriteString(renderer.stdout, rendered); writeError != nil {
		return writeError
	}
	if len(rendered) == 0 || rendered[len(rendered)-1] != '\n' {
		_, writeError := io.WriteString(renderer.stdout, "\n")
		return writeError
	}
	return nil
}
