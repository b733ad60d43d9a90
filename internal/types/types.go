// Package types defines every cross‑package data structure used by the pfs CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidatedPath is an absolute root directory that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
}

// TreeOutputNode represents a node of a directory tree returned for structured formats.
type TreeOutputNode struct {
	XMLName  xml.Name          `json:"-" xml:"node" yaml:"-"`
	Path     string            `json:"path" xml:"path" yaml:"path"`
	Name     string            `json:"name" xml:"name" yaml:"name"`
	Type     string            `json:"type" xml:"type" yaml:"type"`
	Depth    int               `json:"depth" xml:"depth" yaml:"depth"`
	Expanded bool              `json:"expanded,omitempty" xml:"expanded,omitempty" yaml:"expanded,omitempty"`
	Children []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty" yaml:"children,omitempty"`
}
