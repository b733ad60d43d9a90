// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pfs/internal/commands"
	"github.com/temirov/pfs/internal/config"
	"github.com/temirov/pfs/internal/output"
	"github.com/temirov/pfs/internal/services/clipboard"
	"github.com/temirov/pfs/internal/types"
	"github.com/temirov/pfs/internal/utils"
)

const (
	depthFlagName        = "depth"
	depthFlagShorthand   = "d"
	excludeFlagName      = "exclude-ext"
	excludeFlagShorthand = "x"
	indentFlagName       = "indent"
	formatFlagName       = "format"
	colorFlagName        = "color"
	copyFlagName         = "copy"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"

	rootUse              = "pfs <path>"
	rootShortDescription = "print a directory tree"
	rootLongDescription  = `pfs prints the directory tree below a path, one entry per line.
Hidden entries and files with excluded extensions are skipped. Directories deeper
than --depth are shown but not listed. Use --format to select raw, json, xml or yaml output.`
	rootUsageExample = `  # Print three levels below the current directory
  pfs .

  # Print two levels as JSON, hiding log files instead of the default set
  pfs --depth 2 --format json -x .log ./src

  # Print the listing and copy it to the clipboard
  pfs --copy ~/projects`

	depthFlagDescription   = "number of directory levels to expand below the root"
	excludeFlagDescription = "excluded file extension, repeatable; replaces the configured set"
	indentFlagDescription  = "indentation unit repeated once per level"
	formatFlagDescription  = "output format"
	colorFlagDescription   = "colorize directory names"
	copyFlagDescription    = "also copy the output to the system clipboard"
	configFlagDescription  = "configuration file used instead of ./" + utils.LocalConfigFileName
	verboseFlagDescription = "enable debug logging"
	versionFlagDescription = "display application version"

	versionTemplate = "pfs version: %s\n"

	errorLoadConfigurationFormat = "loading configuration: %w"
	errorCopyClipboardMessage    = "copying output to clipboard failed"
	debugResolvedOptionsMessage  = "resolved tree options"
)

var (
	supportedFormats    = []string{types.FormatRaw, types.FormatJSON, types.FormatXML, types.FormatYAML}
	supportedColorModes = []string{types.ColorAuto, types.ColorAlways, types.ColorNever}
)

// Dependencies carries the process resources the commands write to.
type Dependencies struct {
	Stdout   io.Writer
	Copier   clipboard.Copier
	Logger   *zap.Logger
	LogLevel zap.AtomicLevel
}

// Execute runs the pfs application with os.Args.
func Execute(logger *zap.Logger, logLevel zap.AtomicLevel) error {
	rootCommand := NewRootCommand(Dependencies{
		Stdout:   os.Stdout,
		Copier:   clipboard.NewService(),
		Logger:   logger,
		LogLevel: logLevel,
	})
	return rootCommand.Execute()
}

// treeFlags stores the values bound to the root command flags.
type treeFlags struct {
	depth             int
	excludeExtensions []string
	indent            string
	format            string
	color             string
	copyOutput        bool
	configPath        string
	verbose           bool
	showVersion       bool
}

// NewRootCommand builds the root Cobra command wired to dependencies.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = io.Discard
	}
	if dependencies.LogLevel == (zap.AtomicLevel{}) {
		dependencies.LogLevel = zap.NewAtomicLevel()
	}

	var flags treeFlags
	defaults := config.TreeConfiguration{}.Resolve()

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(command, arguments)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, writeError := fmt.Fprintf(dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return writeError
			}
			if flags.verbose {
				dependencies.LogLevel.SetLevel(zap.DebugLevel)
			}
			settings, settingsError := resolveTreeSettings(command, flags)
			if settingsError != nil {
				return settingsError
			}
			return runTree(dependencies, arguments[0], settings)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.IntVarP(&flags.depth, depthFlagName, depthFlagShorthand, defaults.Depth, depthFlagDescription)
	flagSet.StringArrayVarP(&flags.excludeExtensions, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	flagSet.StringVar(&flags.indent, indentFlagName, defaults.Indent, indentFlagDescription)
	registerEnumFlag(flagSet, &flags.format, formatFlagName, defaults.Format, supportedFormats, formatFlagDescription)
	registerEnumFlag(flagSet, &flags.color, colorFlagName, defaults.Color, supportedColorModes, colorFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyOutput, copyFlagName, defaults.Copy, copyFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &flags.verbose, verboseFlagName, false, verboseFlagDescription)
	flagSet.BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// resolveTreeSettings layers explicitly set flags over the loaded configuration.
func resolveTreeSettings(command *cobra.Command, flags treeFlags) (config.TreeSettings, error) {
	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: flags.configPath})
	if loadError != nil {
		return config.TreeSettings{}, fmt.Errorf(errorLoadConfigurationFormat, loadError)
	}
	settings := loaded.Tree.Resolve()
	settings.Format = strings.ToLower(strings.TrimSpace(settings.Format))

	changed := command.Flags().Changed
	if changed(depthFlagName) {
		settings.Depth = flags.depth
	}
	if changed(excludeFlagName) {
		settings.ExcludeExtensions = utils.NormalizeExtensions(flags.excludeExtensions)
	}
	if changed(indentFlagName) {
		settings.Indent = flags.indent
	}
	if changed(formatFlagName) {
		settings.Format = flags.format
	}
	if changed(colorFlagName) {
		settings.Color = flags.color
	}
	if changed(copyFlagName) {
		settings.Copy = flags.copyOutput
	}
	return settings, nil
}

// runTree validates the root and every option before the first line is
// written, then streams the listing. Structured output is flushed only when
// the walk completes.
func runTree(dependencies Dependencies, rootArgument string, settings config.TreeSettings) error {
	validatedRoot, validationError := commands.ValidateRoot(rootArgument)
	if validationError != nil {
		return validationError
	}

	colorEnabled, colorError := output.ResolveColor(settings.Color, dependencies.Stdout)
	if colorError != nil {
		return colorError
	}
	renderers := make([]output.StreamRenderer, 0, 2)
	primaryRenderer, rendererError := output.NewStreamRenderer(settings.Format, dependencies.Stdout, colorEnabled)
	if rendererError != nil {
		return rendererError
	}
	renderers = append(renderers, primaryRenderer)

	var clipboardBuffer bytes.Buffer
	if settings.Copy {
		clipboardRenderer, clipboardRendererError := output.NewStreamRenderer(settings.Format, &clipboardBuffer, false)
		if clipboardRendererError != nil {
			return clipboardRendererError
		}
		renderers = append(renderers, clipboardRenderer)
	}

	options := commands.TreeStreamOptions{
		Root:       validatedRoot.AbsolutePath,
		MaxDepth:   settings.Depth,
		IndentUnit: settings.Indent,
		Rules:      commands.NewExclusionRules(settings.ExcludeExtensions),
	}
	dependencies.Logger.Debug(debugResolvedOptionsMessage,
		zap.String("root", options.Root),
		zap.Int("depth", options.MaxDepth),
		zap.String("indent", options.IndentUnit),
		zap.String("format", settings.Format),
		zap.Bool("color", colorEnabled),
		zap.Bool("copy", settings.Copy),
		zap.Strings("exclude_extensions", options.Rules.Extensions()),
	)

	handle := func(event commands.TreeEvent) error {
		for _, renderer := range renderers {
			if handleError := renderer.Handle(event); handleError != nil {
				return handleError
			}
		}
		return nil
	}
	if streamError := commands.StreamTree(options, handle); streamError != nil {
		return streamError
	}
	for _, renderer := range renderers {
		if flushError := renderer.Flush(); flushError != nil {
			return flushError
		}
	}

	if settings.Copy && dependencies.Copier != nil {
		if copyError := dependencies.Copier.Copy(clipboardBuffer.String()); copyError != nil {
			dependencies.Logger.Error(errorCopyClipboardMessage, zap.Error(copyError))
		}
	}
	return nil
}
