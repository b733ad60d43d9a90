package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pfs/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.pfs.yaml, or to ~/.pfs/config.yaml with --global.
An existing file is kept unless --force is given. To list a directory named "init" run pfs ./init.`
	globalFlagName        = "global"
	forceFlagName         = "force"
	globalFlagDescription = "write the global configuration under the home directory"
	forceFlagDescription  = "overwrite an existing configuration file"
	initWrittenTemplate   = "configuration written to %s\n"
	debugInitMessage      = "initializing configuration"
)

func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			dependencies.Logger.Debug(debugInitMessage, zap.String("target", string(target)), zap.Bool("force", force))
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			_, writeError := fmt.Fprintf(dependencies.Stdout, initWrittenTemplate, writtenPath)
			return writeError
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
