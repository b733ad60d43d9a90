// Package config loads pfs defaults from global and local configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/pfs/internal/commands"
	"github.com/temirov/pfs/internal/types"
	"github.com/temirov/pfs/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree"`
}

// TreeConfiguration defines the listing defaults. Unset fields inherit from
// the configuration merged before them and finally from built-in defaults.
type TreeConfiguration struct {
	Depth             *int     `mapstructure:"depth"`
	Indent            string   `mapstructure:"indent"`
	Format            string   `mapstructure:"format"`
	Color             string   `mapstructure:"color"`
	Copy              *bool    `mapstructure:"copy"`
	ExcludeExtensions []string `mapstructure:"exclude_extensions"`
}

// TreeSettings is a fully resolved TreeConfiguration.
type TreeSettings struct {
	Depth             int
	Indent            string
	Format            string
	Color             string
	Copy              bool
	ExcludeExtensions []string
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Tree.ExcludeExtensions = utils.NormalizeExtensions(merged.Tree.ExcludeExtensions)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName)
}

// loadConfigurationFromPath reads one file. A missing file yields an empty
// configuration unless it was requested explicitly.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.Indent != "" {
		result.Indent = override.Indent
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if len(override.ExcludeExtensions) > 0 {
		result.ExcludeExtensions = append([]string{}, override.ExcludeExtensions...)
	}
	return result
}

// Resolve fills unset fields with built-in defaults.
func (config TreeConfiguration) Resolve() TreeSettings {
	settings := TreeSettings{
		Depth:             commands.DefaultMaxDepth,
		Indent:            commands.DefaultIndentUnit,
		Format:            types.FormatRaw,
		Color:             types.ColorAuto,
		ExcludeExtensions: commands.DefaultExcludedExtensions(),
	}
	if config.Depth != nil {
		settings.Depth = *config.Depth
	}
	if config.Indent != "" {
		settings.Indent = config.Indent
	}
	if config.Format != "" {
		settings.Format = config.Format
	}
	if config.Color != "" {
		settings.Color = config.Color
	}
	if config.Copy != nil {
		settings.Copy = *config.Copy
	}
	if len(config.ExcludeExtensions) > 0 {
		settings.ExcludeExtensions = append([]string{}, config.ExcludeExtensions...)
	}
	return settings
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
