package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beekeeper-studio/vite-plugin/config"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or validate the plugin configuration",
		RunE:  runConfig,
	}

	cmd.Flags().Bool("validate", false, "Validate the configuration file and exit")
	cmd.Flags().StringP("config", "c", config.DefaultFileName, "Configuration file path")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	validate, _ := cmd.Flags().GetBool("validate")
	configPath, _ := cmd.Flags().GetString("config")

	if validate {
		if err := config.ValidateConfigFile(configPath); err != nil {
			return err
		}
		fmt.Printf("✅ Configuration is valid: %s\n", configPath)
		return nil
	}

	cm := config.NewConfigManager(config.ConfigLoadOptions{
		Path:              configPath,
		AllowMissing:      true,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             true,
	})
	cfg, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	absPath, _ := filepath.Abs(configPath)

	var lines []string
	lines = append(lines, "📋 Configuration Summary")
	lines = append(lines, fmt.Sprintf("   Path: %s", absPath))
	lines = append(lines, fmt.Sprintf("   Plugin: %s", cfg.Name))
	lines = append(lines, fmt.Sprintf("   Port: %d", cfg.Port))
	for _, entry := range cfg.Entrypoints {
		lines = append(lines, fmt.Sprintf("   Entrypoint: %s -> %s", entry.Input, entry.Output))
	}
	if cfg.DevCmd != "" {
		lines = append(lines, fmt.Sprintf("   Dev command: %s", cfg.DevCmd))
	}

	fmt.Println(strings.Join(lines, "\n"))
	return nil
}
