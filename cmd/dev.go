package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/beekeeper-studio/vite-plugin/config"
	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
	"github.com/beekeeper-studio/vite-plugin/internal/devserver"
	"github.com/beekeeper-studio/vite-plugin/plugin"
)

func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the plugin dev server",
		Long:  "Serve the plugin project with live-reload entrypoints, origin guarding, and file watching",
		RunE:  runDev,
	}

	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().IntP("port", "p", 0, "Dev server port (overrides config)")
	cmd.Flags().StringP("config", "c", config.DefaultFileName, "Configuration file path")

	return cmd
}

func runDev(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	portFlag, _ := cmd.Flags().GetInt("port")
	configPath, _ := cmd.Flags().GetString("config")

	devlog.Debug = debug

	// Local overrides, same layering as the rest of the toolchain
	if err := godotenv.Load(); err == nil {
		devlog.Debugf("Loaded environment from .env")
	}

	cm := config.NewConfigManager(config.ConfigLoadOptions{
		Path:              configPath,
		AllowMissing:      true,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             false,
	})
	cfg, err := cm.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if portFlag > 0 {
		cfg.Port = portFlag
	} else if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil && p > 0 {
			cfg.Port = p
		}
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}

	devlog.Logf(devlog.Green, "🚀 Starting dev environment for '%s'", cfg.Name)

	p := plugin.New(plugin.Options{Entrypoints: cfg.Entrypoints})
	p.ConfigResolved(plugin.ResolvedConfig{
		Root:    root,
		Command: plugin.CommandServe,
		Server:  plugin.ServerConfig{Port: cfg.Port},
	})

	srv := devserver.New(root, cfg.Port)
	if err := p.ConfigureServer(srv); err != nil {
		return fmt.Errorf("failed to configure dev server: %w", err)
	}

	if cfg.DevCmd != "" {
		runner := devserver.NewTaskRunner(cfg.DevCmd)
		if err := runner.Start(); err != nil {
			devlog.Warnf("Could not start dev command: %v", err)
		} else {
			defer runner.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	devlog.Logf(devlog.Yellow, "Press Ctrl+C to stop")
	return srv.Start(ctx)
}
