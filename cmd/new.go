package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/beekeeper-studio/vite-plugin/config"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [plugin-name]",
		Short: "Create a new plugin project",
		Long:  "Scaffold a plugin project with a manifest, a starter entrypoint, and a dev configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNew,
	}

	cmd.Flags().String("id", "", "Plugin id used for origin validation (defaults to the project name)")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	pluginID, _ := cmd.Flags().GetString("id")

	var projectName string
	if len(args) > 0 {
		projectName = args[0]
	} else {
		prompt := &survey.Input{
			Message: "Plugin name:",
			Default: "my-bks-plugin",
		}
		if err := survey.AskOne(prompt, &projectName); err != nil {
			return err
		}
	}

	if pluginID == "" {
		suggested := strings.ToLower(strings.ReplaceAll(projectName, " ", "-"))
		prompt := &survey.Input{
			Message: "Plugin id (used for plugin:// origin validation):",
			Default: suggested,
		}
		if err := survey.AskOne(prompt, &pluginID); err != nil {
			return err
		}
	}
	if !idPattern.MatchString(pluginID) {
		return fmt.Errorf("invalid plugin id '%s': use lowercase letters, digits, and dashes", pluginID)
	}

	projectDir := projectName
	if _, err := os.Stat(projectDir); err == nil {
		return fmt.Errorf("directory %s already exists", projectDir)
	}
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	manifest := map[string]string{
		"id":   pluginID,
		"name": projectName,
	}
	manifestData, _ := json.MarshalIndent(manifest, "", "  ")
	if err := os.WriteFile(filepath.Join(projectDir, "manifest.json"), append(manifestData, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest.json: %w", err)
	}

	cfg := config.PluginConfig{
		Name:        projectName,
		Port:        5173,
		Entrypoints: config.DefaultEntrypoints(),
	}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, config.DefaultFileName), cfgData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.DefaultFileName, err)
	}

	indexHTML := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>%s</title>
    <link rel="stylesheet" href="/style.css" />
  </head>
  <body>
    <h1>%s</h1>
    <script type="module" src="/main.js"></script>
  </body>
</html>
`, projectName, projectName)
	if err := os.WriteFile(filepath.Join(projectDir, "index.html"), []byte(indexHTML), 0644); err != nil {
		return fmt.Errorf("failed to write index.html: %w", err)
	}

	fmt.Printf("✅ Created plugin project '%s'\n", projectName)
	fmt.Printf("   cd %s && bks-vite dev\n", projectDir)
	return nil
}
