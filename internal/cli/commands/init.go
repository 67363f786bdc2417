package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new oxc project",
		Long: `Initialize a new oxc project with default configuration.

This creates:
  - .oxc.yaml configuration file
  - plugins/ directory with an example plugin
  - grammars/ directory with sample grammar documents`,
		Example: `  # Initialize in the current directory
  oxc init

  # Initialize in a new directory
  oxc init my-project

  # Force overwrite existing files
  oxc init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.OutputMode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, ".oxc.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf(".oxc.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate("project", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("project")
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "success", "")
	}

	r.Header(2, "Plugins")
	for _, f := range groups["plugins"] {
		r.StatusLine(f, "success", "")
	}

	r.Header(2, "Grammars")
	for _, f := range groups["grammars"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("Oxc project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Declare rules in plugins/*.star")
	r.Println("  2. Run 'oxc run' to load the configured plugins")
	r.Println("  3. Run 'oxc grammar check' to reconcile the sample grammars")
	r.Println("  4. Run 'oxc doctor' to verify the project setup")

	return nil
}
