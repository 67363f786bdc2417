package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/cli/output"
	"github.com/huxxhu/oxc/internal/plugin"
)

// NewPluginsCommand creates the plugins command group.
func NewPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect and check Starlark plugins",
		Long: `Inspect the plugin directory and check that plugins load.

Plugins are .star files that declare lint rules through the rule()
builtin. The list subcommand inspects files statically without running
them; check actually loads plugins and reports the load outcome the
same way a lint session would see it.`,
	}

	cmd.AddCommand(newPluginsListCommand())
	cmd.AddCommand(newPluginsCheckCommand())
	cmd.AddCommand(newPluginsReplCommand())

	return cmd
}

func newPluginsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plugin files in the plugin directory",
		Long: `List every .star file in the plugin directory with its declared
plugin name, rule names and public functions.

Files are parsed, not executed, so rule names registered under computed
names do not appear. A file that fails to parse is listed with its parse
error instead of aborting the listing.`,
		Example: `  # List plugins in the configured directory
  oxc plugins list

  # Machine-readable listing
  oxc plugins list -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPluginsList(cmd)
		},
	}
}

func runPluginsList(cmd *cobra.Command) error {
	c := NewCommandContext(cmd)
	r := c.Renderer
	dir := c.Cfg.Plugins.Dir

	infos, err := plugin.ScanDir(dir)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(pluginListOutput{
			Dir:     dir,
			Count:   len(infos),
			Plugins: infos,
		})
	case output.ModeMarkdown:
		return renderPluginListMarkdown(r, dir, infos)
	default:
		return renderPluginListText(r, dir, infos)
	}
}

// pluginListOutput is the JSON output structure for the plugin listing.
type pluginListOutput struct {
	Dir     string             `json:"dir"`
	Count   int                `json:"count"`
	Plugins []*plugin.FileInfo `json:"plugins"`
}

func renderPluginListText(r *output.Renderer, dir string, infos []*plugin.FileInfo) error {
	styles := r.Styles()

	if len(infos) == 0 {
		r.Printf("No plugins found in %s\n", dir)
		return nil
	}

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Plugins in %s (%d files)", dir, len(infos))))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Rules", "Functions", "File"})
	for _, info := range infos {
		rules := strings.Join(info.Rules, ", ")
		if info.Err != "" {
			rules = styles.Error.Render("parse error")
		}
		t.AppendRow(table.Row{
			info.Name,
			rules,
			strings.Join(info.Functions, ", "),
			filepath.Base(info.Path),
		})
	}
	t.Render()

	for _, info := range infos {
		if info.Err != "" {
			r.Printf("\n%s %s: %s\n", styles.Error.Render("error"), filepath.Base(info.Path), info.Err)
		}
	}
	r.Println("")

	return nil
}

func renderPluginListMarkdown(r *output.Renderer, dir string, infos []*plugin.FileInfo) error {
	r.Println("# Plugins")
	r.Println("")
	r.Println(output.FormatKeyValue("Directory", dir))
	r.Println("")

	for _, info := range infos {
		if info.Err != "" {
			r.Printf("- **%s** (`%s`): parse error: %s\n", info.Name, filepath.Base(info.Path), info.Err)
			continue
		}
		rules := strings.Join(info.Rules, ", ")
		if rules == "" {
			rules = "none"
		}
		r.Printf("- **%s** (`%s`) - rules: %s\n", info.Name, filepath.Base(info.Path), rules)
	}
	if len(infos) == 0 {
		r.Println("No plugins found.")
	}
	r.Println("")

	return nil
}

func newPluginsCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [specifiers...]",
		Short: "Load plugins and report the outcome",
		Long: `Load the given plugin specifiers and report each outcome.

Without arguments, checks the plugins.specifiers list from the
configuration. Each specifier is loaded exactly once; failures are
reported with the same message a lint session would record.`,
		Example: `  # Check the configured plugins
  oxc plugins check

  # Check specific specifiers
  oxc plugins check ./rules/no-debugger.star style

  # Machine-readable outcomes
  oxc plugins check -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsCheck(cmd, args)
		},
	}
}

// pluginCheckOutcome pairs a specifier with its load result. The result
// marshals in the bridge wire form, so JSON output shows exactly what a
// host engine receives.
type pluginCheckOutcome struct {
	Specifier string        `json:"specifier"`
	Result    plugin.Result `json:"result"`
}

func runPluginsCheck(cmd *cobra.Command, args []string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	specifiers := args
	if len(specifiers) == 0 {
		specifiers = c.Cfg.Plugins.Specifiers
	}
	if len(specifiers) == 0 {
		return fmt.Errorf("no plugins to check: pass specifiers or set plugins.specifiers in .oxc.yaml")
	}

	loader := plugin.NewLoader(c.Cfg.Plugins.Dir, c.Logger)
	registry := plugin.NewRegistry(loader, c.Logger)

	outcomes := make([]pluginCheckOutcome, 0, len(specifiers))
	failed := 0
	for _, spec := range specifiers {
		result := registry.GetOrLoad(cmd.Context(), spec)
		if !result.OK() {
			failed++
		}
		outcomes = append(outcomes, pluginCheckOutcome{Specifier: spec, Result: result})
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(outcomes); err != nil {
			return err
		}
	} else {
		styles := r.Styles()
		for _, o := range outcomes {
			if o.Result.OK() {
				r.Printf("  %s  %s\n", styles.Success.Render("ok"), o.Specifier)
			} else {
				r.Printf("  %s  %s: %s\n", styles.Error.Render("failed"), o.Specifier, o.Result.Message())
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d plugins failed to load", failed, len(specifiers))
	}
	if r.EffectiveMode() != output.ModeJSON {
		r.Success(fmt.Sprintf("All %d plugins loaded", len(specifiers)))
	}
	return nil
}
