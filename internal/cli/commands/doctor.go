package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/cli/config"
	"github.com/huxxhu/oxc/internal/cli/output"
	"github.com/huxxhu/oxc/internal/plugin"
	"github.com/huxxhu/oxc/internal/state"
	"github.com/huxxhu/oxc/pkg/estree"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project setup",
		Long: `Check that the project is ready for lint sessions and grammar
reconciliation.

The doctor verifies the configuration file, the plugin directory, the
grammar documents, the override entries, the report path, and the state
database, and reports each check with a status.`,
		Example: `  # Check the current project
  oxc doctor

  # Machine-readable report
  oxc doctor -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks     []DoctorCheck `json:"checks"`
	IssueCount int           `json:"issue_count"`
	Healthy    bool          `json:"healthy"`
}

// DoctorCheck is a single setup check result.
type DoctorCheck struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	Status string `json:"status"` // "pass", "warn", "error"
	Detail string `json:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command) error {
	c := NewCommandContext(cmd)

	out := buildDoctorOutput(c.Cfg, c.Logger)

	switch c.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return c.Renderer.JSON(out)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(c.Renderer, out)
	default:
		return renderDoctorText(c.Renderer, out)
	}
}

func buildDoctorOutput(cfg *config.Config, logger *slog.Logger) *DoctorOutput {
	var checks []DoctorCheck
	checks = append(checks, checkConfig(cfg)...)
	checks = append(checks, checkPlugins(cfg)...)
	checks = append(checks, checkGrammar(cfg)...)
	checks = append(checks, checkReportPath(cfg))
	checks = append(checks, checkStateDB(cfg, logger))

	issues := 0
	for _, check := range checks {
		if check.Status != "pass" {
			issues++
		}
	}
	return &DoctorOutput{
		Checks:     checks,
		IssueCount: issues,
		Healthy:    issues == 0,
	}
}

func checkConfig(cfg *config.Config) []DoctorCheck {
	var checks []DoctorCheck

	if file := config.GetConfigFileUsed(); file != "" {
		checks = append(checks, DoctorCheck{
			Name: "config file", Group: "config", Status: "pass", Detail: file,
		})
	} else {
		checks = append(checks, DoctorCheck{
			Name: "config file", Group: "config", Status: "warn",
			Detail: "no .oxc.yaml found, using defaults (run 'oxc init')",
		})
	}

	checks = append(checks, DoctorCheck{
		Name: "project root", Group: "config", Status: "pass", Detail: cfg.ProjectRoot,
	})
	return checks
}

func checkPlugins(cfg *config.Config) []DoctorCheck {
	var checks []DoctorCheck

	infos, err := plugin.ScanDir(cfg.Plugins.Dir)
	switch {
	case err != nil:
		checks = append(checks, DoctorCheck{
			Name: "plugin directory", Group: "plugins", Status: "error", Detail: err.Error(),
		})
	case infos == nil:
		checks = append(checks, DoctorCheck{
			Name: "plugin directory", Group: "plugins", Status: "warn",
			Detail: fmt.Sprintf("%s does not exist", cfg.Plugins.Dir),
		})
	default:
		parseErrors := 0
		for _, info := range infos {
			if info.Err != "" {
				parseErrors++
			}
		}
		status := "pass"
		detail := fmt.Sprintf("%d files", len(infos))
		if parseErrors > 0 {
			status = "error"
			detail = fmt.Sprintf("%d files, %d with parse errors", len(infos), parseErrors)
		}
		checks = append(checks, DoctorCheck{
			Name: "plugin directory", Group: "plugins", Status: status, Detail: detail,
		})
	}

	loader := plugin.NewLoader(cfg.Plugins.Dir, nil)
	for _, spec := range cfg.Plugins.Specifiers {
		path := loader.Resolve(spec)
		if _, err := os.Stat(path); err != nil {
			checks = append(checks, DoctorCheck{
				Name: "specifier " + spec, Group: "plugins", Status: "error",
				Detail: fmt.Sprintf("resolves to %s, which does not exist", path),
			})
			continue
		}
		checks = append(checks, DoctorCheck{
			Name: "specifier " + spec, Group: "plugins", Status: "pass", Detail: path,
		})
	}
	return checks
}

func checkGrammar(cfg *config.Config) []DoctorCheck {
	var checks []DoctorCheck

	loadDoc := func(name, path string) *estree.Table {
		if path == "" {
			checks = append(checks, DoctorCheck{
				Name: name + " grammar", Group: "grammar", Status: "warn",
				Detail: "not configured",
			})
			return nil
		}
		table, err := estree.LoadTable(path, name)
		if err != nil {
			checks = append(checks, DoctorCheck{
				Name: name + " grammar", Group: "grammar", Status: "error", Detail: err.Error(),
			})
			return nil
		}
		checks = append(checks, DoctorCheck{
			Name: name + " grammar", Group: "grammar", Status: "pass",
			Detail: fmt.Sprintf("%d node types", table.Len()),
		})
		return table
	}

	loadDoc("reference", cfg.Grammar.Reference)
	community := loadDoc("community", cfg.Grammar.Community)

	overrides, err := loadOverrideSet(cfg.Grammar.BuiltinOverrides, cfg.Grammar.Overrides)
	if err != nil {
		checks = append(checks, DoctorCheck{
			Name: "overrides", Group: "grammar", Status: "error", Detail: err.Error(),
		})
		return checks
	}
	if community != nil {
		if _, err := overrides.Apply(community); err != nil {
			checks = append(checks, DoctorCheck{
				Name: "overrides", Group: "grammar", Status: "error", Detail: err.Error(),
			})
			return checks
		}
	}
	checks = append(checks, DoctorCheck{
		Name: "overrides", Group: "grammar", Status: "pass",
		Detail: fmt.Sprintf("%d entries", overrides.Len()),
	})
	return checks
}

func checkReportPath(cfg *config.Config) DoctorCheck {
	dir := filepath.Dir(cfg.Report.Path)
	if info, err := os.Stat(dir); err != nil {
		return DoctorCheck{
			Name: "report path", Group: "report", Status: "warn",
			Detail: fmt.Sprintf("%s will be created on the first check", dir),
		}
	} else if !info.IsDir() {
		return DoctorCheck{
			Name: "report path", Group: "report", Status: "error",
			Detail: fmt.Sprintf("%s is not a directory", dir),
		}
	}
	return DoctorCheck{
		Name: "report path", Group: "report", Status: "pass", Detail: cfg.Report.Path,
	}
}

func checkStateDB(cfg *config.Config, logger *slog.Logger) DoctorCheck {
	if cfg.State.Path == "" {
		return DoctorCheck{
			Name: "state database", Group: "state", Status: "warn",
			Detail: "run history disabled (state.path is empty)",
		}
	}

	store := state.NewSQLiteStore(nil)
	if err := store.Open(cfg.State.Path); err != nil {
		return DoctorCheck{
			Name: "state database", Group: "state", Status: "error", Detail: err.Error(),
		}
	}
	defer func() {
		if err := store.Close(); err != nil && logger != nil {
			logger.Warn("failed to close state database", "error", err)
		}
	}()

	version, err := store.SchemaVersion()
	if err != nil {
		return DoctorCheck{
			Name: "state database", Group: "state", Status: "error", Detail: err.Error(),
		}
	}
	return DoctorCheck{
		Name: "state database", Group: "state", Status: "pass",
		Detail: fmt.Sprintf("%s (schema version %d)", cfg.State.Path, version),
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Oxc Project Check"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render(titleCaser.String(currentGroup)))
		}
		r.StatusLine(check.Name, doctorStatus(check.Status), check.Detail)
	}
	r.Println("")

	if out.Healthy {
		r.Success("Project is ready")
	} else {
		r.Warning(fmt.Sprintf("%d checks need attention", out.IssueCount))
	}
	return nil
}

// doctorStatus maps check status to StatusLine status names.
func doctorStatus(status string) string {
	switch status {
	case "pass":
		return "success"
	case "warn":
		return "warning"
	default:
		return "error"
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Oxc Project Check")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("## " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}
		r.Printf("- **[%s]** %s", status, check.Name)
		if check.Detail != "" {
			r.Printf(": %s", check.Detail)
		}
		r.Println("")
	}
	r.Println("")

	if out.Healthy {
		r.Println("Project is ready.")
	} else {
		r.Printf("%d checks need attention.\n", out.IssueCount)
	}
	return nil
}
