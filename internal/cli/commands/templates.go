package commands

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// copyTemplate copies an embedded template directory to the target path.
// It handles special file renames (e.g., "oxc.yaml" -> ".oxc.yaml").
func copyTemplate(templateName, targetDir string, force bool) error {
	root := filepath.Join("templates", templateName)

	return fs.WalkDir(templateFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		targetPath := filepath.Join(targetDir, renameSpecialFiles(relPath))

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0750)
		}

		// Skip existing files unless forced
		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil
			}
		}

		content, err := templateFS.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(targetPath, content, 0600)
	})
}

// renameSpecialFiles handles files that need renaming (dotfiles cannot be
// embedded under their real names).
func renameSpecialFiles(path string) string {
	base := filepath.Base(path)
	dir := filepath.Dir(path)

	switch base {
	case "oxc.yaml":
		return filepath.Join(dir, ".oxc.yaml")
	case "gitignore":
		return filepath.Join(dir, ".gitignore")
	default:
		return path
	}
}

// listTemplateFiles returns all files in a template for display purposes.
func listTemplateFiles(templateName string) ([]string, error) {
	var files []string
	root := filepath.Join("templates", templateName)

	err := fs.WalkDir(templateFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			relPath, _ := filepath.Rel(root, path)
			files = append(files, renameSpecialFiles(relPath))
		}
		return nil
	})

	return files, err
}

// groupTemplateFiles groups files by category for display.
func groupTemplateFiles(files []string) map[string][]string {
	groups := map[string][]string{
		"config":   {},
		"plugins":  {},
		"grammars": {},
	}

	for _, f := range files {
		switch {
		case strings.HasPrefix(f, "plugins/") || strings.HasPrefix(f, "plugins\\"):
			groups["plugins"] = append(groups["plugins"], f)
		case strings.HasPrefix(f, "grammars/") || strings.HasPrefix(f, "grammars\\"):
			groups["grammars"] = append(groups["grammars"], f)
		default:
			groups["config"] = append(groups["config"], f)
		}
	}

	return groups
}
