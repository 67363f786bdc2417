package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/syntax"
)

// FileInfo describes one .star file in the plugin directory, extracted
// statically without executing the file. Declared rule names are only
// visible when the declaration uses a literal name.
type FileInfo struct {
	Name      string   `json:"name"`      // Declared plugin name or file stem
	Path      string   `json:"path"`      // Absolute path to the .star file
	Rules     []string `json:"rules"`     // Statically visible rule names
	Functions []string `json:"functions"` // Public top-level function names
	Err       string   `json:"err,omitempty"`
}

// ScanDir statically inspects every .star file in dir. A missing
// directory yields an empty result, matching an unconfigured project. A
// file that fails to parse is reported through its Err field rather than
// aborting the scan.
func ScanDir(dir string) ([]*FileInfo, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access plugin directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugin path is not a directory: %s", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan plugin directory: %w", err)
	}

	var infos []*FileInfo
	for _, file := range files {
		content, err := os.ReadFile(file) //nolint:gosec // G304: path comes from the configured plugin directory
		if err != nil {
			infos = append(infos, &FileInfo{
				Name: fileStem(file),
				Path: file,
				Err:  err.Error(),
			})
			continue
		}
		infos = append(infos, ScanFile(file, content))
	}
	return infos, nil
}

// ScanFile statically parses one plugin file and extracts its declared
// name, rule names and public functions. It never executes the file.
func ScanFile(path string, content []byte) *FileInfo {
	info := &FileInfo{
		Name: fileStem(path),
		Path: path,
	}

	f, err := syntax.Parse(path, content, 0) //nolint:staticcheck // SA1019: will migrate to ParseOptions later
	if err != nil {
		info.Err = err.Error()
		return info
	}

	for _, stmt := range f.Stmts {
		switch st := stmt.(type) {
		case *syntax.DefStmt:
			if !strings.HasPrefix(st.Name.Name, "_") {
				info.Functions = append(info.Functions, st.Name.Name)
			}
		case *syntax.ExprStmt:
			call, ok := st.X.(*syntax.CallExpr)
			if !ok {
				continue
			}
			ident, ok := call.Fn.(*syntax.Ident)
			if !ok {
				continue
			}
			switch ident.Name {
			case "plugin":
				if name, ok := callArgString(call, "name"); ok {
					info.Name = name
				}
			case "rule":
				if name, ok := callArgString(call, "name"); ok {
					info.Rules = append(info.Rules, name)
				}
			}
		}
	}
	return info
}

// callArgString finds a string literal argument, either the named kwarg
// or the first positional argument.
func callArgString(call *syntax.CallExpr, kwarg string) (string, bool) {
	for _, arg := range call.Args {
		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			ident, ok := bin.X.(*syntax.Ident)
			if !ok || ident.Name != kwarg {
				continue
			}
			return literalString(bin.Y)
		}
	}
	if len(call.Args) > 0 {
		if _, named := call.Args[0].(*syntax.BinaryExpr); !named {
			return literalString(call.Args[0])
		}
	}
	return "", false
}

// literalString extracts the value of a string literal expression.
func literalString(expr syntax.Expr) (string, bool) {
	lit, ok := expr.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}

func fileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".star")
}
