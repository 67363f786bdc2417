// Package main generates the markdown reference for the oxc CLI and the
// builtin grammar overrides, by introspecting the live cobra tree and
// override set rather than parsing source.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=overrides -outdir=docs/grammar
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, overrides, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// targets maps each -gen value to its generator and default docs subdir.
var targets = map[string]struct {
	subdir   string
	generate func(outDir string) error
}{
	"cli":       {"cli", generateCLIDocs},
	"overrides": {"grammar", generateOverrideDocs},
}

func main() {
	flag.Parse()

	if *genFlag != "all" {
		if _, ok := targets[*genFlag]; !ok {
			log.Fatalf("unknown -gen value: %s (use: cli, overrides, all)", *genFlag)
		}
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	for _, name := range []string{"cli", "overrides"} {
		if *genFlag != "all" && *genFlag != name {
			continue
		}
		target := targets[name]
		outDir := *outDirFlag
		if outDir == "" || *genFlag == "all" {
			outDir = filepath.Join(projectRoot, "docs", target.subdir)
		}
		if err := target.generate(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", name, err)
		}
	}

	log.Println("Done!")
}

// findProjectRoot walks up from the working directory to the directory
// holding go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
