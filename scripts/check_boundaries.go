// check_boundaries enforces the layering rules between bounded contexts.
//
//	go run ./scripts/check_boundaries.go
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "hanafiyah"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule limits what one layer of a context service may import.
type layerRule struct {
	name string
	// allowed lists extra import prefixes relative to the service root.
	allowed []string
	// shared lists allowed module-wide prefixes.
	shared []string
}

var layerRules = map[string]layerRule{
	"domain": {
		name:    "domain",
		allowed: []string{"/domain"},
	},
	"application": {
		name:    "application",
		allowed: []string{"/application", "/domain", "/ports"},
		shared:  []string{modulePath + "/contracts"},
	},
	"ports": {
		name:    "ports",
		allowed: []string{"/domain", "/ports"},
		shared:  []string{modulePath + "/contracts"},
	},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, which must be laid out as
// <root>/<context>/<service>/<layer>/....
func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}

		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		layer := ""
		if len(parts) > 3 {
			layer = parts[2]
		}
		violations = append(violations, validateFile(path, filepath.ToSlash(path), layer, servicePrefix)...)
		return nil
	})

	return violations
}

func validateFile(path string, display string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: display, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line
		report := func(rule string) {
			violations = append(violations, violation{File: display, Line: line, Import: importPath, Rule: rule})
		}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			report("cross-context imports are forbidden")
		}

		rule, ok := layerRules[layer]
		if !ok {
			continue
		}
		if strings.Contains(importPath, "/adapters/") || strings.HasSuffix(importPath, "/adapters") {
			report(rule.name + " must not import adapters")
		}
		if hasPrefix(importPath, modulePath+"/internal") {
			report(rule.name + " must not import runtime infrastructure")
		}
		if !isStdlib(importPath) && !isAllowed(importPath, rule.prefixes(servicePrefix)) {
			report(rule.name + " import is outside explicit allowlist")
		}
	}
	return violations
}

func (r layerRule) prefixes(servicePrefix string) []string {
	prefixes := make([]string, 0, len(r.allowed)+len(r.shared))
	for _, suffix := range r.allowed {
		prefixes = append(prefixes, servicePrefix+suffix)
	}
	return append(prefixes, r.shared...)
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

// isStdlib treats any import whose first element has no dot as standard library.
func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".") && first != modulePath
}
