package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// rule forbids packages under from importing anything under the listed
// internal prefixes. allowOnly, when set, inverts it: every internal import
// must be under one of those prefixes.
type rule struct {
	name      string
	from      []string
	forbid    []string
	allowOnly []string
}

var rules = []rule{
	{
		name:   "platform and observability stay below the application",
		from:   []string{"platform/", "observability/"},
		forbid: []string{"modules/", "data/", "clients/", "services", "http", "app"},
	},
	{
		name:   "modules reach storage and providers only through interfaces",
		from:   []string{"modules/"},
		forbid: []string{"data/", "clients/", "services", "http", "app"},
	},
	{
		name:   "services do not know about transport",
		from:   []string{"services/"},
		forbid: []string{"http", "app"},
	},
	{
		name:   "handlers go through services and modules",
		from:   []string{"http/"},
		forbid: []string{"data/", "clients/", "app"},
	},
	{
		name:      "domain is a leaf",
		from:      []string{"domain/"},
		allowOnly: []string{"domain/"},
	},
	{
		name: "extract, curriculum and schedule are pure",
		from: []string{
			"modules/planning/extract/",
			"modules/planning/curriculum/",
			"modules/planning/schedule/",
		},
		allowOnly: []string{
			"domain/",
			"modules/planning/extract",
			"modules/planning/curriculum",
			"modules/planning/schedule",
		},
	},
}

func TestImportBoundaries(t *testing.T) {
	root, module := moduleRoot(t)
	internal := module + "/internal/"

	var violations []string
	for _, imp := range internalImports(t, root, internal) {
		for _, r := range rules {
			if !hasAnyPrefix(imp.from, r.from) {
				continue
			}
			if r.allowOnly != nil && !hasAnyPrefix(imp.to, r.allowOnly) {
				violations = append(violations, fmt.Sprintf("- %s imports internal/%s (%s)", imp.file, imp.to, r.name))
			}
			if hasAnyPrefix(imp.to, r.forbid) {
				violations = append(violations, fmt.Sprintf("- %s imports internal/%s (%s)", imp.file, imp.to, r.name))
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestRulesMatchExistingPackages(t *testing.T) {
	root, _ := moduleRoot(t)
	for _, r := range rules {
		for _, from := range r.from {
			dir := filepath.Join(root, "internal", filepath.FromSlash(strings.TrimSuffix(from, "/")))
			if _, err := os.Stat(dir); err != nil {
				t.Fatalf("rule %q names internal/%s which does not exist", r.name, from)
			}
		}
	}
}

// internalImport is one import of a module-internal package, both sides
// relative to internal/.
type internalImport struct {
	file string
	from string
	to   string
}

func internalImports(t *testing.T, root, internalPrefix string) []internalImport {
	t.Helper()
	base := filepath.Join(root, "internal")
	fset := token.NewFileSet()
	var out []internalImport
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(base, path)
		rel = filepath.ToSlash(rel)
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, internalPrefix) {
				continue
			}
			out = append(out, internalImport{
				file: "internal/" + rel,
				from: rel,
				to:   strings.TrimPrefix(imp, internalPrefix),
			})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal/: %v", err)
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// moduleRoot walks up from the working directory to go.mod and returns the
// directory and the declared module path.
func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			for _, line := range strings.Split(string(data), "\n") {
				if mod, ok := strings.CutPrefix(strings.TrimSpace(line), "module "); ok && strings.TrimSpace(mod) != "" {
					return dir, strings.TrimSpace(mod)
				}
			}
			t.Fatalf("no module line in %s", filepath.Join(dir, "go.mod"))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
}
