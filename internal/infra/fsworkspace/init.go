// Package fsworkspace scaffolds avie workspaces on the local filesystem.
package fsworkspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/project-avie/avie/internal/app/template"
	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/ports"
)

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init scaffolds the workspace directories, avie.yaml and the starter
// catalog. An existing workspace is only overwritten with force; without it
// a second init fails rather than clobbering edited files.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	marker := filepath.Join(root, "avie.yaml")
	if !force {
		if _, err := os.Stat(marker); err == nil {
			return &domain.OpError{
				Op:   "fsworkspace.init",
				Kind: domain.KindInvalidConfig,
				Path: root,
				Err:  fmt.Errorf("workspace already initialized (use force to overwrite)"),
			}
		}
	}

	dirs := []string{
		filepath.Join(root, "vehicles"),
		filepath.Join(root, "missions"),
		filepath.Join(root, "cases"),
		filepath.Join(root, "scenarios"),
		filepath.Join(root, "studies"),
		filepath.Join(root, "runs"),
		filepath.Join(root, ".avie", "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return initErr(d, err)
		}
	}

	if err := ensureGitignore(root); err != nil {
		return initErr(root, err)
	}
	if err := writeStateGitignore(root); err != nil {
		return initErr(root, err)
	}

	name := spec.Name
	if name == "" {
		name = filepath.Base(root)
	}
	vars := map[string]string{
		"WORKSPACE_NAME": name,
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return initErr(p, err)
		}

		rendered, err := template.RenderString(string(b), vars)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return initErr(dst, err)
		}
		if err := os.WriteFile(dst, []byte(rendered), 0o644); err != nil {
			return initErr(dst, err)
		}
		return nil
	})
}

func initErr(path string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}

// ensureGitignore creates or non-destructively extends the workspace
// .gitignore so run artifacts and local state stay out of version control.
func ensureGitignore(root string) error {
	const header = "# avie"
	entries := []string{
		"runs/",
		".avie/",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}

// writeStateGitignore shields .avie state (index, logs) even in workspaces
// whose root .gitignore was hand-pruned.
func writeStateGitignore(root string) error {
	path := filepath.Join(root, ".avie", ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte("*\n!.gitignore\n"), 0o644)
}
