// Package yamlcatalog loads workspace entities (vehicles, missions, cases,
// scenarios, studies) from YAML files under the workspace catalog
// directories.
package yamlcatalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/ports"
	"github.com/project-avie/avie/internal/units"
	"gopkg.in/yaml.v3"
)

// Catalog resolves entity names against one workspace root. It implements
// every catalog port.
type Catalog struct {
	root  string
	paths domain.PathsConfig
}

type Option func(*Catalog)

// WithPaths overrides the catalog directory layout, normally from avie.yaml.
func WithPaths(p domain.PathsConfig) Option {
	return func(c *Catalog) { c.paths = p }
}

func New(root string, opts ...Option) *Catalog {
	c := &Catalog{
		root:  root,
		paths: domain.DefaultConfig().Paths,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Catalog = (*Catalog)(nil)

// looksLikePath reports whether the argument names a file rather than a
// catalog entry.
func looksLikePath(s string) bool {
	return strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml") ||
		strings.Contains(s, string(filepath.Separator))
}

// resolve turns a name-or-path into a file path. Names are looked up as
// <dir>/<name>.yaml, then <dir>/<name>.yml, then by the name: header of the
// files in dir. Two files claiming the same name is an error.
func (c *Catalog) resolve(op, dir, nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty name"),
		}
	}

	if looksLikePath(nameOrPath) {
		return filepath.Clean(nameOrPath), nil
	}

	base := filepath.Join(c.root, dir)
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(base, nameOrPath+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// Fall back to the name: header of each file in the directory.
	var matches []string
	entries, err := os.ReadDir(base)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || !isYAML(e.Name()) {
				continue
			}
			p := filepath.Join(base, e.Name())
			h, _ := readHeader(p)
			if strings.EqualFold(h.Name, nameOrPath) {
				matches = append(matches, p)
			}
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Path: filepath.Join(base, nameOrPath+".yaml"),
			Err:  fmt.Errorf("%q: %w", nameOrPath, domain.ErrNotFound),
		}
	default:
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Path: base,
			Err:  fmt.Errorf("name %q is ambiguous: %s", nameOrPath, strings.Join(matches, ", ")),
		}
	}
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// header is the common front matter peeked at for listings and name lookup.
type header struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Vehicle     string `yaml:"vehicle"`
	Mission     string `yaml:"mission"`
	Case        string `yaml:"case"`
}

func readHeader(path string) (header, error) {
	var h header
	b, err := os.ReadFile(path)
	if err != nil {
		return h, err
	}
	if err := yaml.Unmarshal(b, &h); err != nil {
		return h, err
	}
	return h, nil
}

// listHeaders scans a catalog directory and returns one header per YAML
// file, sorted by name. Files without a name: field list under their
// filename stem.
func (c *Catalog) listHeaders(op, dir string) ([]header, []string, error) {
	base := filepath.Join(c.root, dir)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Path: base,
			Err:  err,
		}
	}

	var headers []header
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		p := filepath.Join(base, e.Name())
		h, _ := readHeader(p)
		if strings.TrimSpace(h.Name) == "" {
			h.Name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		headers = append(headers, h)
		paths = append(paths, p)
	}

	sort.Sort(&headerSort{headers, paths})
	return headers, paths, nil
}

type headerSort struct {
	h []header
	p []string
}

func (s *headerSort) Len() int           { return len(s.h) }
func (s *headerSort) Less(i, j int) bool { return s.h[i].Name < s.h[j].Name }
func (s *headerSort) Swap(i, j int) {
	s.h[i], s.h[j] = s.h[j], s.h[i]
	s.p[i], s.p[j] = s.p[j], s.p[i]
}

// readYAML loads and unmarshals one entity file into dst.
func readYAML(op, path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	if err := yaml.Unmarshal(b, dst); err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

// mapParams converts a YAML parameter block to SI domain params.
func mapParams(in map[string]units.Quantity) domain.Params {
	if len(in) == 0 {
		return nil
	}
	out := make(domain.Params, len(in))
	for k, v := range in {
		out[k] = v.SI()
	}
	return out
}

func invalidField(op, path, field, msg string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
