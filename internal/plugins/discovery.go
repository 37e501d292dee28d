// Package plugins discovers plugin points and plugins declared by installed apps and
// reconciles them with the persisted registry.
package plugins

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	yamlManifest = "plugins.yaml"
	tomlManifest = "plugins.toml"
)

// Manifest is the per-app declaration file
type Manifest struct {
	App     string       `yaml:"app" toml:"app"`
	Points  []PointSpec  `yaml:"points" toml:"points"`
	Plugins []PluginSpec `yaml:"plugins" toml:"plugins"`
}

type PointSpec struct {
	Label string `yaml:"label" toml:"label"`
	Index int32  `yaml:"index" toml:"index"`
}

type PluginSpec struct {
	Label    string `yaml:"label" toml:"label"`
	Point    string `yaml:"point" toml:"point"`
	Index    int32  `yaml:"index" toml:"index"`
	Template string `yaml:"template" toml:"template"`
	Required bool   `yaml:"required" toml:"required"`
}

type DeclaredPoint struct {
	Label string
	App   string
	Index int32
}

type DeclaredPlugin struct {
	Point    string
	Label    string
	App      string
	Template string
	Index    int32
	Required bool
}

// Key identifies a plugin across points
func (p DeclaredPlugin) Key() string { return pluginKey(p.Point, p.Label) }

func pluginKey(point, label string) string { return point + "/" + label }

// Declared is the outcome of discovery. Problems aggregates non-fatal discovery
// errors; the declarations that survived are still usable.
type Declared struct {
	Points   []DeclaredPoint
	Plugins  []DeclaredPlugin
	Problems error
}

type appManifest struct {
	dir      string
	manifest Manifest
}

// Discover reads the manifest of every app directory under manifestDir. Only a failure
// to read manifestDir itself is returned as an error.
func Discover(manifestDir string, templateDirs []string) (*Declared, error) {
	entries, err := os.ReadDir(manifestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest dir %s: %w", manifestDir, err)
	}

	var problems *multierror.Error
	var apps []appManifest
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(manifestDir, e.Name())
		m, found, err := readManifest(dir)
		if err != nil {
			problems = multierror.Append(problems, err)
			continue
		}
		if !found {
			continue
		}
		if m.App == "" {
			m.App = e.Name()
		}
		apps = append(apps, appManifest{dir: dir, manifest: m})
	}

	declared := &Declared{}
	points := make(map[string]DeclaredPoint)
	for _, app := range apps {
		for _, p := range app.manifest.Points {
			if p.Label == "" {
				problems = multierror.Append(problems, fmt.Errorf("app %s: plugin point without label", app.manifest.App))
				continue
			}
			if prev, ok := points[p.Label]; ok {
				problems = multierror.Append(problems, fmt.Errorf("app %s: plugin point %q already declared by app %s", app.manifest.App, p.Label, prev.App))
				continue
			}
			dp := DeclaredPoint{Label: p.Label, App: app.manifest.App, Index: p.Index}
			points[p.Label] = dp
			declared.Points = append(declared.Points, dp)
		}
	}

	seen := make(map[string]bool)
	for _, app := range apps {
		for _, p := range app.manifest.Plugins {
			if p.Label == "" {
				problems = multierror.Append(problems, fmt.Errorf("app %s: plugin without label", app.manifest.App))
				continue
			}
			if _, ok := points[p.Point]; !ok {
				problems = multierror.Append(problems, fmt.Errorf("app %s: plugin %q names undeclared point %q", app.manifest.App, p.Label, p.Point))
				continue
			}
			key := pluginKey(p.Point, p.Label)
			if seen[key] {
				problems = multierror.Append(problems, fmt.Errorf("app %s: plugin %q already declared for point %q", app.manifest.App, p.Label, p.Point))
				continue
			}

			template := p.Template
			if template == "" {
				template = DefaultTemplate(app.manifest.App, p.Point, p.Label)
			}
			if !resolveTemplate(template, templateDirs, app.dir) {
				problems = multierror.Append(problems, fmt.Errorf("app %s: template %s for plugin %q not found", app.manifest.App, template, p.Label))
				continue
			}

			seen[key] = true
			declared.Plugins = append(declared.Plugins, DeclaredPlugin{
				Point:    p.Point,
				Label:    p.Label,
				App:      app.manifest.App,
				Template: template,
				Index:    p.Index,
				Required: p.Required,
			})
		}
	}

	declared.Problems = problems.ErrorOrNil()
	return declared, nil
}

// DefaultTemplate is the template path used when a plugin names none
func DefaultTemplate(app, point, label string) string {
	return path.Join(app, "plugins", point, label+".html")
}

func readManifest(dir string) (Manifest, bool, error) {
	var m Manifest

	data, err := os.ReadFile(filepath.Join(dir, yamlManifest))
	if err == nil {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return m, false, fmt.Errorf("failed to parse %s: %w", filepath.Join(dir, yamlManifest), err)
		}
		return m, true, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return m, false, err
	}

	if _, err := toml.DecodeFile(filepath.Join(dir, tomlManifest), &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, false, nil
		}
		return m, false, fmt.Errorf("failed to parse %s: %w", filepath.Join(dir, tomlManifest), err)
	}
	return m, true, nil
}

// resolveTemplate looks for the template in the configured dirs, then in the app's
// own templates directory.
func resolveTemplate(template string, templateDirs []string, appDir string) bool {
	rel := filepath.FromSlash(template)
	if !filepath.IsLocal(rel) {
		return false
	}
	dirs := append(append([]string{}, templateDirs...), filepath.Join(appDir, "templates"))
	for _, dir := range dirs {
		info, err := os.Stat(filepath.Join(dir, rel))
		if err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
