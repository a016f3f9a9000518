package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the manifest looked up by the CLI.
const ManifestFileName = "blood.yml"

// SourceExtension is the extension of Blood scripts.
const SourceExtension = ".bd"

// Manifest represents the parsed contents of blood.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Authors     []string
	Targets     map[string]*TargetSpec
	TargetOrder []string
	Settings    Settings

	targetEntries []*TargetSpec
}

// TargetSpec names a runnable script.
type TargetSpec struct {
	Name         string
	OriginalName string
	Main         string
}

// Settings holds interpreter configuration shared by every target.
type Settings struct {
	MaxCallDepth int
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var ErrNoTargets = errors.New("manifest: no targets defined")

// LoadManifest parses blood.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("invalid version %q", m.Version))
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}

	seen := make(map[string]string, len(m.targetEntries))
	for _, target := range m.targetEntries {
		if other, exists := seen[target.Name]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, target.OriginalName))
			continue
		}
		seen[target.Name] = target.OriginalName
		switch {
		case target.Main == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main script", target.OriginalName))
		case filepath.Ext(target.Main) != SourceExtension:
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q main %q must be a %s file", target.OriginalName, target.Main, SourceExtension))
		}
	}

	if m.Settings.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "settings.max_call_depth must not be negative")
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,2}([0-9A-Za-z\-\+\.]*)?$`)

// DefaultTarget returns the target named "main" when present, otherwise the
// first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil || len(m.TargetOrder) == 0 {
		return nil, ErrNoTargets
	}
	if target, ok := m.Targets["main"]; ok {
		return target, nil
	}
	return m.Targets[m.TargetOrder[0]], nil
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.Targets[sanitizeSegment(name)]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(m.Targets[key].OriginalName, name) {
			return m.Targets[key], true
		}
	}
	return nil, false
}

// ResolveTargetMain returns the target's script path relative to the
// manifest directory.
func (m *Manifest) ResolveTargetMain(target *TargetSpec) (string, error) {
	if m == nil || target == nil {
		return "", fmt.Errorf("missing manifest or target")
	}
	mainPath := strings.TrimSpace(target.Main)
	if mainPath == "" {
		return "", fmt.Errorf("target %q missing main script", target.OriginalName)
	}
	if filepath.IsAbs(mainPath) {
		return filepath.Clean(mainPath), nil
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(mainPath)), nil
}

// FindManifest walks from start towards the filesystem root and returns the
// first blood.yml found. The error wraps ErrManifestNotFound when none exists.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

var ErrManifestNotFound = errors.New(ManifestFileName + " not found")

type manifestFile struct {
	Name     string       `yaml:"name"`
	Version  string       `yaml:"version"`
	Authors  []string     `yaml:"authors"`
	Targets  targetMap    `yaml:"targets"`
	Settings settingsYAML `yaml:"settings"`
}

type targetYAML struct {
	Main string `yaml:"main"`
}

type settingsYAML struct {
	MaxCallDepth int `yaml:"max_call_depth"`
}

// targetMap keeps targets in declaration order.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		var entry targetYAML
		valueNode := value.Content[i+1]
		if valueNode.Kind == yaml.ScalarNode {
			// Shorthand: `name: path/to/main.bd`.
			if err := valueNode.Decode(&entry.Main); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		} else if err := decodeStrict(valueNode, &entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

// decodeStrict re-encodes node so unknown keys inside nested mappings are
// rejected the same way as at the top level.
func decodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:        path,
		Name:        sanitizeSegment(mf.Name),
		Version:     strings.TrimSpace(mf.Version),
		Targets:     make(map[string]*TargetSpec, len(mf.Targets.items)),
		TargetOrder: make([]string, 0, len(mf.Targets.items)),
		Settings:    Settings{MaxCallDepth: mf.Settings.MaxCallDepth},

		targetEntries: make([]*TargetSpec, 0, len(mf.Targets.items)),
	}
	for _, author := range mf.Authors {
		result.Authors = append(result.Authors, strings.TrimSpace(author))
	}
	for _, item := range mf.Targets.items {
		key := sanitizeSegment(item.name)
		spec := &TargetSpec{
			Name:         key,
			OriginalName: item.name,
			Main:         strings.TrimSpace(item.spec.Main),
		}
		result.targetEntries = append(result.targetEntries, spec)
		if _, exists := result.Targets[key]; !exists {
			result.Targets[key] = spec
			result.TargetOrder = append(result.TargetOrder, key)
		}
	}
	return result
}

func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToLower(name)
}
