package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded spinet.toml together with where it was found. The
// manifest supplies per-project defaults (include search paths, the top
// cell, cache policy); command-line flags override it.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the spinet.toml layout.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Netlist NetlistConfig `toml:"netlist"`
	Cache   CacheConfig   `toml:"cache"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
}

type NetlistConfig struct {
	// Main is the default deck, relative to the project root.
	Main        string   `toml:"main"`
	IncludeDirs []string `toml:"include_dirs"`
	TopCell     string   `toml:"top_cell"`
	MaxDepth    int      `toml:"max_depth"`
}

type CacheConfig struct {
	// Enabled defaults to true when the key is absent.
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// FindManifestPath walks up from startDir to locate spinet.toml.
func FindManifestPath(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "spinet.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the directory containing spinet.toml, if any.
func FindRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifestPath(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// Load locates and parses the nearest spinet.toml above startDir. The
// second result is false when no manifest exists, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifestPath(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadFile parses an explicitly named manifest, bypassing discovery.
// Unlike Load, a missing file is an error here: the caller asked for this
// manifest by name.
func LoadFile(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	cfg, err := loadConfig(abs)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [project].name", path)
	}
	if meta.IsDefined("netlist", "max_depth") && cfg.Netlist.MaxDepth < 0 {
		return Config{}, fmt.Errorf("%s: [netlist].max_depth must not be negative", path)
	}
	if !meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = true
	}
	return cfg, nil
}

// MainPath resolves [netlist].main against the project root. Empty when
// the manifest does not name a default deck.
func (m *Manifest) MainPath() string {
	if m == nil || strings.TrimSpace(m.Config.Netlist.Main) == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Netlist.Main))
}

// IncludePaths resolves [netlist].include_dirs against the project root.
func (m *Manifest) IncludePaths() []string {
	if m == nil || len(m.Config.Netlist.IncludeDirs) == 0 {
		return nil
	}
	dirs := make([]string, 0, len(m.Config.Netlist.IncludeDirs))
	for _, dir := range m.Config.Netlist.IncludeDirs {
		dirs = append(dirs, filepath.Join(m.Root, filepath.FromSlash(dir)))
	}
	return dirs
}

// CacheDir resolves [cache].dir against the project root. Empty means the
// caller should fall back to the user-level cache location.
func (m *Manifest) CacheDir() string {
	if m == nil || strings.TrimSpace(m.Config.Cache.Dir) == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Cache.Dir))
}
