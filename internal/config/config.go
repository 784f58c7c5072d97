package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/benaskins/gatekeep/internal/access"
	"gopkg.in/yaml.v3"
)

// Config holds persistent configuration loaded from ~/.gatekeep/config.yaml.
type Config struct {
	Service       string                `yaml:"service"`
	DefaultPolicy string                `yaml:"default_policy"`
	Policies      map[string]PolicySpec `yaml:"policies"`
}

// PolicySpec is the YAML form of an access.Policy.
//
//	biometric:
//	  protection: when-unlocked-this-device-only
//	  options: [biometry-any, device-passcode, or]
type PolicySpec struct {
	Protection string   `yaml:"protection,omitempty"`
	Options    []string `yaml:"options,omitempty"`
}

// Resolve parses the spec. An empty protection means after-first-unlock.
func (s PolicySpec) Resolve() (access.Policy, error) {
	var protection access.Protection
	if s.Protection != "" {
		p, err := access.ParseProtection(s.Protection)
		if err != nil {
			return access.Policy{}, err
		}
		protection = p
	}
	options, err := access.ParseOptions(s.Options...)
	if err != nil {
		return access.Policy{}, err
	}
	return access.New(protection, options), nil
}

// DefaultPath returns the default config file path: ~/.gatekeep/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gatekeep", "config.yaml")
}

// Load reads a YAML config file from path. If the file does not exist,
// it returns an empty Config and no error. An empty or all-comment file
// also returns an empty Config with no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every policy parses and that default_policy names
// one of them.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.PolicyNames() {
		if _, err := c.Policies[name].Resolve(); err != nil {
			errs = append(errs, fmt.Errorf("policy %q: %w", name, err))
		}
	}
	if c.DefaultPolicy != "" {
		if _, ok := c.Policies[c.DefaultPolicy]; !ok {
			errs = append(errs, fmt.Errorf("default_policy %q is not defined", c.DefaultPolicy))
		}
	}
	return errors.Join(errs...)
}

// PolicyNames returns the configured policy names, sorted.
func (c *Config) PolicyNames() []string {
	names := make([]string, 0, len(c.Policies))
	for name := range c.Policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Policy returns the named policy. An empty name selects default_policy,
// or the zero policy when none is configured.
func (c *Config) Policy(name string) (access.Policy, error) {
	if name == "" {
		name = c.DefaultPolicy
	}
	if name == "" {
		return access.Default(), nil
	}
	spec, ok := c.Policies[name]
	if !ok {
		return access.Policy{}, fmt.Errorf("unknown policy %q", name)
	}
	p, err := spec.Resolve()
	if err != nil {
		return access.Policy{}, fmt.Errorf("policy %q: %w", name, err)
	}
	return p, nil
}
