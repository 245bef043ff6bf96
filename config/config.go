// Package config loads the connection list and UI options from YAML.
// The core treats the result as read-only: connections are parsed once at
// startup and never written back.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dbnav/dbnav/drivers"
)

const (
	appName        = "dbnav"
	configFilename = "config.yml"
	localFilename  = ".dbnav.yml"
	envVar         = "DBNAV_CONFIG"

	defaultPageSize = 100
)

const sample = `conn:
  # MySQL example
  - type: mysql
    name: my-mysql
    user: root
    password: secret
    host: 127.0.0.1
    port: 3306
    database: mydb

  # PostgreSQL example
  - type: postgres
    name: my-postgres
    user: postgres
    password: secret
    host: 127.0.0.1
    port: 5432
    database: mydb

  # SQLite example
  - type: sqlite
    name: my-sqlite
    path: ~/data/sample.db
`

// UI holds presentation options.
type UI struct {
	PageSize int    `yaml:"page_size,omitempty"`
	Theme    string `yaml:"theme,omitempty"`
}

// Config is the merged application configuration.
type Config struct {
	Connections []drivers.Connection `yaml:"conn"`
	UI          UI                   `yaml:"ui,omitempty"`
}

// Load merges every config source in ascending precedence: the per-user
// file, the local file, $DBNAV_CONFIG, and finally explicitPath (the
// --config flag). Missing files are skipped; the UI section of the last
// file that sets it wins.
func Load(explicitPath string) (*Config, error) {
	merged := &Config{UI: UI{PageSize: defaultPageSize}}

	var paths []string
	if dir, err := Dir(); err == nil {
		paths = append(paths, filepath.Join(dir, configFilename))
	}
	paths = append(paths, localFilename)
	if env := os.Getenv(envVar); env != "" {
		paths = append(paths, env)
	}
	if explicitPath != "" {
		paths = append(paths, explicitPath)
	}

	for _, path := range paths {
		cfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			continue
		}
		merged.Connections = append(merged.Connections, cfg.Connections...)
		if cfg.UI.PageSize > 0 {
			merged.UI.PageSize = cfg.UI.PageSize
		}
		if cfg.UI.Theme != "" {
			merged.UI.Theme = cfg.UI.Theme
		}
	}

	if err := validate(merged.Connections); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML at %s: %w\n\nExpected format:\n%s", path, err, sample)
	}
	return &cfg, nil
}

func validate(conns []drivers.Connection) error {
	for i, c := range conns {
		if !c.Type.Valid() {
			return fmt.Errorf("connection %d (%s): unknown type %q", i, c.Name, c.Type)
		}
		if c.Name == "" {
			return fmt.Errorf("connection %d: the name field is required", i)
		}
	}
	return nil
}

// Dir returns the per-user application directory, creating it when
// missing. Log files live here too.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
