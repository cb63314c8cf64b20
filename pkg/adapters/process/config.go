package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lcm/pkg/schema"
)

// DefaultConfigPath is the brick binding file looked up when none is given.
const DefaultConfigPath = "bricks.yaml"

// BrickConfig binds a brick short name to an external command.
type BrickConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
	// Params declares parameters the command requires, by type name.
	Params schema.Schema `yaml:"params" json:"params"`
	// Timeout bounds one invocation, e.g. "5m". Empty means no limit.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// ConfigFile represents the structure of bricks.yaml.
type ConfigFile struct {
	Bricks []BrickConfig `yaml:"bricks" json:"bricks"`
}

// LoadBricks reads a configuration file (YAML or JSON) and returns a map of
// brick names to their bindings. A missing file yields an empty map.
func LoadBricks(path string) (map[string]BrickConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]BrickConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read bricks config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	bricks := make(map[string]BrickConfig, len(cfg.Bricks))
	for _, b := range cfg.Bricks {
		if b.Name == "" {
			continue
		}
		if b.Command == "" {
			return nil, fmt.Errorf("brick %s: command is required", b.Name)
		}
		if b.Timeout != "" {
			if _, err := time.ParseDuration(b.Timeout); err != nil {
				return nil, fmt.Errorf("brick %s: invalid timeout: %w", b.Name, err)
			}
		}
		bricks[b.Name] = b
	}
	return bricks, nil
}
