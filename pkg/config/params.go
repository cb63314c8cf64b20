// Package config loads initial run parameters from files and flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// LoadParams reads a params file. The format is chosen by extension:
// .json, .yaml/.yml or .hcl. Keys are returned as written; the engine
// normalizes them.
func LoadParams(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseInline(string(data))
	case ".yaml", ".yml":
		return parseYAML(data, path)
	case ".hcl":
		return parseHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported params file extension %q (want .json, .yaml, .yml or .hcl)", ext)
	}
}

// ParseInline decodes a JSON object given on the command line.
func ParseInline(src string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(src) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(src), &out); err != nil {
		return nil, fmt.Errorf("invalid params JSON: %w", err)
	}
	return out, nil
}

// Merge layers each source over the previous one. Later keys win.
func Merge(sources ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, src := range sources {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}

func parseYAML(data []byte, path string) (map[string]any, error) {
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse YAML params %s: %w", path, err)
	}
	return out, nil
}

func parseHCL(data []byte, path string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL params %s: %s", path, diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL params %s: %s", path, diags.Error())
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %s in %s: %s", name, path, diags.Error())
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("in attribute '%s': %w", name, err)
		}
		out[name] = native
	}
	return out, nil
}
