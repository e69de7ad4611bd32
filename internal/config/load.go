package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/venlacy0/venblog/internal/foundation/errors"
)

// yamlFileName is tried when no JSON config exists at the site root.
const yamlFileName = "venblog.config.yaml"

// sections are the top-level keys that must hold objects when present.
var sections = []string{"site", "hero", "buttons", "showcase", "archive", "post", "assets"}

// Resolve returns the config file path for root. An explicit path is taken
// relative to root unless absolute. Without one, venblog.config.json is
// preferred over venblog.config.yaml; the JSON name is returned when neither
// exists.
func Resolve(root, explicit string) string {
	if explicit != "" {
		if filepath.IsAbs(explicit) {
			return explicit
		}
		return filepath.Join(root, explicit)
	}
	jsonPath := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath
	}
	yamlPath := filepath.Join(root, yamlFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return jsonPath
}

// Find returns the existing config file under root, if any, using the same
// preference order as Resolve.
func Find(root string) (string, bool) {
	for _, name := range []string{DefaultFileName, yamlFileName} {
		p := filepath.Join(root, name)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Load reads the config file at path and deep-merges it over Defaults. A
// missing file yields the defaults. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func Load(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return SiteConfig{}, errors.ConfigParseError("cannot read config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	ext := strings.ToLower(filepath.Ext(path))
	cfg, err := Parse(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return SiteConfig{}, errors.ConfigParseError(ce.Message()).
				WithCause(ce.Cause()).
				WithContext("path", path).
				Build()
		}
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Parse decodes a config document and merges it over Defaults. Objects merge
// recursively; arrays and scalars in data replace the default wholesale.
func Parse(data []byte, isYAML bool) (SiteConfig, error) {
	var raw any
	if isYAML {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return SiteConfig{}, errors.ConfigParseError("config file is not valid YAML").WithCause(err).Build()
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return SiteConfig{}, errors.ConfigParseError("config file is not valid JSON").WithCause(err).Build()
	}

	overrides, ok := raw.(map[string]any)
	if !ok {
		return SiteConfig{}, errors.ConfigParseError("config top level must be an object").
			WithContext("type", typeName(raw)).
			Build()
	}
	for _, name := range sections {
		v, present := overrides[name]
		if !present {
			continue
		}
		if _, isObject := v.(map[string]any); !isObject {
			return SiteConfig{}, errors.ConfigParseError("config section must be an object").
				WithContext("section", name).
				WithContext("type", typeName(v)).
				Build()
		}
	}

	base, err := toMap(Defaults())
	if err != nil {
		return SiteConfig{}, errors.InternalError("encode default config").WithCause(err).Build()
	}
	merged := Merge(base, overrides)

	buf, err := json.Marshal(merged)
	if err != nil {
		return SiteConfig{}, errors.ConfigParseError("config contains values that cannot be encoded").WithCause(err).Build()
	}
	var cfg SiteConfig
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return SiteConfig{}, errors.ConfigParseError("config value has the wrong type").WithCause(err).Build()
	}
	return cfg, nil
}

// Merge returns base with overrides applied. Nested objects are merged
// recursively; any other override value replaces the base value. Neither
// input is modified.
func Merge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	maps.Copy(out, base)
	for k, ov := range overrides {
		if om, ok := ov.(map[string]any); ok {
			if bm, ok := out[k].(map[string]any); ok {
				out[k] = Merge(bm, om)
				continue
			}
		}
		out[k] = ov
	}
	return out
}

func toMap(cfg SiteConfig) (map[string]any, error) {
	buf, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int:
		return "number"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
