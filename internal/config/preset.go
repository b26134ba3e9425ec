package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadPreset reads an Options preset from a YAML or TOML file, chosen by
// extension.
func LoadPreset(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(filepath.Ext(path), data)
}

// ParsePreset decodes preset bytes. ext is a file extension such as ".toml".
func ParsePreset(ext string, data []byte) (Options, error) {
	var o Options
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &o); err != nil {
			return Options{}, fmt.Errorf("parse yaml preset: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &o); err != nil {
			return Options{}, fmt.Errorf("parse toml preset: %w", err)
		}
	default:
		return Options{}, fmt.Errorf("unsupported preset format %q", ext)
	}
	return o, nil
}

// EncodePreset renders Options back into a preset document.
func EncodePreset(ext string, o Options) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(o); err != nil {
			return nil, fmt.Errorf("encode yaml preset: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml preset: %w", err)
		}
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(o); err != nil {
			return nil, fmt.Errorf("encode toml preset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported preset format %q", ext)
	}
	return buf.Bytes(), nil
}
