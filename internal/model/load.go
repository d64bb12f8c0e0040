package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON reads an input tree encoded as JSON.
func DecodeJSON(r io.Reader) (Spec, error) {
	var s Spec
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Spec{}, fmt.Errorf("failed to decode model json: %w", err)
	}
	return s, nil
}

// DecodeYAML reads an input tree encoded as YAML.
func DecodeYAML(r io.Reader) (Spec, error) {
	var s Spec
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Spec{}, fmt.Errorf("failed to decode model yaml: %w", err)
	}
	return s, nil
}

// LoadFile reads the input tree at path, picking the decoder from the
// file extension.
func LoadFile(path string) (Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spec{}, fmt.Errorf("failed to open model file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return Spec{}, fmt.Errorf("unsupported model file extension %q (expected .json, .yaml or .yml)", ext)
	}
}
