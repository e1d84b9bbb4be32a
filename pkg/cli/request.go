package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest reads a YAML or JSON request file into v. The path "-"
// reads from stdin instead.
func LoadRequest(path string, v any) error {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return ParseRequest(data, "", v)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return ParseRequest(data, path, v)
}

// ParseRequest decodes request data into v. The filename's extension
// picks the codec; with no usable extension both are attempted, YAML
// first since it is a JSON superset.
func ParseRequest(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse YAML request: %w", err)
		}
		return nil
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse JSON request: %w", err)
		}
		return nil
	default:
		if yaml.Unmarshal(data, v) == nil {
			return nil
		}
		if json.Unmarshal(data, v) == nil {
			return nil
		}
		return fmt.Errorf("request is neither valid YAML nor JSON")
	}
}
