// Package persistence reads catalog documents and workout-session exports from disk.
package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Phippsy/exercise/internal/domain"
)

// Format identifies a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadCatalog reads and decodes the catalog at path.
func LoadCatalog(path string, schema domain.Schema) (domain.Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	cat, err := DecodeCatalog(data, format, schema)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// DecodeCatalog decodes raw catalog bytes.
func DecodeCatalog(data []byte, format Format, schema domain.Schema) (domain.Catalog, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return domain.Catalog{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Catalog{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return domain.Catalog{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return domain.Catalog{}, fmt.Errorf("%w: top level is %T, not an object", domain.ErrMalformedDocument, doc)
	}
	return domain.BuildCatalog(obj, schema)
}
