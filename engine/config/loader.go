package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a configuration file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFromPath picks the encoding from a file extension.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - Format: the matching format
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load reads, decodes and validates a configuration file. Keys missing from the file keep
// their Default values.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - *Config: the loaded configuration
//   - error: a read, decode or validation error
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return c, nil
}

// Decode parses configuration bytes over Default and validates the result. Unknown keys
// are rejected so typos surface instead of silently falling back to defaults.
//
// Parameters:
//   - data: the encoded configuration
//   - format: the encoding of data
//
// Returns:
//   - *Config: the decoded configuration
//   - error: a decode or validation error
func Decode(data []byte, format Format) (*Config, error) {
	c := Default()
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Encode writes the configuration in the given format.
//
// Parameters:
//   - c: the configuration to encode
//   - format: the target encoding
//
// Returns:
//   - []byte: the encoded configuration
//   - error: an encode error
func Encode(c *Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, ErrUnsupportedFormat
	}
}
