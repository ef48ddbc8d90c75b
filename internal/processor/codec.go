// Package processor decodes GeoJSON documents, runs geometry operations over
// them and encodes the result.
package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/geomodels/geo"
	"github.com/woozymasta/geomodels/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

const mimeJSON = "application/json"

// DecodeObject parses a GeoJSON document. Input starting with '{' is read as
// JSON, anything else as YAML.
func DecodeObject(data []byte) (geo.GeoJSONObject, error) {
	var obj geo.GeoJSONObject

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return obj, fmt.Errorf("empty document: %w", geo.ErrMalformedGeoJSON)
	}

	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return obj, fmt.Errorf("decode json: %v: %w", err, geo.ErrMalformedGeoJSON)
		}
		return obj, nil
	}

	if err := yaml.Unmarshal(trimmed, &obj); err != nil {
		return obj, fmt.Errorf("decode yaml: %v: %w", err, geo.ErrMalformedGeoJSON)
	}
	return obj, nil
}

// Encode marshals v in the requested format. Minification only applies to JSON.
func Encode(v any, format string, minified bool) ([]byte, error) {
	switch format {
	case config.FormatYAML:
		return yaml.Marshal(v)
	case config.FormatJSON, "":
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if !minified {
		return data, nil
	}

	m := minify.New()
	m.AddFunc(mimeJSON, mjson.Minify)
	return m.Bytes(mimeJSON, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	_, err = f.Write(data)
	return err
}
