// Package export writes artifacts derived from a deck for use outside the
// presenter, such as upload metadata for a recorded run through the slides.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// ErrUnknownFormat is returned for metadata formats other than json and yaml
var ErrUnknownFormat = errors.New("unknown metadata format")

// FormatFor picks the metadata format from a file name, defaulting to JSON
func FormatFor(path string) entities.MetadataFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return entities.MetadataFormatYAML
	}
	return entities.MetadataFormatJSON
}

// WriteMetadata encodes meta to w
func WriteMetadata(w io.Writer, meta *entities.VideoMetadata, format entities.MetadataFormat) error {
	switch format {
	case entities.MetadataFormatJSON, "":
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err

	case entities.MetadataFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// SaveMetadata writes meta to path in the format its extension names. With
// sibling set, a YAML copy is written next to a JSON file (or the other way
// round) for hand editing. It returns every file written.
func SaveMetadata(path string, meta *entities.VideoMetadata, sibling bool) ([]string, error) {
	format := FormatFor(path)
	written := []string{path}
	if err := writeMetadataFile(path, meta, format); err != nil {
		return nil, err
	}

	if !sibling {
		return written, nil
	}

	other := SiblingPath(path)
	if err := writeMetadataFile(other, meta, FormatFor(other)); err != nil {
		return written, err
	}
	return append(written, other), nil
}

// SiblingPath is path with its extension swapped between .json and .yaml
func SiblingPath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if FormatFor(path) == entities.MetadataFormatYAML {
		return base + ".json"
	}
	return base + ".yaml"
}

func writeMetadataFile(path string, meta *entities.VideoMetadata, format entities.MetadataFormat) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := WriteMetadata(f, meta, format); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
