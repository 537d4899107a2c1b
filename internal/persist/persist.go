// Package persist reads and writes arbitrary Go values as JSON, YAML or
// compressed binary snapshots.
package persist

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// ErrExists is returned when overwrite is false and the target file exists.
var ErrExists = os.ErrExist

// Format identifies an on-disk encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatSnapshot Format = "snapshot"
)

// SnapshotExt is the file extension used for binary snapshots.
const SnapshotExt = ".snap"

// FormatFromPath picks the format from the file extension: .json, .yaml/.yml
// or .snap. Anything else defaults to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case SnapshotExt:
		return FormatSnapshot
	default:
		return FormatJSON
	}
}

// Save writes v to path in the format implied by its extension.
func Save(v any, path string, overwrite bool) error {
	switch FormatFromPath(path) {
	case FormatYAML:
		return SaveYAML(v, path, overwrite)
	case FormatSnapshot:
		return SaveSnapshot(v, path, overwrite)
	default:
		return SaveJSON(v, path, overwrite)
	}
}

// Load reads path into v in the format implied by its extension.
func Load(path string, v any) error {
	switch FormatFromPath(path) {
	case FormatYAML:
		return LoadYAML(path, v)
	case FormatSnapshot:
		return LoadSnapshot(path, v)
	default:
		return LoadJSON(path, v)
	}
}

// SaveJSON writes v as JSON indented with four spaces, with object keys
// sorted at every level. With overwrite false an existing file is left
// untouched and ErrExists is returned.
func SaveJSON(v any, path string, overwrite bool) error {
	slog.Info("Saving JSON file", "path", path)

	data, err := marshalSortedJSON(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeFile(path, data, overwrite)
}

// LoadJSON decodes the JSON file at path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// SaveYAML writes v as YAML.
func SaveYAML(v any, path string, overwrite bool) error {
	slog.Info("Saving YAML file", "path", path)

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeFile(path, data, overwrite)
}

// LoadYAML decodes the YAML file at path into v.
func LoadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// SaveSnapshot writes v as a zstd-compressed gob stream. Unlike JSON this
// keeps Go types intact (ints stay ints, NaN survives), so it suits
// intermediate results that are only read back by this tool. Failures are
// logged and returned.
func SaveSnapshot(v any, path string, overwrite bool) (err error) {
	defer func() {
		if err != nil {
			slog.Error("Snapshot save failed", "path", path, "error", err)
		}
	}()

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(v); err != nil {
		zw.Close() //nolint:errcheck
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing %s: %w", path, err)
	}

	return writeFile(path, buf.Bytes(), overwrite)
}

// LoadSnapshot decodes a snapshot written by SaveSnapshot into v.
func LoadSnapshot(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	zr, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	if err := gob.NewDecoder(zr).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// marshalSortedJSON round-trips v through a generic value so struct fields
// are emitted in key order like map keys.
func marshalSortedJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	out, err := json.MarshalIndent(generic, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
