// Package cache stores bootstrap results on disk so repeated runs over the
// same predictions and options skip the resampling.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/fairci/fairci/internal/evaluation"
	"github.com/fairci/fairci/internal/statistics"
)

// Cache is a directory of JSON-encoded bootstrap results keyed by CacheKey.
// An empty directory disables caching.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// CacheKey derives a key from everything that determines a bootstrap result:
// the sample contents, the evaluator identity (kind and params, as a string
// chosen by the caller) and the options that affect the output. Workers is
// left out because results do not depend on it.
func CacheKey(sample evaluation.Sample, evaluatorID string, opts statistics.BootstrapOptions) (string, error) {
	h := sha256.New()

	if err := writeString(h, evaluatorID); err != nil {
		return "", err
	}
	if err := writeInt(h, int64(opts.K)); err != nil {
		return "", err
	}
	if err := writeInt(h, opts.Seed); err != nil {
		return "", err
	}
	if err := writeFloats(h, []float64{opts.ConfidencePct, opts.Threshold}); err != nil {
		return "", err
	}

	if err := writeInt(h, int64(sample.Len())); err != nil {
		return "", err
	}
	if err := writeFloats(h, sample.YTrue); err != nil {
		return "", err
	}
	if err := writeFloats(h, sample.YScores); err != nil {
		return "", err
	}
	for _, g := range sample.Sensitive {
		if err := writeString(h, g); err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get retrieves cached results if present and readable.
func (c *Cache) Get(key string) (*statistics.Results, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		return nil, false
	}

	var res statistics.Results
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Debug("Ignoring unreadable cache entry", "key", key, "error", err)
		return nil, false
	}

	return &res, true
}

// Put stores results under key.
func (c *Cache) Put(key string, res *statistics.Results) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	if err := os.WriteFile(c.cachePath(key), data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes the cache directory. It refuses to delete a directory that
// holds anything other than .json cache entries.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if filepath.Ext(entry.Name()) != ".json" {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func writeString(w io.Writer, s string) error {
	// null delimiter keeps ("ab","c") and ("a","bc") apart
	_, err := w.Write([]byte(s + "\x00"))
	return err
}

func writeInt(w io.Writer, i int64) error {
	_, err := fmt.Fprintf(w, "%d\x00", i)
	return err
}

func writeFloats(h hash.Hash, values []float64) error {
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := h.Write(buf[:]); err != nil {
			return err
		}
	}
	_, err := h.Write([]byte{0})
	return err
}
