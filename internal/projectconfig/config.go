// Package projectconfig provides the ProjectConfig struct and loader for
// .fairci.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fairci/fairci/internal/dataset"
	"github.com/fairci/fairci/internal/evaluation"
	"github.com/fairci/fairci/internal/statistics"
)

// FileName is the configuration file looked up by Load.
const FileName = ".fairci.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultCacheDir = ".fairci-cache"

	DefaultOutputFormat = "auto"

	DefaultPerfMetric = "accuracy"
	DefaultDispMetric = "equalized_odds_diff"
	DefaultDataType   = "test"
	DefaultColor      = "black"
	DefaultWidthIn    = 6.0
	DefaultHeightIn   = 4.0
)

// maxSearchDepth bounds how many parent directories Load walks up.
const maxSearchDepth = 10

// BootstrapConfig holds the bootstrap estimator settings.
type BootstrapConfig struct {
	K             int      `yaml:"k,omitempty"`
	ConfidencePct float64  `yaml:"confidence_pct,omitempty"`
	Seed          *int64   `yaml:"seed,omitempty"`
	Threshold     *float64 `yaml:"threshold,omitempty"`
	Workers       int      `yaml:"workers,omitempty"`
}

// EvaluatorConfig selects the evaluator and its free-form parameters.
type EvaluatorConfig struct {
	Kind   evaluation.Kind `yaml:"kind,omitempty"`
	Params map[string]any  `yaml:"params,omitempty"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"`
	Overwrite *bool  `yaml:"overwrite,omitempty"`
}

// FrontierConfig holds post-processing frontier chart settings.
type FrontierConfig struct {
	PerfMetric string  `yaml:"perf_metric,omitempty"`
	DispMetric string  `yaml:"disp_metric,omitempty"`
	DataType   string  `yaml:"data_type,omitempty"`
	Color      string  `yaml:"color,omitempty"`
	WidthIn    float64 `yaml:"width_in,omitempty"`
	HeightIn   float64 `yaml:"height_in,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .fairci.yaml.
type ProjectConfig struct {
	Bootstrap BootstrapConfig `yaml:"bootstrap,omitempty"`
	Columns   dataset.Columns `yaml:"columns,omitempty"`
	Evaluator EvaluatorConfig `yaml:"evaluator,omitempty"`
	Cache     CacheConfig     `yaml:"cache,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Frontier  FrontierConfig  `yaml:"frontier,omitempty"`

	// Path is the file the config was loaded from; empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	b := statistics.DefaultBootstrapOptions()
	return &ProjectConfig{
		Bootstrap: BootstrapConfig{
			K:             b.K,
			ConfidencePct: b.ConfidencePct,
			Seed:          int64Ptr(b.Seed),
			Threshold:     float64Ptr(b.Threshold),
			Workers:       b.Workers,
		},
		Columns: dataset.DefaultColumns(),
		Evaluator: EvaluatorConfig{
			Kind: evaluation.DefaultKind,
		},
		Cache: CacheConfig{
			Enabled: boolPtr(false),
			Dir:     DefaultCacheDir,
		},
		Output: OutputConfig{
			Format:    DefaultOutputFormat,
			Overwrite: boolPtr(true),
		},
		Frontier: FrontierConfig{
			PerfMetric: DefaultPerfMetric,
			DispMetric: DefaultDispMetric,
			DataType:   DefaultDataType,
			Color:      DefaultColor,
			WidthIn:    DefaultWidthIn,
			HeightIn:   DefaultHeightIn,
		},
	}
}

// BootstrapOptions converts the bootstrap section into estimator options.
func (c *ProjectConfig) BootstrapOptions() statistics.BootstrapOptions {
	opts := statistics.DefaultBootstrapOptions()
	opts.K = c.Bootstrap.K
	opts.ConfidencePct = c.Bootstrap.ConfidencePct
	opts.Workers = c.Bootstrap.Workers
	if c.Bootstrap.Seed != nil {
		opts.Seed = *c.Bootstrap.Seed
	}
	if c.Bootstrap.Threshold != nil {
		opts.Threshold = *c.Bootstrap.Threshold
	}
	return opts
}

// CacheDir returns the cache directory. A relative cache.dir is taken
// relative to the directory holding the config file, so every subdirectory
// of a project shares one cache. Without a config file it stays relative to
// the working directory.
func (c *ProjectConfig) CacheDir() string {
	if c.Path == "" || filepath.IsAbs(c.Cache.Dir) {
		return c.Cache.Dir
	}
	return filepath.Join(filepath.Dir(c.Path), c.Cache.Dir)
}

// Load finds .fairci.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	return cfg, nil
}

// Find returns the path of the nearest .fairci.yaml at or above startDir.
func Find(startDir string) (string, error) {
	path, _, err := findConfigFile(startDir)
	return path, err
}

// findConfigFile walks up from dir looking for .fairci.yaml.
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Bootstrap
	if src.Bootstrap.K != 0 {
		dst.Bootstrap.K = src.Bootstrap.K
	}
	if src.Bootstrap.ConfidencePct != 0 {
		dst.Bootstrap.ConfidencePct = src.Bootstrap.ConfidencePct
	}
	if src.Bootstrap.Seed != nil {
		dst.Bootstrap.Seed = src.Bootstrap.Seed
	}
	if src.Bootstrap.Threshold != nil {
		dst.Bootstrap.Threshold = src.Bootstrap.Threshold
	}
	if src.Bootstrap.Workers != 0 {
		dst.Bootstrap.Workers = src.Bootstrap.Workers
	}

	// Columns
	if src.Columns.Label != "" {
		dst.Columns.Label = src.Columns.Label
	}
	if src.Columns.Score != "" {
		dst.Columns.Score = src.Columns.Score
	}
	if src.Columns.Group != "" {
		dst.Columns.Group = src.Columns.Group
	}

	// Evaluator
	if src.Evaluator.Kind != "" {
		dst.Evaluator.Kind = src.Evaluator.Kind
	}
	if src.Evaluator.Params != nil {
		dst.Evaluator.Params = src.Evaluator.Params
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Output
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Overwrite != nil {
		dst.Output.Overwrite = src.Output.Overwrite
	}

	// Frontier
	if src.Frontier.PerfMetric != "" {
		dst.Frontier.PerfMetric = src.Frontier.PerfMetric
	}
	if src.Frontier.DispMetric != "" {
		dst.Frontier.DispMetric = src.Frontier.DispMetric
	}
	if src.Frontier.DataType != "" {
		dst.Frontier.DataType = src.Frontier.DataType
	}
	if src.Frontier.Color != "" {
		dst.Frontier.Color = src.Frontier.Color
	}
	if src.Frontier.WidthIn != 0 {
		dst.Frontier.WidthIn = src.Frontier.WidthIn
	}
	if src.Frontier.HeightIn != 0 {
		dst.Frontier.HeightIn = src.Frontier.HeightIn
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func int64Ptr(v int64) *int64 {
	return &v
}

func float64Ptr(v float64) *float64 {
	return &v
}
