package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fairci/fairci/internal/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the bootstrap result cache",
		Long: `Manage the bootstrap result cache.

When cache.enabled is set in .fairci.yaml, bootstrap results are stored keyed
by the sample contents, the evaluator and the options that affect the output.
Re-running with identical inputs reads the stored results.`,
	}

	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the bootstrap result cache",
		Long: `Clear all cached bootstrap results.

The next bootstrap run will resample and evaluate from scratch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cacheClearE(cmd, cacheDir)
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default from config)")

	return cmd
}

func cacheClearE(cmd *cobra.Command, cacheDir string) error {
	if cacheDir == "" {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		cacheDir = cfg.CacheDir()
	}

	// Resolve to absolute path
	absDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return fmt.Errorf("resolving cache directory: %w", err)
	}

	c := cache.New(absDir)
	if err := c.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir) //nolint:errcheck
	return nil
}
