package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fairci/fairci/internal/projectconfig"
	"github.com/fairci/fairci/internal/validation"
)

func newConfigCommand() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or validate the effective configuration",
		Long: `Print the effective configuration as YAML: the nearest .fairci.yaml merged
onto the built-in defaults.

With --validate, check the nearest .fairci.yaml against the configuration
schema instead and list every violation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validate {
				return configValidateE(cmd)
			}
			return configShowE(cmd)
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Validate .fairci.yaml against the schema")

	return cmd
}

func configShowE(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	out := cmd.OutOrStdout()
	if cfg.Path != "" {
		fmt.Fprintf(out, "# loaded from %s\n", cfg.Path) //nolint:errcheck
	} else {
		fmt.Fprintln(out, "# built-in defaults") //nolint:errcheck
	}
	_, err = out.Write(data)
	return err
}

func configValidateE(cmd *cobra.Command) error {
	path, err := projectconfig.Find(".")
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no %s found", projectconfig.FileName)
	}
	if err != nil {
		return err
	}

	errs, err := validation.ValidateConfigFile(path)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e) //nolint:errcheck
		}
		return fmt.Errorf("%s: %d schema violation(s)", path, len(errs))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path) //nolint:errcheck
	return nil
}
