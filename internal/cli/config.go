package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/kanban/internal/model"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		initFile bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if initFile {
				if _, err := os.Stat(opts.configPath); err == nil && !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
				} else if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				if err := model.SaveConfig(opts.configPath, model.DefaultAppConfig()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote default configuration to %s\n", opts.configPath)
				return nil
			}

			cfg, err := model.LoadConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			fmt.Fprintf(out, "# %s\n", opts.configPath)
			fmt.Fprint(out, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file with --init")
	return cmd
}
