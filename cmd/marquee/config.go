package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/marquee/config"
)

func newConfigCmd(configPath *string) *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration or write the default file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				path, err := config.WriteDefault(*configPath, force)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", path)
				return err
			}

			cfg, err := config.Load(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "write the default config to --config or the default location")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	addConsoleFlags(cmd)
	return cmd
}
