package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebarcfg/rebarcfg/pkg/paths"
	"github.com/rebarcfg/rebarcfg/pkg/settings"
)

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Write the default settings file",
	Long:  `Writes rebarcfg's default settings to the user configuration directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := paths.SettingsPath()
		if err := settings.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
