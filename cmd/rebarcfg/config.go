package main

import (
	"github.com/spf13/cobra"

	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/overrides"
	"github.com/rebarcfg/rebarcfg/pkg/settings"
)

var configApp string

var configCmd = &cobra.Command{
	Use:   "config [dir]",
	Short: "Show a directory's effective configuration",
	Long: `Loads dir/rebar.config (default: the current directory), evaluates its
companion script if present, applies override directives and prints the
resulting configuration. The text format is valid rebar.config source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		s, err := settings.Load()
		if err != nil {
			return err
		}
		ld := newLoader(s, filesystem.NewOS())

		cfg, err := ld.Load(dir)
		if err != nil {
			return err
		}
		merged := overrides.Apply(appScope(configApp, dir), cfg, overrides.FromConfig(cfg))
		return renderConfig(cmd.OutOrStdout(), outputFormat(s), merged)
	},
}

func init() {
	configCmd.Flags().StringVar(&configApp, "app", "", "Application name override directives are scoped by (default: project directory name)")
}
