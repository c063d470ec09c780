package main

import (
	"github.com/spf13/cobra"

	"github.com/rebarcfg/rebarcfg/pkg/config"
	"github.com/rebarcfg/rebarcfg/pkg/deps"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/overrides"
	"github.com/rebarcfg/rebarcfg/pkg/settings"
	"github.com/rebarcfg/rebarcfg/pkg/walker"
)

var depsApp string

var depsCmd = &cobra.Command{
	Use:   "deps [dir]",
	Short: "Translate every dependency declaration in a project tree",
	Long: `Walks the project's configuration tree starting at dir (default: the
current directory), applies override directives and prints the canonical
dependency descriptors of every reachable configuration, in traversal
order.`,
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
		fsys := filesystem.NewOS()
		ld := newLoader(s, fsys)
		app := appScope(depsApp, dir)

		perDir, err := walker.Walk(ld, dir, func(cfg config.Raw) ([]*deps.Descriptor, error) {
			merged := overrides.Apply(app, cfg, overrides.FromConfig(cfg))
			return deps.TranslateAll(merged)
		})
		if err != nil {
			return err
		}

		var all []*deps.Descriptor
		for _, ds := range perDir {
			all = append(all, ds...)
		}
		return renderDeps(cmd.OutOrStdout(), outputFormat(s), all)
	},
}

func init() {
	depsCmd.Flags().StringVar(&depsApp, "app", "", "Application name override directives are scoped by (default: project directory name)")
}
