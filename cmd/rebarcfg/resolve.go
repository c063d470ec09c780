package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/resolver"
	"github.com/rebarcfg/rebarcfg/pkg/settings"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <tool>",
	Short: "Locate an external build tool executable",
	Long: `Looks the named tool (e.g. rebar or rebar3) up on the system path, then
in the local cache, and prints the invocation string to use for it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return err
		}

		r := resolver.New(filesystem.NewOS(), rebarHome(s))
		invocation, ok := r.Resolve(args[0])
		if !ok {
			return errors.Newf(errors.ErrNotFound,
				"%s not found on the system path or in %s", args[0], r.Home)
		}
		fmt.Fprintln(cmd.OutOrStdout(), invocation)
		return nil
	},
}
