package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rebarcfg/rebarcfg/internal/version"
	"github.com/rebarcfg/rebarcfg/pkg/logging"
)

var (
	verbosity  int
	formatFlag string
	noScripts  bool

	rootCmd = &cobra.Command{
		Use:   "rebarcfg",
		Short: "Translate legacy rebar project configuration",
		Long: `rebarcfg reads a rebar project's configuration, evaluates its optional
companion script, walks the sub_dirs tree, applies override directives and
translates every dependency declaration into a canonical descriptor a host
package manager can consume.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	initTemplateFormatting()

	// Verbosity flag for logging
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	// Output format for data-producing commands
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format: text, json or yaml (default from settings)")

	// Script evaluation opt-out
	rootCmd.PersistentFlags().BoolVar(&noScripts, "no-scripts", false, "Do not evaluate rebar.config.script files")

	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(genconfigCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for rebarcfg`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rebarcfg version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(rebarcfg completion bash)

Zsh:
  $ rebarcfg completion zsh > "${fpath[1]}/_rebarcfg"

Fish:
  $ rebarcfg completion fish | source

PowerShell:
  PS> rebarcfg completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
		return nil
	},
}
