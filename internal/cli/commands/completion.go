package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the completion command for shell completions
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for tablemeta.

Entity arguments complete from the descriptor file, so completion honors
--config and --entities.

Bash:

  $ source <(tablemeta completion bash)

Zsh:

  $ tablemeta completion zsh > "${fpath[1]}/_tablemeta"

Fish:

  $ tablemeta completion fish | source

PowerShell:

  PS> tablemeta completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeEntities completes the first positional argument with registered entity names.
// Framework bases are left out since no command targets them directly.
func completeEntities(opts *rootOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		a, err := newApp(opts, io.Discard)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer a.close()

		var names []string
		for _, e := range a.registry.All() {
			if e.Framework {
				continue
			}
			if strings.HasPrefix(e.Name, toComplete) {
				names = append(names, e.Name)
			} else if strings.HasPrefix(e.FullName(), toComplete) {
				names = append(names, e.FullName())
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
