package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for mtt.

To load completions for your shell:

Bash:
  # To load completions for each session, execute once:
  # Linux:
  mtt completion bash > /etc/bash_completion.d/mtt
  # macOS:
  mtt completion bash > /usr/local/etc/bash_completion.d/mtt

  # Or add to your ~/.bashrc or ~/.bash_profile:
  source <(mtt completion bash)

Zsh:
  # To load completions for each session, execute once:
  mtt completion zsh > "${fpath[1]}/_mtt"

  # Or add to your ~/.zshrc:
  source <(mtt completion zsh)

  # You may need to force rebuild the completion cache:
  rm -f ~/.zcompdump
  compinit

Fish:
  # To load completions for each session, execute once:
  mtt completion fish > ~/.config/fish/completions/mtt.fish

  # Or add to your ~/.config/fish/config.fish:
  mtt completion fish | source

PowerShell:
  # To load completions for each session, run:
  mtt completion powershell | Out-String | Invoke-Expression

  # Or add to your PowerShell profile:
  # (Microsoft.PowerShell_profile.ps1 or profile.ps1)
  mtt completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	PersistentPreRunE:     func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch shell := args[0]; shell {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell type: %s", shell)
		}
	},
}

// completeTimerNames completes the NAME argument from the current state.
func completeTimerNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if app.configPath == "" {
		if err := setupApp(cmd, args); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	state, err := app.loadState()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return state.TimerNames(), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
