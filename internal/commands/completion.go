package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for anything.

To load completions:

Bash:
  $ source <(anything completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ anything completion bash > /etc/bash_completion.d/anything
  # macOS:
  $ anything completion bash > $(brew --prefix)/etc/bash_completion.d/anything

Zsh:
  $ source <(anything completion zsh)
  # To load completions for each session, execute once:
  $ anything completion zsh > "${fpath[1]}/_anything"

Fish:
  $ anything completion fish | source
  # To load completions for each session, execute once:
  $ anything completion fish > ~/.config/fish/completions/anything.fish

PowerShell:
  PS> anything completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(w); err != nil {
					return fmt.Errorf("generating bash completion: %w", err)
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(w); err != nil {
					return fmt.Errorf("generating zsh completion: %w", err)
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(w, true); err != nil {
					return fmt.Errorf("generating fish completion: %w", err)
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(w); err != nil {
					return fmt.Errorf("generating powershell completion: %w", err)
				}
			}
			return nil
		},
	}
}
