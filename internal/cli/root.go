// Package cli wires the cobra command tree for hostaudit.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// Root command flags.
var (
	portFlag           int
	identityFlag       string
	askPassFlag        bool
	timeoutFlag        time.Duration
	commandTimeoutFlag time.Duration
	planFlag           string
	outputFlag         string
	configFlag         string
	quietFlag          bool
	noColorFlag        bool
	insecureFlag       bool
)

// rootCmd runs the audit itself; subcommands are version and completion.
var rootCmd = &cobra.Command{
	Use:   "hostaudit [-p PORT] [-i KEY_PATH] user@host",
	Short: "Read-only audit of a remote Linux host over SSH",
	Long: `hostaudit connects to one remote Linux host over SSH and collects
OS facts, installed packages, service states, listening ports, disk layout,
top processes, and a set of well-known configuration files.

Results are written to a timestamped local directory as JSON and plain text.
Nothing is changed on the remote host.

Examples:
  hostaudit root@10.0.0.5
  hostaudit -p 2222 -i ./deploy_key admin@host.example
  hostaudit --plan extra.yaml --output /var/audits root@10.0.0.5`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlag {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		return auditCommand(cmd, args[0])
	},
}

func init() {
	rootCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "SSH port (default 22, or ~/.ssh/config)")
	rootCmd.Flags().StringVarP(&identityFlag, "identity", "i", "", "private key file for authentication")
	rootCmd.Flags().BoolVar(&askPassFlag, "ask-pass", false, "prompt for an SSH password")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "connection timeout (e.g., 10s, 1m)")
	rootCmd.Flags().DurationVar(&commandTimeoutFlag, "command-timeout", 0, "per-operation timeout, 0 for none (e.g., 60s)")
	rootCmd.Flags().StringVar(&planFlag, "plan", "", "YAML file with extra commands and config paths")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "base directory for run directories")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "config file (default .hostaudit.yaml)")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress per-operation progress lines")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&insecureFlag, "insecure-host-key", false, "skip known_hosts verification")
}

// Execute runs the root command. Usage, config, and connection errors all
// exit 1; operation failures during the run do not affect the exit status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
