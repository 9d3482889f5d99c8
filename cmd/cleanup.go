package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codetab/constants/lipgloss"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Sweep idle suggestion entries out of the registry",
	Long: `The 'cleanup' command removes workspaces and filespaces that have been idle
past the expiry threshold. Sweeping is advisory housekeeping: expired entries
that have not been swept yet still behave correctly, expiry only bounds
memory. Nothing runs this sweep automatically.`,
	Run: func(cmd *cobra.Command, args []string) {
		stats, _ := cmd.Flags().GetBool("stats")
		handleCleanupCommand(cmd, stats)
	},
}

func init() {
	cleanupCmd.Flags().BoolP("stats", "s", false, "Show registry statistics before the sweep")

	rootCmd.AddCommand(cleanupCmd)
}

func handleCleanupCommand(cmd *cobra.Command, showStats bool) {
	rootDependencies := handleRootCommand(cmd)
	if rootDependencies == nil {
		return
	}

	if showStats {
		stats := rootDependencies.Registry.Stats()
		statsBox := lipgloss.BoxStyle.Render(fmt.Sprintf(
			"workspaces: %d - filespaces: %d - in-flight: %d",
			stats.Workspaces, stats.Filespaces, stats.Inflight))
		fmt.Println(statsBox)
	}

	removedWorkspaces, removedFilespaces := rootDependencies.Engine.Cleanup()
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf(
		"Removed %d idle workspace(s) and %d idle filespace(s)", removedWorkspaces, removedFilespaces)))
}
