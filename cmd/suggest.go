package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codetab/constants/lipgloss"
	"github.com/meysamhadeli/codetab/suggestions"
	"github.com/meysamhadeli/codetab/utils"
)

// SuggestCmd: codetab suggest
var suggestCmd = &cobra.Command{
	Use:   "suggest [file]",
	Short: "Run an interactive suggestion session against a file.",
	Long: `The 'suggest' subcommand opens an interactive session on a file: every line
you type is appended to the buffer and, when realtime suggestions are enabled
and the buffer state changed, a completion fetch is fired. Use ':n' and ':p'
to cycle candidates, ':a' to accept the selected one, ':r' to reject all,
':s' for session stats, and ':q' to quit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleSuggestCommand(rootDependencies, args[0])
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func handleSuggestCommand(rootDependencies *RootDependencies, filePath string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go utils.GracefulShutdown(ctx, cancel, func() {
		rootDependencies.Resolver.Close()
		rootDependencies.TokenManagement.ClearToken()
	})

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true)

	lines, err := readBufferLines(filePath)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	ws, fs, err := rootDependencies.Engine.Session(filePath)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	optionsBox := lipgloss.BoxStyle.Render(":n next  :p previous  :a accept  :r reject  :s stats  :q quit")
	fmt.Println(optionsBox)
	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("project: %s", ws.ProjectID())))

	reader := bufio.NewReader(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		input, err := utils.InputPromptWithContext(ctx, reader)
		if err != nil {
			return
		}

		switch input {
		case ":q":
			rootDependencies.TokenManagement.DisplayTokens(
				rootDependencies.Config.AIProviderConfig.Provider,
				rootDependencies.Config.AIProviderConfig.Model,
			)
			return

		case ":n":
			rootDependencies.Engine.SelectNext(ws, fs)
			displaySelected(fs)

		case ":p":
			rootDependencies.Engine.SelectPrevious(ws, fs)
			displaySelected(fs)

		case ":a":
			accepted, ok := rootDependencies.Engine.Accept(ctx, ws, fs)
			if !ok {
				fmt.Println(lipgloss.Yellow.Render("No candidate to accept"))
				continue
			}
			fmt.Println(lipgloss.Green.Render("Accepted:"))
			if err := quick.Highlight(os.Stdout, accepted.Text+"\n", "go", "terminal256", rootDependencies.Config.Theme); err != nil {
				fmt.Println(accepted.Text)
			}
			lines = append(lines, strings.Split(accepted.Text, "\n")...)

		case ":r":
			rootDependencies.Engine.Reject(ctx, ws, fs)
			fmt.Println(lipgloss.Yellow.Render("Rejected all candidates"))

		case ":s":
			stats := rootDependencies.Registry.Stats()
			statsBox := lipgloss.BoxStyle.Render(fmt.Sprintf(
				"workspaces: %d - filespaces: %d - in-flight: %d - candidates: %d",
				stats.Workspaces, stats.Filespaces, stats.Inflight, fs.CandidateCount()))
			fmt.Println(statsBox)

		case "":
			continue

		default:
			lines = append(lines, input)
			line := len(lines) - 1
			col := len(lines[line])

			if !rootDependencies.Engine.RealtimeEnabled() {
				continue
			}
			if !rootDependencies.Engine.ShouldAutoTrigger(filePath, lines, line, col) {
				continue
			}

			spinnerFetch, _ := spinner.Start("Fetching suggestions...")
			candidates, err := rootDependencies.Engine.Generate(ctx, ws, fs, suggestions.GenerateRequest{
				Lines: lines,
				Line:  line,
				Col:   col,
			})
			spinnerFetch.Stop()
			fmt.Print("\r")

			if err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}
			if len(candidates) == 0 {
				fmt.Println(lipgloss.Gray.Render("No suggestions"))
				continue
			}
			displaySelected(fs)
		}
	}
}

func displaySelected(fs *suggestions.Filespace) {
	candidate, ok := fs.Selected()
	if !ok {
		fmt.Println(lipgloss.Gray.Render("No suggestions cached"))
		return
	}
	header := fmt.Sprintf("[%d/%d]", fs.SelectedIndex()+1, fs.CandidateCount())
	fmt.Println(lipgloss.BlueSky.Render(header))
	fmt.Println(candidate.Text)
}

func readBufferLines(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read buffer file: %w", err)
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n"), nil
}
