package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codetab/config"
	"github.com/meysamhadeli/codetab/constants/lipgloss"
	"github.com/meysamhadeli/codetab/project"
	"github.com/meysamhadeli/codetab/providers"
	contracts_provider "github.com/meysamhadeli/codetab/providers/contracts"
	"github.com/meysamhadeli/codetab/suggestions"
	"github.com/meysamhadeli/codetab/token_management"
	contracts_token "github.com/meysamhadeli/codetab/token_management/contracts"
)

// RootDependencies holds the wired-up collaborators shared by all
// subcommands.
type RootDependencies struct {
	Config          *config.Config
	Cwd             string
	Resolver        *project.MarkerResolver
	Registry        *suggestions.Registry
	Engine          *suggestions.Engine
	Provider        contracts_provider.ICompletionProvider
	TokenManagement contracts_token.ITokenManagement
}

var rootCmd = &cobra.Command{
	Use:   "codetab",
	Short: "AI-powered inline code completion engine",
	Long: `Codetab caches AI-generated code completion candidates per project and per
file, keeps them consistent with the live buffer state, and lets the editor
cycle through, accept, or reject them.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads configuration and wires the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	tokenManagement := token_management.NewTokenManager()

	provider, err := providers.ProviderFactory(cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	resolver := project.NewMarkerResolver()
	registry := suggestions.NewRegistry(resolver)
	engine := suggestions.NewEngine(registry, provider,
		suggestions.WithRealtimeGate(config.RealtimeSuggestionsEnabled),
		suggestions.WithFormatting(config.EditorFormatting),
	)

	return &RootDependencies{
		Config:          cfg,
		Cwd:             cwd,
		Resolver:        resolver,
		Registry:        registry,
		Engine:          engine,
		Provider:        provider,
		TokenManagement: tokenManagement,
	}
}
