package providers

import (
	"fmt"

	"github.com/meysamhadeli/codetab/providers/codegen"
	"github.com/meysamhadeli/codetab/providers/contracts"
	contracts2 "github.com/meysamhadeli/codetab/token_management/contracts"
)

// AIProviderConfig represents the configuration for the completion backend.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	ApiKey      string   `mapstructure:"api_key"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	Temperature *float32 `mapstructure:"temperature"`
}

// ProviderFactory creates the completion provider based on the given provider config.
func ProviderFactory(config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.ICompletionProvider, error) {
	switch config.Provider {
	case "codegen", "":
		return codegen.NewCodegenProvider(&codegen.CodegenConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			ApiKey:          config.ApiKey,
			MaxTokens:       config.MaxTokens,
			Temperature:     config.Temperature,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: '%s'", config.Provider)
	}
}
