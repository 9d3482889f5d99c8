package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meysamhadeli/codetab/constants/lipgloss"
	"github.com/meysamhadeli/codetab/providers"
	"github.com/meysamhadeli/codetab/suggestions"
)

// EditorConfig holds the formatting preferences forwarded to the provider.
type EditorConfig struct {
	TabSize    int  `mapstructure:"tab_size"`
	IndentSize int  `mapstructure:"indent_size"`
	UseTabs    bool `mapstructure:"use_tabs"`
}

// Config represents the structure of the configuration file
type Config struct {
	Version             string                      `mapstructure:"version"`
	Theme               string                      `mapstructure:"theme"`
	RealtimeSuggestions bool                        `mapstructure:"realtime_suggestions"`
	Editor              EditorConfig                `mapstructure:"editor"`
	AIProviderConfig    *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:             "0.3.1",
	Theme:               "dracula",
	RealtimeSuggestions: true,
	Editor: EditorConfig{
		TabSize:    4,
		IndentSize: 4,
		UseTabs:    false,
	},
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:    "codegen",
		BaseURL:     "http://localhost:8791",
		Model:       "codegen-small",
		ApiKey:      "",
		MaxTokens:   256,
		Temperature: nil,
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	// Set default values using Viper
	setDefaults()

	// Automatically read environment variables
	viper.AutomaticEnv()

	// Explicitly bind environment variables to config keys
	bindEnv()

	// Check if the user provided a config file
	if cfgFile != "" {
		// Use the config file from the flag
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		// Look for configuration files in the current directory
		viper.SetConfigName("codetab-config")
		viper.AddConfigPath(cwd)

		// Support both JSON and YAML formats
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	// Unmarshal the configuration into the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// RealtimeSuggestionsEnabled reads the realtime flag fresh from viper. It is
// deliberately not cached on the Config struct: eligibility checks must see
// configuration changes immediately.
func RealtimeSuggestionsEnabled() bool {
	return viper.GetBool("realtime_suggestions")
}

// EditorFormatting reads the editor formatting parameters fresh from viper.
func EditorFormatting() suggestions.Formatting {
	return suggestions.Formatting{
		TabSize:    viper.GetInt("editor.tab_size"),
		IndentSize: viper.GetInt("editor.indent_size"),
		UseTabs:    viper.GetBool("editor.use_tabs"),
	}
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("realtime_suggestions", DefaultConfig.RealtimeSuggestions)
	viper.SetDefault("editor.tab_size", DefaultConfig.Editor.TabSize)
	viper.SetDefault("editor.indent_size", DefaultConfig.Editor.IndentSize)
	viper.SetDefault("editor.use_tabs", DefaultConfig.Editor.UseTabs)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.max_tokens", DefaultConfig.AIProviderConfig.MaxTokens)
	viper.SetDefault("ai_provider_config.temperature", DefaultConfig.AIProviderConfig.Temperature)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("realtime_suggestions", "REALTIME_SUGGESTIONS")
	_ = viper.BindEnv("editor.tab_size", "TAB_SIZE")
	_ = viper.BindEnv("editor.indent_size", "INDENT_SIZE")
	_ = viper.BindEnv("editor.use_tabs", "USE_TABS")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY")
	_ = viper.BindEnv("ai_provider_config.max_tokens", "MAX_TOKENS")
	_ = viper.BindEnv("ai_provider_config.temperature", "TEMPERATURE")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("realtime_suggestions", rootCmd.PersistentFlags().Lookup("realtime_suggestions"))
	_ = viper.BindPFlag("editor.tab_size", rootCmd.PersistentFlags().Lookup("tab_size"))
	_ = viper.BindPFlag("editor.indent_size", rootCmd.PersistentFlags().Lookup("indent_size"))
	_ = viper.BindPFlag("editor.use_tabs", rootCmd.PersistentFlags().Lookup("use_tabs"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
	_ = viper.BindPFlag("ai_provider_config.max_tokens", rootCmd.PersistentFlags().Lookup("max_tokens"))
	_ = viper.BindPFlag("ai_provider_config.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	// Theme configuration
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set customize theme for candidate previews. (e.g., 'dracula', 'light', 'dark')")

	// Suggestion behavior
	rootCmd.PersistentFlags().Bool("realtime_suggestions", DefaultConfig.RealtimeSuggestions, "Enable or disable realtime suggestion generation as the buffer changes")

	// Editor formatting preferences forwarded to the provider
	rootCmd.PersistentFlags().Int("tab_size", DefaultConfig.Editor.TabSize, "Tab size of the editing buffer")
	rootCmd.PersistentFlags().Int("indent_size", DefaultConfig.Editor.IndentSize, "Indent size of the editing buffer")
	rootCmd.PersistentFlags().Bool("use_tabs", DefaultConfig.Editor.UseTabs, "Whether the editing buffer indents with tabs instead of spaces")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")

	// AI Provider configuration
	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the completion provider (e.g., 'codegen')")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of the completion provider (e.g., default is 'http://localhost:8791').")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The name of the model used for code completions, such as 'codegen-small'.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the completion provider.")
	rootCmd.PersistentFlags().Int("max_tokens", DefaultConfig.AIProviderConfig.MaxTokens, "Maximum tokens the provider may spend per completion.")
	rootCmd.PersistentFlags().Float32("temperature", 0, "Adjusts the model's creativity (0-1, default 0.2).")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}
