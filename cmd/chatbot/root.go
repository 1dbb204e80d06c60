package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m2tx/session_chat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
	verbose bool

	v = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "A technical assistant chat with per-session memory",
	Long: `chatbot sends every message to a hosted LLM together with the earlier
turns of the same session, so the assistant remembers what was said.

The model is selected with --model (or CHATBOT_MODEL) as provider:model,
e.g. gemini:gemini-2.0-flash, openai:gpt-4o-mini or anthropic:claude-3-5-haiku-latest.
The matching API key is read from GOOGLE_API_KEY, OPENAI_API_KEY or
ANTHROPIC_API_KEY; a .env file in the working directory is loaded first.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/chatbot/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("model", "", "model in provider:model format")
	rootCmd.PersistentFlags().String("history-backend", "", "where transcripts live: memory or mongodb")

	_ = v.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = v.BindPFlag("history_backend", rootCmd.PersistentFlags().Lookup("history-backend"))

	rootCmd.AddCommand(demoCmd, chatCmd, serveCmd, historyCmd)
}

// initConfig reads in the .env file, config file and ENV variables if set.
func initConfig() {
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading env file: %v\n", err)
	}

	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "chatbot"))
		}
		v.AddConfigPath(".")
		v.SetConfigType("toml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}
