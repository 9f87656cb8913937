package main

import (
	"fmt"
	"os"

	"github.com/aquaeye/cmd/cli/client"
	"github.com/aquaeye/internal/cli/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "aquaeye",
	Short: "AquaEye CLI - fish-farm water quality monitoring",
	Long: `AquaEye CLI is a command-line tool for the AquaEye monitoring daemon.
It lists ponds and alerts, acknowledges and resolves alerts, and inspects
the telemetry engine.`,
}

func main() {
	viper.SetConfigName(".aquaeye")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	viper.ReadInConfig()

	baseURL := viper.GetString("server")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	apiClient := client.NewAPIClient(baseURL)

	rootCmd.AddCommand(commands.NewLoginCommand(apiClient))
	rootCmd.AddCommand(commands.NewPondCommand(apiClient))
	rootCmd.AddCommand(commands.NewAlertCommand(apiClient))
	rootCmd.AddCommand(commands.NewEngineCommand(apiClient))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
