package commands

import (
	"fmt"

	"github.com/aquaeye/cmd/cli/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewLoginCommand authenticates against the API and stores the token in
// the CLI config for later commands.
func NewLoginCommand(apiClient *client.APIClient) *cobra.Command {
	var username, password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login to AquaEye",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := apiClient.Login(username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			viper.Set("token", token)
			if err := viper.WriteConfig(); err != nil {
				if err := viper.SafeWriteConfig(); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			}

			fmt.Println("Login successful")
			return nil
		},
	}

	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	return loginCmd
}
