package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blorders/internal/gdrive"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize read access to Google Drive",
	Long: `Runs the OAuth desktop flow with drive.client_secret_file and saves the
token to drive.token_file. Not needed with a service account
(drive.credentials_file).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gdrive.Authorize(cmd.Context(), cfg.Drive.ClientSecretFile, cfg.Drive.TokenFile, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", cfg.Drive.TokenFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
