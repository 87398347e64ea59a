package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zopentimestamps/zots/internal/api"
	"github.com/zopentimestamps/zots/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the timestamping HTTP API",
	Long: `Expose stamping and verification over HTTP. Clients authenticate
with the configured wallet_api_key and receive a short-lived bearer
token.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		network, err := config.Network()
		if err != nil {
			exitErr("Error reading configured network: %v", err)
		}

		apiKey := viper.GetString("wallet_api_key")
		if apiKey == "" {
			exitErr("wallet_api_key is not configured; set it in config.json before serving")
		}

		openHistoryDB()

		server := api.NewAPI(newWalletClient(), network, apiKey,
			viper.GetInt("confirmation_attempts"))
		if err := server.Serve(viper.GetInt("api_port")); err != nil {
			exitErr("API server failed: %v", err)
		}
	},
}
