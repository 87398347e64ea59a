package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zopentimestamps/zots/internal/config"
	historydb "github.com/zopentimestamps/zots/internal/database"
	"github.com/zopentimestamps/zots/internal/logger"
	"github.com/zopentimestamps/zots/internal/wallet"
)

var rootCmd = &cobra.Command{
	Use:   "zots",
	Short: "Zcash timestamping CLI",
	Long: `Timestamp documents on the Zcash blockchain.

A stamp embeds a document hash in the encrypted memo of a shielded
transaction; the resulting proof can later be verified against the
chain without revealing the document.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(stampCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(nostrCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := logger.Init(viper.GetString("log_path")); err != nil {
		log.Printf("Error opening log file: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func exitErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		exitErr("Error encoding output: %v", err)
	}
}

func newWalletClient() *wallet.Client {
	return wallet.NewClient(viper.GetString("walletd_socket"))
}

func openHistoryDB() {
	if _, err := config.EnsureDataDir(); err != nil {
		exitErr("Error preparing data directory: %v", err)
	}
	if err := historydb.InitializeDatabase(viper.GetString("db_path")); err != nil {
		exitErr("Error opening history database: %v", err)
	}
}
